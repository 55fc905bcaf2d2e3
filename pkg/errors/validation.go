package errors

import (
	"math"
	"path/filepath"
	"slices"
	"strings"
	"unicode"
)

// ValidatePositive checks that a configuration value is a positive finite
// number. name is the dotted key reported to the user (e.g. "stack.gap").
func ValidatePositive(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return New(ErrCodeInvalidConfig, "%s must be a positive number, got %g", name, v)
	}
	return nil
}

// ValidateAtLeast checks that an integer configuration value is >= lo.
func ValidateAtLeast(name string, v, lo int) error {
	if v < lo {
		return New(ErrCodeInvalidConfig, "%s must be at least %d, got %d", name, lo, v)
	}
	return nil
}

// ValidateOneOf checks that a configuration value is one of the allowed
// choices. Comparison is case-sensitive; callers normalize first.
func ValidateOneOf(name, v string, allowed ...string) error {
	if slices.Contains(allowed, v) {
		return nil
	}
	return New(ErrCodeInvalidConfig, "%s must be one of %s, got %q", name, strings.Join(allowed, ", "), v)
}

// ValidatePath validates a user supplied file path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidInput, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "path contains invalid characters")
		}
	}
	return nil
}

// ValidateOutputPath validates a path the CLI will write to. In addition to
// [ValidatePath] it rejects directories (trailing separator).
func ValidateOutputPath(path string) error {
	if err := ValidatePath(path); err != nil {
		return err
	}
	if strings.HasSuffix(path, string(filepath.Separator)) || strings.HasSuffix(path, "/") {
		return New(ErrCodeInvalidInput, "output path %q is a directory", path)
	}
	return nil
}
