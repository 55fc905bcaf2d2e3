package buildinfo

import (
	"strings"
	"testing"
)

func TestLdflagsVersionWins(t *testing.T) {
	old := Version
	defer func() { Version = old }()

	Version = "v1.2.3"
	if got := Get().Version; got != "v1.2.3" {
		t.Errorf("Get().Version = %q, want v1.2.3", got)
	}
	if !strings.Contains(Template(), "version v1.2.3") {
		t.Errorf("Template() = %q", Template())
	}
	if !strings.HasPrefix(String(), "version: v1.2.3\n") {
		t.Errorf("String() = %q", String())
	}
}

func TestDevVersionIsNeverEmpty(t *testing.T) {
	if Get().Version == "" {
		t.Error("version should never be empty")
	}
}
