// Package cli implements the geodome command-line interface.
//
// geodome partitions the field graph of a geodesic dome shell into
// print-bed-sized continents and stacks those continents into print batches.
// The CLI is built using cobra and logs via charmbracelet/log.
//
// # Commands
//
//   - partition: Grow continents from a geometry document
//   - stack: (Re)stack the continents of an existing layout
//   - run: Partition and stack in one go
//   - visualize: Draw the continent adjacency map (DOT, SVG, PDF, PNG)
//   - inspect: Browse the stacks of a layout interactively
//   - serve: Expose the pipeline over HTTP
//   - cache: Manage the partition cache
//
// # Configuration
//
// Every command starts from the built-in defaults, applies the TOML file
// given with --config (-c), and then applies explicit flags. Partition
// results are cached on disk, or in Redis when --redis or GEODOME_REDIS_ADDR
// is set.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/geodome/pkg/buildinfo"
	"github.com/matzehuels/geodome/pkg/cache"
	"github.com/matzehuels/geodome/pkg/config"
	"github.com/matzehuels/geodome/pkg/observability"
	"github.com/matzehuels/geodome/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display and completions.
	appName = "geodome"

	// envRedis names the environment variable holding the Redis address.
	envRedis = "GEODOME_REDIS_ADDR"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	redisAddr  string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "geodome splits a geodesic dome into printable continents",
		Long: `geodome partitions the field graph of a geodesic dome shell into contiguous,
print-bed-sized regions ("continents") and stacks them into print batches.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			observability.SetCacheHooks(&logHooks{logger: c.Logger})
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "TOML configuration file")
	root.PersistentFlags().StringVar(&c.redisAddr, "redis", os.Getenv(envRedis), "Redis address or URL for the partition cache")

	root.AddCommand(c.partitionCommand())
	root.AddCommand(c.stackCommand())
	root.AddCommand(c.runCommand())
	root.AddCommand(c.visualizeCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) *pipeline.Runner {
	return pipeline.NewRunner(c.newCache(ctx, noCache), nil, c.Logger)
}

// newCache picks the cache backend. An unreachable Redis falls back to the
// file cache, and an unusable cache directory disables caching.
func (c *CLI) newCache(ctx context.Context, noCache bool) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}
	if c.redisAddr != "" {
		rc, err := cache.NewRedisCache(ctx, c.redisAddr)
		if err == nil {
			c.Logger.Debug("using redis cache", "addr", c.redisAddr)
			return rc
		}
		c.Logger.Warn("redis unavailable, using file cache", "addr", c.redisAddr, "err", err)
	}
	dir, err := cache.DefaultDir()
	if err != nil {
		return cache.NewNullCache()
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Warn("cache disabled", "dir", dir, "err", err)
		return cache.NewNullCache()
	}
	return fc
}

// loadConfig returns the defaults, overlaid with the --config file if given.
func (c *CLI) loadConfig() (*config.Config, error) {
	if c.configPath == "" {
		return config.Default(), nil
	}
	return config.Load(c.configPath)
}

// =============================================================================
// Paths
// =============================================================================

// outputPath derives an output file next to input, replacing its extension
// (and a ".layout" infix) with suffix.
func outputPath(input, suffix string) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	base = strings.TrimSuffix(base, ".layout")
	return base + suffix
}
