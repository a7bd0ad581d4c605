// Package cli implements the boardexport command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/boardexport/pkg/buildinfo"
	"github.com/matzehuels/boardexport/pkg/cache"
	"github.com/matzehuels/boardexport/pkg/errors"
	"github.com/matzehuels/boardexport/pkg/export"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "boardexport"

	// configName is the config file name inside the config directory.
	configName = "config.toml"
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

	// configPath overrides the default config location (--config).
	configPath string
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
		Short: "Export communication boards for sharing and printing",
		Long: `boardexport converts Cboard communication boards into Open Board Format
documents and archives, native snapshots, and printable grid layouts.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/boardexport/config.toml)")

	root.AddCommand(c.exportCommand())
	root.AddCommand(c.boardsCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates an export runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, cfg Config, noCache bool) (*export.Runner, error) {
	cc, err := newCache(ctx, cfg.Cache, noCache)
	if err != nil {
		return nil, err
	}
	runner := export.NewRunner(cc, nil, c.Logger)
	runner.FetchTTL = cfg.Cache.TTL.Duration
	runner.Retries = cfg.Fetch.Retries
	runner.RetryDelay = cfg.Fetch.RetryDelay.Duration
	return runner, nil
}

// newCache opens the configured cache backend. The file backend silently
// degrades to no caching when no cache directory can be determined.
func newCache(ctx context.Context, cfg CacheConfig, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Backend {
	case "", CacheFile:
		dir, err := cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	case CacheRedis:
		return cache.NewRedisCache(ctx, cfg.RedisAddr)
	case CacheNone:
		return cache.NewNullCache(), nil
	}
	return nil, errors.New(errors.ErrCodeInvalidInput, "unknown cache backend: %q (must be none, file, or redis)", cfg.Backend)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/boardexport/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// configFile returns the default config file path (~/.config/boardexport/config.toml).
func configFile() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, configName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, configName), nil
}

// loadConfig reads the --config file, or the default one when it exists.
func (c *CLI) loadConfig() (Config, error) {
	if c.configPath != "" {
		return LoadConfig(c.configPath)
	}
	path, err := configFile()
	if err != nil {
		return DefaultConfig(), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	return LoadConfig(path)
}

// timeoutOr returns d, or the default generation timeout when d is unset.
func timeoutOr(d time.Duration) time.Duration {
	if d > 0 {
		return d
	}
	return defaultTimeout
}
