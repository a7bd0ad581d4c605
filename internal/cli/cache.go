package cli

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/boardexport/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the image cache",
		Long: `Manage the cache of fetched tile images and normalized print tiles.

The file cache lives in $XDG_CACHE_HOME/boardexport. A Redis cache is
selected with [cache] backend = "redis" in the config file.`,
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())
	cmd.AddCommand(c.cachePingCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached file entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			count, err := clearDir(dir)
			if err != nil {
				return err
			}
			if count == 0 {
				printInfo("Cache is empty")
				return nil
			}
			printSuccess("Cleared %d cached entries", count)
			printDetail("Directory: %s", dir)
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}

// cachePingCommand creates the "cache ping" subcommand, which round-trips
// a value through the configured backend.
func (c *CLI) cachePingCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the configured cache backend works",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			cc, err := newCache(cmd.Context(), cfg.Cache, false)
			if err != nil {
				return err
			}
			defer cc.Close()
			if err := ping(cmd.Context(), cc); err != nil {
				printError("Cache %s unavailable", backendName(cfg.Cache))
				return err
			}
			printSuccess("Cache %s ok", backendName(cfg.Cache))
			return nil
		},
	}
}

// ping writes, reads, and deletes a probe key.
func ping(ctx context.Context, cc cache.Cache) error {
	const key = "boardexport:ping"
	if err := cc.Set(ctx, key, []byte("ok"), time.Minute); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	if _, _, err := cc.Get(ctx, key); err != nil {
		return fmt.Errorf("cache get: %w", err)
	}
	return cc.Delete(ctx, key)
}

func backendName(cfg CacheConfig) string {
	if cfg.Backend == "" {
		return CacheFile
	}
	return cfg.Backend
}

// clearDir removes every file below dir and then the emptied directories.
// dir itself is kept. A missing dir clears nothing.
func clearDir(dir string) (int, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return 0, nil
	}

	count := 0
	var dirs []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || path == dir {
			return nil
		}
		if d.IsDir() {
			dirs = append(dirs, path)
			return nil
		}
		if err := os.Remove(path); err == nil {
			count++
		}
		return nil
	})
	if err != nil {
		return count, err
	}

	// Deepest first, so parents are empty by the time they are removed.
	for i := len(dirs) - 1; i >= 0; i-- {
		os.Remove(dirs[i])
	}
	return count, nil
}
