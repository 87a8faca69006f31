package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tdvisu/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the render cache",
		Long: `Manage the render cache. Every frame laid out by Graphviz is stored under
the hash of its DOT source, so unchanged frames are never laid out twice.`,
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())
	cmd.AddCommand(c.cacheStatsCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear all cached renders",
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, ok, err := openCache()
			if err != nil {
				return err
			}
			if !ok {
				printInfo("Cache is empty")
				return nil
			}

			count, err := fc.Clear()
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			c.Logger.Debug("cleared cache", "dir", fc.Dir(), "entries", count)
			printSuccess("Cleared %d cached renders", count)
			printDetail("Directory: %s", fc.Dir())
			return nil
		},
	}
}

// cacheStatsCommand creates the "cache stats" subcommand.
func (c *CLI) cacheStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show the size of the render cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, ok, err := openCache()
			if err != nil {
				return err
			}
			if !ok {
				printInfo("Cache is empty")
				return nil
			}

			entries, size, err := fc.Stats()
			if err != nil {
				return fmt.Errorf("read cache: %w", err)
			}
			printKeyValue("directory", fc.Dir())
			printKeyValue("entries", fmt.Sprintf("%d", entries))
			printKeyValue("size", fmt.Sprintf("%.1f KiB", float64(size)/1024))
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

// openCache opens the cache directory. ok is false when it does not exist
// yet; it is not created.
func openCache() (fc *cache.FileCache, ok bool, err error) {
	dir, err := cacheDir()
	if err != nil {
		return nil, false, fmt.Errorf("get cache dir: %w", err)
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, false, nil
	}
	fc, err = cache.OpenFileCache(dir)
	if err != nil {
		return nil, false, err
	}
	return fc, true, nil
}
