package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/matzehuels/letterpress/pkg/cache"
	lperrors "github.com/matzehuels/letterpress/pkg/errors"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local result cache",
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
		Short: "Remove all cached results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := c.fileCache()
			if err != nil {
				return err
			}

			count, err := fc.Clear()
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			if count == 0 {
				printInfo("Cache is empty")
				return nil
			}

			printSuccess("Cleared %s cached %s", humanize.Comma(int64(count)), plural(count, "entry", "entries"))
			printDetail("Directory: %s", fc.Dir())
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.cacheDir()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}

// cacheStatsCommand creates the "cache stats" subcommand.
func (c *CLI) cacheStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cache size and entry counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := c.fileCache()
			if err != nil {
				return err
			}
			st, err := fc.Stats()
			if err != nil {
				return fmt.Errorf("read cache: %w", err)
			}

			printKeyValue("Directory", fc.Dir())
			printKeyValue("Entries", humanize.Comma(int64(st.Entries)))
			printKeyValue("Expired", humanize.Comma(int64(st.Expired)))
			printKeyValue("Size", humanize.Bytes(uint64(st.Bytes)))
			printKeyValue("TTL", humanTTL(c.Config.Cache.TTL.Duration))
			return nil
		},
	}
}

// cacheDir returns the configured cache directory, or the default one.
func (c *CLI) cacheDir() (string, error) {
	if c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir, nil
	}
	dir, err := cache.DefaultDir()
	if err != nil {
		return "", lperrors.Wrap(lperrors.ErrCodeInternal, err, "cannot locate cache directory")
	}
	return dir, nil
}

// fileCache opens the local cache. Remote backends are managed by their
// servers, not by this command.
func (c *CLI) fileCache() (*cache.FileCache, error) {
	switch c.Config.Cache.Backend {
	case lperrors.BackendRedis, lperrors.BackendMongo:
		return nil, lperrors.New(lperrors.ErrCodeUnsupported,
			"cache commands manage the file cache; configured backend is %s", c.Config.Cache.Backend)
	}
	dir, err := c.cacheDir()
	if err != nil {
		return nil, err
	}
	return cache.NewFileCache(dir)
}

func humanTTL(d time.Duration) string {
	if d <= 0 {
		return "never expires"
	}
	now := time.Now()
	return strings.TrimSpace(humanize.RelTime(now, now.Add(d), "", ""))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
