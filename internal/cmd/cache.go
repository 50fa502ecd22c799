package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cwrap/cwrap/internal/cache"
)

// cacheCmd represents the cache command
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and maintain the document cache",
	Long: `The document cache stores rendered documents in .cwrap/cache.db, keyed by
header path, content hash and the options that shaped the document. A
changed header misses the cache and replaces its old documents.`,
}

var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show cache size and which cached headers changed on disk",
	RunE:  runCacheStatus,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached document",
	RunE:  runCacheClear,
}

var cachePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove documents of headers that no longer exist",
	RunE:  runCachePrune,
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheStatusCmd, cacheClearCmd, cachePruneCmd)
}

// openConfiguredCache opens the cache regardless of --no-cache.
func openConfiguredCache() (*cache.Cache, error) {
	cfg, configDir, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if configDir == "" {
		return nil, fmt.Errorf("cwrap not initialized: run 'cwrap init' first")
	}
	if !cfg.Cache.Enabled {
		return nil, fmt.Errorf("cache disabled in configuration")
	}
	return cache.Open(cfg.CachePath(configDir))
}

func runCacheStatus(cmd *cobra.Command, args []string) error {
	c, err := openConfiguredCache()
	if err != nil {
		return err
	}
	defer c.Close()

	stats, err := c.GetStats()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Cache: %s\n", c.Path())
	fmt.Fprintf(out, "Documents: %d (%d bytes)\n", stats.Documents, stats.Bytes)
	fmt.Fprintf(out, "Headers: %d\n", stats.Files)

	entries, err := c.GetAllFileEntries()
	if err != nil {
		return err
	}
	for _, e := range entries {
		state := "fresh"
		src, err := os.ReadFile(e.FilePath)
		switch {
		case err != nil:
			state = "missing"
		default:
			changed, err := c.IsFileChanged(e.FilePath, cache.ContentHash(src))
			if err != nil {
				return err
			}
			if changed {
				state = "stale"
			}
		}
		fmt.Fprintf(out, "  %-7s %s\n", state, e.FilePath)
	}
	return nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	c, err := openConfiguredCache()
	if err != nil {
		return err
	}
	defer c.Close()

	if err := c.Clear(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Cache cleared")
	return nil
}

func runCachePrune(cmd *cobra.Command, args []string) error {
	c, err := openConfiguredCache()
	if err != nil {
		return err
	}
	defer c.Close()

	pruned, err := c.PruneStaleEntries(func(path string) bool {
		_, err := os.Stat(path)
		return err == nil
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d header(s)\n", pruned)
	return nil
}
