package main

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the parsed track cache",
	}
	cacheCmd.AddCommand(newCacheStatsCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))
	cacheCmd.AddCommand(newCachePruneCommand(ctx))
	return cacheCmd
}

func newCacheStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show track cache statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			defer ctx.close()
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			stats, err := store.Stats(cmd.Context())
			if err != nil {
				return err
			}
			cfg, _ := ctx.ensureConfig()
			return ctx.writeResult(cmd, stats, func(w io.Writer) error {
				rows := [][]string{
					{"Path", stats.Path},
					{"Enabled", yesNo(cfg.Cache.Enabled)},
					{"Tracks", fmt.Sprintf("%d / %d", stats.Entries, cfg.Cache.MaxEntries)},
					{"Cues", humanize.Comma(int64(stats.Cues))},
					{"Hits", humanize.Comma(int64(stats.Hits))},
					{"Size", humanize.Bytes(uint64(max(stats.SizeBytes, 0)))},
				}
				_, err := fmt.Fprintln(w, renderTable([]string{"Field", "Value"}, rows, nil))
				return err
			})
		},
	}
}

type removedOutput struct {
	Removed int64 `json:"removed"`
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached track",
		RunE: func(cmd *cobra.Command, args []string) error {
			defer ctx.close()
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			removed, err := store.Clear(cmd.Context())
			if err != nil {
				return err
			}
			return ctx.writeResult(cmd, removedOutput{Removed: removed}, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Removed %d cached tracks\n", removed)
				return err
			})
		},
	}
}

func newCachePruneCommand(ctx *commandContext) *cobra.Command {
	var maxEntries int

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Drop the least recently used tracks beyond the cache limit",
		RunE: func(cmd *cobra.Command, args []string) error {
			defer ctx.close()
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			limit := cfg.Cache.MaxEntries
			if cmd.Flags().Changed("max") {
				limit = maxEntries
			}
			if limit <= 0 {
				return fmt.Errorf("--max must be positive")
			}
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			removed, err := store.Prune(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return ctx.writeResult(cmd, removedOutput{Removed: removed}, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Pruned %d cached tracks (keeping at most %d)\n", removed, limit)
				return err
			})
		},
	}

	cmd.Flags().IntVar(&maxEntries, "max", 0, "Tracks to keep (default cache.max_entries)")
	return cmd
}
