package main

import (
	"context"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"
)

func cacheCommand() *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "inspect the response cache",
		Commands: []*cli.Command{
			{
				Name:   "stats",
				Usage:  "show cache size",
				Action: withRuntime(cacheStatsAction),
			},
		},
	}
}

func cacheStatsAction(ctx context.Context, _ *cli.Command, rt *runtime) error {
	st, err := rt.store.Stats(ctx)
	if err != nil {
		return err
	}

	location := cfg.GetCacheDir()
	if cfg.Cache.Backend == "sqlite" {
		location = cfg.GetCacheDBPath()
	}

	if outputCfg.JSON {
		PrintResult(map[string]any{
			"backend":  cfg.Cache.Backend,
			"location": location,
			"entries":  st.Entries,
			"bytes":    st.Bytes,
		})
		return nil
	}
	PrintTable([]string{"BACKEND", "LOCATION", "ENTRIES", "SIZE"}, [][]string{{
		cfg.Cache.Backend,
		location,
		humanize.Comma(int64(st.Entries)),
		humanize.Bytes(uint64(st.Bytes)), //nolint:gosec // Size is non-negative
	}})
	return nil
}
