package main

import (
	"context"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"

	"github.com/ryanm101/flashman/internal/assets"
)

func prefetchCommand() *cli.Command {
	return &cli.Command{
		Name:   "prefetch",
		Usage:  "download logos and screenshots of every saved game",
		Action: withRuntime(prefetchAction),
	}
}

type prefetchSummary struct {
	Requested int   `json:"requested"`
	Local     int   `json:"local"`
	Fetched   int   `json:"fetched"`
	Failed    int   `json:"failed"`
	Bytes     int64 `json:"bytes"`
}

// count classifies one result. Errors win over Local so a request rejected
// synchronously is not reported as stored.
func (s *prefetchSummary) count(r assets.Ready) {
	switch {
	case r.Err != nil:
		s.Failed++
	case r.Local:
		s.Local++
	default:
		s.Fetched++
	}
}

func prefetchAction(_ context.Context, _ *cli.Command, rt *runtime) error {
	var wanted []assets.Asset
	for _, g := range rt.collection.Snapshot() {
		if id := g.ID(); id != "" {
			wanted = append(wanted, assets.Logo(id), assets.Screenshot(id))
		}
	}

	var bar *progressbar.ProgressBar
	if !outputCfg.Quiet && !outputCfg.JSON {
		bar = progressbar.Default(int64(len(wanted)), "Prefetching")
	}

	sum := prefetchSummary{Requested: len(wanted)}
	pending := 0
	for _, a := range wanted {
		if r := rt.images.Request(a); r != nil {
			sum.count(*r)
			if bar != nil {
				_ = bar.Add(1)
			}
			continue
		}
		pending++
	}

	for ; pending > 0; pending-- {
		sum.count(<-rt.images.Events())
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}

	for _, a := range wanted {
		if info, err := os.Stat(a.Path(rt.images.DataDir())); err == nil {
			sum.Bytes += info.Size()
		}
	}

	if outputCfg.JSON {
		PrintResult(sum)
		return nil
	}
	PrintInfo("\n%d images: %d already stored, %d downloaded, %d failed (%s on disk)\n",
		sum.Requested, sum.Local, sum.Fetched, sum.Failed, humanize.Bytes(uint64(sum.Bytes))) //nolint:gosec // Size is non-negative
	return nil
}
