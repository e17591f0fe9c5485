package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/ryanm101/flashman/internal/assets"
	"github.com/ryanm101/flashman/internal/browser"
	"github.com/ryanm101/flashman/internal/cache"
	"github.com/ryanm101/flashman/internal/catalog"
	"github.com/ryanm101/flashman/internal/collection"
	"github.com/ryanm101/flashman/internal/logging"
)

const defaultLogFile = "log/flashman.log"

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "flashman",
		Usage:   "Flashpoint catalog browser",
		Version: version,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "output in JSON format",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "suppress non-error output",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			outputCfg.JSON = cmd.Bool("json")
			outputCfg.Quiet = cmd.Bool("quiet")
			return ctx, nil
		},
		Action: browseAction,
		Commands: []*cli.Command{
			browseCommand(),
			searchCommand(),
			detailsCommand(),
			collectionCommand(),
			prefetchCommand(),
			cacheCommand(),
			configCommand(),
		},
	}
}

// runtime holds the components shared by every command.
type runtime struct {
	store      cache.Store
	cache      *cache.Cache
	catalog    *catalog.Client
	images     *assets.Fetcher
	collection *collection.Store
	service    *browser.Service
}

func openRuntime(ctx context.Context) (*runtime, error) {
	store, err := cache.OpenStore(ctx, cfg.Cache.Backend, cfg.GetCacheDir(), cfg.GetCacheDBPath())
	if err != nil {
		return nil, err
	}

	images, err := assets.NewFetcher(assets.Config{
		DataDir: cfg.GetDataDir(),
		Host:    cfg.GetAssetURL(),
		Workers: cfg.Assets.Workers,
	})
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	games, err := collection.Open(cfg.GetCollectionPath())
	if err != nil {
		images.Close()
		_ = store.Close()
		return nil, err
	}

	c := cache.New(store)
	client := catalog.NewClient(cfg.GetCatalogURL(), c)

	rt := &runtime{
		store:      store,
		cache:      c,
		catalog:    client,
		images:     images,
		collection: games,
		service:    browser.New(client, images, games, browser.WithPageSize(cfg.GetPageSize())),
	}
	logging.Debug("runtime ready",
		"data_dir", cfg.GetDataDir(),
		"cache_backend", cfg.Cache.Backend,
		"collection", games.Path(),
	)
	return rt, nil
}

// Close waits for image downloads and releases the cache store.
func (rt *runtime) Close() {
	done := make(chan struct{})
	go func() {
		for range rt.images.Events() {
		}
		close(done)
	}()
	rt.images.Close()
	<-done

	if err := rt.store.Close(); err != nil {
		logging.Warn("failed to close cache", "error", err)
	}
}

// withRuntime sets up logging, opens the runtime and runs fn.
func withRuntime(fn func(ctx context.Context, cmd *cli.Command, rt *runtime) error) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		if err := setupLogging(false); err != nil {
			return err
		}
		rt, err := openRuntime(ctx)
		if err != nil {
			return fmt.Errorf("failed to start: %w", err)
		}
		defer rt.Close()
		return fn(ctx, cmd, rt)
	}
}

// pick runs query and returns the n-th displayable result (1-based).
func pick(ctx context.Context, rt *runtime, query string, n int) (catalog.Record, error) {
	results, err := rt.catalog.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	shown := catalog.Displayable(results)
	if n < 1 || n > len(shown) {
		return nil, fmt.Errorf("result %d out of range (found %d games)", n, len(shown))
	}
	return shown[n-1], nil
}
