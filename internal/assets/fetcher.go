package assets

import (
	"context"
	"fmt"
	"image"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/ryanm101/flashman/internal/logging"
	"github.com/ryanm101/flashman/internal/metrics"
	"github.com/ryanm101/flashman/internal/tracing"
)

const (
	defaultWorkers = 4
	eventBuffer    = 64
)

// Ready is the outcome of an image request. Image is ErrorImage when Err is set.
type Ready struct {
	Asset Asset
	Image image.Image
	Err   error
	Local bool // served from the data directory without a download
}

// Config holds fetcher settings.
type Config struct {
	DataDir string
	Host    string
	Workers int
	Client  *resty.Client
}

type flight struct {
	token    uuid.UUID
	asset    Asset
	attached int
}

// Fetcher loads images from the data directory and downloads missing ones in
// the background. Completions are delivered on Events, one per flight.
type Fetcher struct {
	dataDir string
	host    string
	client  *resty.Client
	sem     chan struct{}
	events  chan Ready

	mu       sync.Mutex
	inflight map[string]*flight
	closed   bool
	wg       sync.WaitGroup
}

// NewFetcher creates a fetcher and its data directory.
func NewFetcher(cfg Config) (*Fetcher, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil { //nolint:gosec // Standard dir permissions
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	if cfg.Host == "" {
		cfg.Host = DefaultHost
	}
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}
	if cfg.Client == nil {
		cfg.Client = resty.New()
	}
	return &Fetcher{
		dataDir:  cfg.DataDir,
		host:     cfg.Host,
		client:   cfg.Client,
		sem:      make(chan struct{}, cfg.Workers),
		events:   make(chan Ready, eventBuffer),
		inflight: make(map[string]*flight),
	}, nil
}

// Events returns the channel on which background results are delivered.
// It is closed by Close.
func (f *Fetcher) Events() <-chan Ready {
	return f.events
}

// DataDir returns the directory images are stored in.
func (f *Fetcher) DataDir() string {
	return f.dataDir
}

// Load returns the image if it is already stored locally. It never touches
// the network. A stored file that cannot be decoded is removed.
func (f *Fetcher) Load(a Asset) (*Ready, bool) {
	if a.GameID == "" {
		return nil, false
	}
	path := a.Path(f.dataDir)
	if _, err := os.Stat(path); err != nil {
		return nil, false
	}

	img, err := decodeFile(path)
	if err != nil {
		logging.Warn("removing unreadable image", "asset", a.String(), "path", path, "error", err)
		_ = os.Remove(path)
		return nil, false
	}

	w, h := a.Kind.Box()
	return &Ready{Asset: a, Image: Fit(img, w, h), Local: true}, true
}

// Request returns the image at once when it is stored locally. Otherwise it
// returns nil and exactly one Ready for the asset is later sent on Events.
// A request for an asset already being downloaded joins that download.
func (f *Fetcher) Request(a Asset) *Ready {
	if a.GameID == "" {
		return &Ready{Asset: a, Image: ErrorImage, Err: ErrInvalidAsset}
	}
	if f.attach(a) {
		return nil
	}
	if r, ok := f.Load(a); ok {
		metrics.AssetFetches.WithLabelValues(string(a.Kind), "local").Inc()
		return r
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return &Ready{Asset: a, Image: ErrorImage, Err: ErrClosed}
	}
	if f.attachLocked(a) {
		return nil
	}

	fl := &flight{token: uuid.New(), asset: a}
	f.inflight[a.ID()] = fl
	f.wg.Add(1)
	go f.run(fl)
	return nil
}

// attach joins a running download for a. The stored file is only read once
// no download for it is in flight.
func (f *Fetcher) attach(a Asset) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return false
	}
	return f.attachLocked(a)
}

func (f *Fetcher) attachLocked(a Asset) bool {
	fl, ok := f.inflight[a.ID()]
	if !ok {
		return false
	}
	fl.attached++
	metrics.AssetFetches.WithLabelValues(string(a.Kind), "attached").Inc()
	logging.Debug("joining in-flight download", "asset", a.String(), "token", fl.token.String())
	return true
}

// InFlight returns the number of downloads in progress.
func (f *Fetcher) InFlight() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.inflight)
}

// Close waits for outstanding downloads and closes the events channel.
// Events must keep being drained until it is closed.
func (f *Fetcher) Close() {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	f.closed = true
	f.mu.Unlock()

	f.wg.Wait()
	close(f.events)
}

func (f *Fetcher) run(fl *flight) {
	defer f.wg.Done()

	f.sem <- struct{}{}
	metrics.AssetsInflight.Inc()
	ready := f.fetch(context.Background(), fl)
	metrics.AssetsInflight.Dec()
	<-f.sem

	f.mu.Lock()
	if cur, ok := f.inflight[fl.asset.ID()]; ok && cur.token == fl.token {
		delete(f.inflight, fl.asset.ID())
	}
	attached := fl.attached
	f.mu.Unlock()

	if ready.Err != nil {
		logging.Warn("image fetch failed", "asset", fl.asset.String(), "attached", attached, "error", ready.Err)
	}
	f.events <- ready
}

func (f *Fetcher) fetch(ctx context.Context, fl *flight) Ready {
	a := fl.asset
	kind := string(a.Kind)
	url := a.URL(f.host)

	ctx, span := tracing.StartSpan(ctx, "assets.fetch",
		tracing.WithAttributes(
			tracing.AssetKey.String(a.String()),
			tracing.FlightKey.String(fl.token.String()),
			tracing.URLKey.String(url),
		))
	defer span.End()

	start := time.Now()
	img, err := f.download(ctx, a, url)
	metrics.RecordAssetFetch(kind, start)
	if err != nil {
		metrics.AssetFetches.WithLabelValues(kind, "failed").Inc()
		tracing.RecordError(span, err)
		return Ready{Asset: a, Image: ErrorImage, Err: err}
	}

	metrics.AssetFetches.WithLabelValues(kind, "fetched").Inc()
	w, h := a.Kind.Box()
	return Ready{Asset: a, Image: Fit(img, w, h)}
}

// download fetches the image, persists it and decodes the stored copy.
func (f *Fetcher) download(ctx context.Context, a Asset, url string) (image.Image, error) {
	logging.Debug("downloading image", "asset", a.String(), "url", url)

	resp, err := f.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, &FetchError{Asset: a, URL: url, Err: err}
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, &FetchError{Asset: a, URL: url, Status: resp.StatusCode(), Err: fmt.Errorf("unexpected status %d", resp.StatusCode())}
	}
	body := resp.Body()
	if len(body) == 0 {
		return nil, &FetchError{Asset: a, URL: url, Err: ErrEmptyBody}
	}

	path := a.Path(f.dataDir)
	tmp, err := writeTemp(path, body)
	if err != nil {
		return nil, &FetchError{Asset: a, URL: url, Err: err}
	}

	img, err := decodeFile(tmp)
	if err != nil {
		_ = os.Remove(tmp)
		return nil, &FetchError{Asset: a, URL: url, Err: err}
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return nil, &FetchError{Asset: a, URL: url, Err: fmt.Errorf("failed to store image file: %w", err)}
	}
	return img, nil
}

// writeTemp writes data next to path and flushes it to disk. The caller
// renames the returned file onto path, so path never holds a partial image.
func writeTemp(path string, data []byte) (name string, err error) {
	file, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create image file: %w", err)
	}
	name = file.Name()
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = cerr
		}
		if err != nil {
			_ = os.Remove(name)
		}
	}()

	if _, err := file.Write(data); err != nil {
		return "", fmt.Errorf("failed to write image file: %w", err)
	}
	if err := file.Sync(); err != nil {
		return "", fmt.Errorf("failed to sync image file: %w", err)
	}
	return name, nil
}
