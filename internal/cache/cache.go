// Package cache is a content-addressed store of catalog responses. Each
// request URL maps to the md5 of its bytes; a stored body is served forever
// without touching the network.
package cache

import (
	"context"
	"crypto/md5" //nolint:gosec // Cache key only, not a security boundary
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-resty/resty/v2"

	"github.com/ryanm101/flashman/internal/logging"
	"github.com/ryanm101/flashman/internal/metrics"
	"github.com/ryanm101/flashman/internal/tracing"
)

// Cache fetches JSON documents through a Store.
type Cache struct {
	store  Store
	client *resty.Client
}

// Option configures a Cache.
type Option func(*Cache)

// WithClient replaces the HTTP client.
func WithClient(c *resty.Client) Option {
	return func(cc *Cache) {
		cc.client = c
	}
}

// New creates a cache over store.
func New(store Store, opts ...Option) *Cache {
	c := &Cache{
		store:  store,
		client: resty.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Key returns the cache key for url: the hex md5 of its bytes.
func Key(url string) string {
	sum := md5.Sum([]byte(url)) //nolint:gosec // See import
	return hex.EncodeToString(sum[:])
}

// Store returns the underlying store.
func (c *Cache) Store() Store {
	return c.store
}

// Fetch returns the JSON document for url, from the store when present and
// from the network otherwise. Only 200 responses holding valid JSON are stored.
// Failures are *NetworkError, *ServerError or *DecodeError.
func (c *Cache) Fetch(ctx context.Context, url string) (_ json.RawMessage, err error) {
	key := Key(url)
	ctx, span := tracing.StartSpan(ctx, "cache.Fetch",
		tracing.WithAttributes(tracing.URLKey.String(url), tracing.CacheKey.String(key)))
	defer func() { tracing.End(span, err) }()

	data, ok, err := c.store.Get(ctx, key)
	if err != nil {
		logging.Warn("cache read failed", "url", url, "key", key, "error", err)
	}
	if ok {
		if json.Valid(data) {
			logging.Debug("loading cached response", "url", url, "key", key)
			metrics.CacheRequests.WithLabelValues("hit").Inc()
			span.SetAttributes(tracing.CacheHit.Bool(true))
			return json.RawMessage(data), nil
		}
		// A torn write leaves an unreadable entry; fetch it again.
		logging.Warn("discarding unreadable cache entry", "url", url, "key", key)
	}

	span.SetAttributes(tracing.CacheHit.Bool(false))
	body, err := c.get(ctx, url)
	if err != nil {
		metrics.CacheRequests.WithLabelValues("error").Inc()
		logging.Error("failed to fetch", "url", url, "error", err)
		return nil, err
	}
	metrics.CacheRequests.WithLabelValues("miss").Inc()

	logging.Info("caching response", "url", url, "key", key)
	if err := c.store.Put(ctx, Entry{Key: key, URL: url, Data: body}); err != nil {
		logging.Warn("cache write failed", "url", url, "key", key, "error", err)
	}
	return json.RawMessage(body), nil
}

func (c *Cache) get(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, &NetworkError{URL: url, Err: err}
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, &ServerError{URL: url, Status: resp.StatusCode()}
	}
	body := resp.Body()
	if !json.Valid(body) {
		return nil, &DecodeError{URL: url, Err: errors.New("response is not valid JSON")}
	}
	return body, nil
}
