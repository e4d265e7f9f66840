package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/getto-dev/smeta/internal/storage"
)

// Client fetches the price list feed once per process and keeps the parsed
// catalog in memory. A successful fetch is written through to the database
// cache; a failed fetch falls back to the cached copy, then to the built-in
// category list.
type Client struct {
	url        string
	httpClient *http.Client
	cache      storage.CatalogCache
	logger     zerolog.Logger

	mu      sync.Mutex
	catalog *Catalog
}

// NewClient creates a catalog client. cache may be nil (no offline fallback).
func NewClient(url string, cache storage.CatalogCache, logger zerolog.Logger) *Client {
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		cache:      cache,
		logger:     logger,
	}
}

// Fetch downloads and parses the feed. It does not retry.
func (c *Client) Fetch(ctx context.Context) (*Catalog, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build catalog request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("failed to fetch catalog: unexpected status %s", resp.Status)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read catalog feed: %w", err)
	}

	parsed, err := Parse(raw)
	if err != nil {
		return nil, nil, err
	}
	return parsed, raw, nil
}

// Load returns the catalog, fetching it on first use. It never returns nil:
// failures degrade to the cached copy and then to the built-in categories.
func (c *Client) Load(ctx context.Context) *Catalog {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.catalog != nil {
		return c.catalog
	}

	parsed, raw, err := c.Fetch(ctx)
	if err == nil {
		if c.cache != nil {
			if cacheErr := c.cache.SaveFeed(ctx, raw, parsed.Updated()); cacheErr != nil {
				c.logger.Warn().Err(cacheErr).Msg("failed to cache catalog feed")
			}
		}
		c.catalog = parsed
		return c.catalog
	}

	c.logger.Warn().Err(err).Msg("catalog fetch failed, trying cached copy")

	if c.cache != nil {
		if raw, cacheErr := c.cache.LoadFeed(ctx); cacheErr == nil {
			if parsed, parseErr := Parse(raw); parseErr == nil {
				c.catalog = parsed
				return c.catalog
			}
		}
	}

	c.logger.Warn().Msg("no cached catalog, using built-in categories")
	c.catalog = Fallback()
	return c.catalog
}
