// Package cache is a Redis-backed result cache for the search service, with
// singleflight collapsing of concurrent identical queries.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/hadarkn/IR-Final-Project-2026/internal/search"
	"github.com/hadarkn/IR-Final-Project-2026/pkg/config"
	pkgredis "github.com/hadarkn/IR-Final-Project-2026/pkg/redis"
)

const keyPrefix = "search:"

// QueryCache caches ranked result lists per (mode, query).
type QueryCache struct {
	client *pkgredis.Client
	cfg    config.RedisConfig
	group  singleflight.Group
	logger *slog.Logger
	hits   atomic.Int64
	misses atomic.Int64
}

// New creates a QueryCache over an established Redis client.
func New(client *pkgredis.Client, cfg config.RedisConfig) *QueryCache {
	return &QueryCache{
		client: client,
		cfg:    cfg,
		logger: slog.Default().With("component", "query-cache"),
	}
}

// Get returns the cached results for (mode, query), if present.
func (c *QueryCache) Get(ctx context.Context, mode, query string) ([]search.Result, bool) {
	key := c.buildKey(mode, query)
	data, err := c.client.Get(ctx, key)
	if err != nil {
		if !pkgredis.IsNilError(err) {
			c.logger.Error("cache get failed", "key", key, "error", err)
		}
		c.misses.Add(1)
		return nil, false
	}
	var results []search.Result
	if err := json.Unmarshal([]byte(data), &results); err != nil {
		c.logger.Error("cache unmarshal failed", "key", key, "error", err)
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return results, true
}

// Set stores results for (mode, query) with the configured TTL.
func (c *QueryCache) Set(ctx context.Context, mode, query string, results []search.Result) {
	key := c.buildKey(mode, query)
	data, err := json.Marshal(results)
	if err != nil {
		c.logger.Error("cache marshal failed", "key", key, "error", err)
		return
	}
	if err := c.client.Set(ctx, key, data, c.cfg.CacheTTL); err != nil {
		c.logger.Error("cache set failed", "key", key, "error", err)
	}
}

// GetOrCompute returns the cached results or computes, caches, and returns
// them. Concurrent callers with the same key share one computation.
func (c *QueryCache) GetOrCompute(
	ctx context.Context,
	mode, query string,
	computeFn func() []search.Result,
) ([]search.Result, bool) {
	if results, ok := c.Get(ctx, mode, query); ok {
		return results, true
	}
	key := c.buildKey(mode, query)
	val, _, _ := c.group.Do(key, func() (interface{}, error) {
		if results, ok := c.Get(ctx, mode, query); ok {
			return results, nil
		}
		results := computeFn()
		c.Set(ctx, mode, query, results)
		return results, nil
	})
	return val.([]search.Result), false
}

// Stats reports hit and miss counts since startup.
func (c *QueryCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// Invalidate drops every cached result list, across all modes. Called after
// a reindex so stale rankings do not outlive their TTL.
func (c *QueryCache) Invalidate(ctx context.Context) (int64, error) {
	return c.client.FlushByPattern(ctx, keyPrefix+"*")
}

func (c *QueryCache) buildKey(mode, query string) string {
	sum := sha256.Sum256([]byte(query))
	return fmt.Sprintf("%s%s:%x", keyPrefix, mode, sum[:8])
}
