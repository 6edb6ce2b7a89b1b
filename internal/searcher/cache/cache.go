// Package cache stores rendered search responses in Redis. Keys are derived
// from the index fingerprint, so rebuilding the corpus never serves stale
// results.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Adithya-Monish-Kumar-K/tinysearch/internal/searcher"
	pkgredis "github.com/Adithya-Monish-Kumar-K/tinysearch/pkg/redis"
	"github.com/Adithya-Monish-Kumar-K/tinysearch/pkg/resilience"
)

const keyPrefix = "tinysearch:"

// Store is the subset of *pkgredis.Client the cache needs.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	FlushByPattern(ctx context.Context, pattern string) (int64, error)
}

// Key identifies one cacheable search.
type Key struct {
	Fingerprint string
	Analyzer    string
	Query       string
	Limit       int
}

func (k Key) String() string {
	raw := fmt.Sprintf("%s|%s|%q|limit=%d", k.Fingerprint, k.Analyzer, k.Query, k.Limit)
	hash := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("%s%x", keyPrefix, hash[:16])
}

// QueryCache is a read-through cache. Store failures degrade to a miss and
// trip a circuit breaker so a dead Redis does not slow every request.
type QueryCache struct {
	store   Store
	ttl     time.Duration
	breaker *resilience.CircuitBreaker
	group   singleflight.Group
	hits    atomic.Int64
	misses  atomic.Int64
	logger  *slog.Logger
}

func New(store Store, ttl time.Duration) *QueryCache {
	return &QueryCache{
		store:   store,
		ttl:     ttl,
		breaker: resilience.NewCircuitBreaker("redis-cache", 5, 30*time.Second),
		logger:  slog.Default().With("component", "query-cache"),
	}
}

// Get returns the cached response for key, if any.
func (c *QueryCache) Get(ctx context.Context, key Key) (*searcher.Response, bool) {
	k := key.String()
	var data []byte
	err := c.breaker.Execute(func() error {
		var err error
		data, err = c.store.Get(ctx, k)
		if pkgredis.IsNilError(err) {
			data = nil
			return nil
		}
		return err
	})
	if err != nil {
		c.logger.Warn("cache get failed", "key", k, "error", err)
		c.misses.Add(1)
		return nil, false
	}
	if data == nil {
		c.misses.Add(1)
		return nil, false
	}
	var resp searcher.Response
	if err := json.Unmarshal(data, &resp); err != nil {
		c.logger.Error("cache unmarshal failed", "key", k, "error", err)
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	c.logger.Debug("cache hit", "query", key.Query, "key", k)
	return &resp, true
}

// Set stores resp under key.
func (c *QueryCache) Set(ctx context.Context, key Key, resp *searcher.Response) {
	k := key.String()
	data, err := json.Marshal(resp)
	if err != nil {
		c.logger.Error("cache marshal failed", "key", k, "error", err)
		return
	}
	err = c.breaker.Execute(func() error {
		return c.store.Set(ctx, k, data, c.ttl)
	})
	if err != nil {
		c.logger.Warn("cache set failed", "key", k, "error", err)
	}
}

// GetOrCompute returns the cached response or computes, stores and returns
// it. Concurrent callers for the same key share one computation. The bool
// reports a cache hit.
func (c *QueryCache) GetOrCompute(ctx context.Context, key Key, compute func() (*searcher.Response, error)) (*searcher.Response, bool, error) {
	if resp, ok := c.Get(ctx, key); ok {
		return resp, true, nil
	}
	val, err, _ := c.group.Do(key.String(), func() (any, error) {
		resp, err := compute()
		if err != nil {
			return nil, err
		}
		c.Set(ctx, key, resp)
		return resp, nil
	})
	if err != nil {
		return nil, false, err
	}
	return val.(*searcher.Response), false, nil
}

// Invalidate deletes every cached response.
func (c *QueryCache) Invalidate(ctx context.Context) (int64, error) {
	deleted, err := c.store.FlushByPattern(ctx, keyPrefix+"*")
	if err != nil {
		return deleted, fmt.Errorf("invalidating cache: %w", err)
	}
	c.logger.Info("cache invalidated", "keys_deleted", deleted)
	return deleted, nil
}

// Stats returns hit and miss counts since start.
func (c *QueryCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// BreakerState reports whether Redis calls are currently being skipped.
func (c *QueryCache) BreakerState() resilience.State {
	return c.breaker.State()
}
