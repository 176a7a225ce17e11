// Package query caches read results by query key and drops them after
// writes. Concurrent misses on one key share a single fetch.
package query

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Client fronts a Cache. Every Invalidate starts a new generation; fetches
// begun in an older generation neither share flights with newer callers nor
// write their results back.
type Client struct {
	cache  Cache
	ttl    time.Duration
	group  singleflight.Group
	logger *zap.Logger

	mu  sync.RWMutex
	gen uint64
}

func NewClient(cache Cache, ttl time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{cache: cache, ttl: ttl, logger: logger}
}

// Fetch returns the cached result for key, or runs fn and caches what it
// returns. Cache errors are logged and fall through to fn. Errors from fn are
// not cached.
func Fetch[T any](ctx context.Context, c *Client, key Key, fn func(context.Context) (T, error)) (T, error) {
	k := key.String()

	data, ok, err := c.cache.Get(ctx, k)
	if err != nil {
		c.logger.Warn("query cache read failed", zap.String("key", k), zap.Error(err))
	} else if ok {
		var cached T
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
		c.logger.Warn("dropping undecodable cache entry", zap.String("key", k))
	}

	gen := c.generation()
	v, err, _ := c.group.Do(k+"@"+strconv.FormatUint(gen, 10), func() (interface{}, error) {
		result, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		c.store(ctx, k, gen, result)
		return result, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

func (c *Client) generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gen
}

// store caches value unless an invalidation happened since gen.
func (c *Client) store(ctx context.Context, key string, gen uint64, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("query result not cacheable", zap.String("key", key), zap.Error(err))
		return
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.gen != gen {
		c.logger.Debug("skipping stale query result", zap.String("key", key))
		return
	}
	if err := c.cache.Set(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("query cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// Invalidate drops every cached result under the given keys.
func (c *Client) Invalidate(ctx context.Context, prefixes ...Key) {
	c.mu.Lock()
	c.gen++
	c.mu.Unlock()

	for _, prefix := range prefixes {
		p := prefix.String()
		if err := c.cache.DeletePrefix(ctx, p); err != nil {
			c.logger.Warn("query cache invalidation failed", zap.String("prefix", p), zap.Error(err))
		}
	}
}
