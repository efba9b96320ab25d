package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Cache is a two tier byte cache: an in-memory L1 and, when configured, a
// Redis L2 shared between instances.
type Cache struct {
	mu    sync.RWMutex
	items map[string]*cacheItem

	rdb    *redis.Client // nil when Redis is not configured or unreachable
	ttl    time.Duration
	logger *logrus.Logger

	stop      chan struct{}
	closeOnce sync.Once
}

type cacheItem struct {
	value      []byte
	expiration time.Time
}

// New creates a cache. redisURL may be empty to run with L1 only.
func New(ttl time.Duration, redisURL string, logger *logrus.Logger) *Cache {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	c := &Cache{
		items:  make(map[string]*cacheItem),
		ttl:    ttl,
		logger: logger,
		stop:   make(chan struct{}),
	}

	if redisURL != "" {
		c.rdb = connectRedis(redisURL, logger)
	}

	go c.cleanupExpired(cleanupInterval(ttl))
	return c
}

func connectRedis(redisURL string, logger *logrus.Logger) *redis.Client {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		logger.WithError(err).Warn("Invalid redis URL, L2 cache disabled")
		return nil
	}

	rdb := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.WithError(err).Warn("Redis unreachable, L2 cache disabled")
		_ = rdb.Close()
		return nil
	}

	logger.WithField("addr", opts.Addr).Info("L2 redis cache connected")
	return rdb
}

// IntervalsKey is the cache key of a video's aggregated intervals.
func IntervalsKey(windowSeconds int, videoID string) string {
	return fmt.Sprintf("intervals:%d:%s", windowSeconds, videoID)
}

// Get tries L1, then L2. An L2 hit repopulates L1.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	c.mu.RLock()
	item, exists := c.items[key]
	c.mu.RUnlock()

	if exists && time.Now().Before(item.expiration) {
		return item.value, true
	}

	if c.rdb == nil {
		return nil, false
	}

	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.WithError(err).WithField("key", key).Debug("L2 cache get failed")
		}
		return nil, false
	}

	c.setLocal(key, data)
	return data, true
}

// Set stores value in both tiers
func (c *Cache) Set(ctx context.Context, key string, value []byte) {
	c.setLocal(key, value)

	if c.rdb != nil {
		if err := c.rdb.Set(ctx, key, value, c.ttl).Err(); err != nil {
			c.logger.WithError(err).WithField("key", key).Debug("L2 cache set failed")
		}
	}
}

// Delete removes a value from both tiers
func (c *Cache) Delete(ctx context.Context, key string) {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()

	if c.rdb != nil {
		if err := c.rdb.Del(ctx, key).Err(); err != nil {
			c.logger.WithError(err).WithField("key", key).Debug("L2 cache delete failed")
		}
	}
}

// Close stops the janitor and closes the Redis client.
func (c *Cache) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.stop)
		if c.rdb != nil {
			err = c.rdb.Close()
		}
	})
	return err
}

func (c *Cache) setLocal(key string, value []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = &cacheItem{
		value:      value,
		expiration: time.Now().Add(c.ttl),
	}
}

// cleanupExpired periodically removes expired items
func (c *Cache) cleanupExpired(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.removeExpired(time.Now())
		}
	}
}

func (c *Cache) removeExpired(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, item := range c.items {
		if now.After(item.expiration) {
			delete(c.items, key)
		}
	}
}

func cleanupInterval(ttl time.Duration) time.Duration {
	if ttl < time.Minute {
		return ttl
	}
	return time.Minute
}
