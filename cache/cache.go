// Package cache stores expensive intermediate results: SERP responses,
// extracted page content and finished analyses. It prefers Redis and falls
// back to a bounded in-process map when Redis is unreachable, so a missing
// cache server degrades performance but never availability.
package cache

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL is how long cached entries stay valid.
const DefaultTTL = 7 * 24 * time.Hour

// memoryCapacity bounds the fallback map so a long-running process without
// Redis cannot grow without limit.
const memoryCapacity = 1000

// Config contains cache configuration
type Config struct {
	// Addr is the Redis address (host:port). Empty disables Redis and the
	// cache runs purely in memory.
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// Cache is a category-keyed TTL cache
type Cache struct {
	ttl    time.Duration
	client *redis.Client

	mu      sync.Mutex
	entries map[string]memoryEntry
	order   []string
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// New builds a cache. When a Redis address is configured but unreachable the
// cache logs the failure and starts in memory-only mode.
func New(ctx context.Context, config Config) *Cache {
	if config.TTL <= 0 {
		config.TTL = DefaultTTL
	}
	c := &Cache{
		ttl:     config.TTL,
		entries: make(map[string]memoryEntry),
	}

	if config.Addr == "" {
		slog.Info("cache running in memory-only mode")
		return c
	}

	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		slog.Warn("redis unreachable, falling back to in-memory cache", "addr", config.Addr, "error", err)
		client.Close()
		return c
	}

	slog.Info("cache connected to redis", "addr", config.Addr)
	c.client = client
	return c
}

// Close releases the Redis connection if one exists
func (c *Cache) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// Key builds a deterministic cache key from a category and its arguments
func Key(category string, args ...string) string {
	sum := md5.Sum([]byte(category + ":" + strings.Join(args, ":")))
	return category + ":" + hex.EncodeToString(sum[:])[:16]
}

// Get loads and unmarshals a cached value into dest. The boolean reports
// whether a live entry was found.
func (c *Cache) Get(ctx context.Context, key string, dest any) (bool, error) {
	var data []byte

	if c.client != nil {
		raw, err := c.client.Get(ctx, key).Bytes()
		if err == redis.Nil {
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("failed to read cache key %s: %w", key, err)
		}
		data = raw
	} else {
		c.mu.Lock()
		entry, ok := c.entries[key]
		if ok && time.Now().After(entry.expiresAt) {
			delete(c.entries, key)
			ok = false
		}
		c.mu.Unlock()
		if !ok {
			return false, nil
		}
		data = entry.data
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cached value: %w", err)
	}
	return true, nil
}

// Set marshals and stores a value under key with the configured TTL
func (c *Cache) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value for cache: %w", err)
	}

	if c.client != nil {
		if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
			return fmt.Errorf("failed to write cache key %s: %w", key, err)
		}
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.sweepLocked()
	if _, exists := c.entries[key]; !exists {
		if len(c.entries) >= memoryCapacity {
			// Evict the oldest inserted entries.
			drop := c.order[:memoryCapacity/2]
			for _, k := range drop {
				delete(c.entries, k)
			}
			c.order = append([]string(nil), c.order[memoryCapacity/2:]...)
		}
		c.order = append(c.order, key)
	}
	c.entries[key] = memoryEntry{data: data, expiresAt: time.Now().Add(c.ttl)}
	return nil
}

// Delete removes a key from the cache
func (c *Cache) Delete(ctx context.Context, key string) error {
	if c.client != nil {
		if err := c.client.Del(ctx, key).Err(); err != nil {
			return fmt.Errorf("failed to delete cache key %s: %w", key, err)
		}
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

// sweepLocked drops expired in-memory entries. Caller holds c.mu.
func (c *Cache) sweepLocked() {
	now := time.Now()
	for k, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, k)
		}
	}
}

// Redis reports whether the cache is backed by Redis
func (c *Cache) Redis() bool {
	return c.client != nil
}
