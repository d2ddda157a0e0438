package cache

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/yatube/yatube/pkg/config"
	"github.com/yatube/yatube/pkg/logging"
)

const namespace = "yatube"

var (
	// ErrCacheDisabled is returned when cache operations are attempted but cache is disabled
	ErrCacheDisabled = errors.New("cache is disabled")
	// ErrCacheMiss is returned when a key is absent or expired
	ErrCacheMiss = errors.New("cache miss")
)

// Cache is an expiring key/value store in Redis. Every key lives under the
// "yatube:" namespace so Clear never touches foreign keys. A nil *Cache is a
// valid, disabled cache.
type Cache struct {
	client *redis.Client
}

// New creates a new Redis cache client. It returns a nil cache when Redis is
// not configured.
func New(cfg *config.RedisConfig) (*Cache, error) {
	if !cfg.Enabled {
		logging.GetLogger().Info("Redis cache disabled")
		return nil, nil
	}

	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logging.GetLogger().Info("Redis connection established")

	return NewFromClient(client), nil
}

// NewFromClient wraps an existing Redis client
func NewFromClient(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// HashKey builds a fixed-length key from arbitrary parts
func HashKey(parts ...string) string {
	sum := md5.Sum([]byte(strings.Join(parts, "\x00")))
	return hex.EncodeToString(sum[:])
}

func (c *Cache) namespaceKey(key string) string {
	return namespace + ":" + key
}

func (c *Cache) enabled() bool {
	return c != nil && c.client != nil
}

// Get retrieves a value from cache
func (c *Cache) Get(ctx context.Context, key string) (string, error) {
	if !c.enabled() {
		return "", ErrCacheDisabled
	}
	val, err := c.client.Get(ctx, c.namespaceKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCacheMiss
	}
	return val, err
}

// Set sets a value in cache with TTL
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !c.enabled() {
		return ErrCacheDisabled
	}
	return c.client.Set(ctx, c.namespaceKey(key), value, ttl).Err()
}

// GetJSON decodes a cached JSON value into dest
func (c *Cache) GetJSON(ctx context.Context, key string, dest interface{}) error {
	val, err := c.Get(ctx, key)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(val), dest)
}

// SetJSON stores value encoded as JSON
func (c *Cache) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache value: %w", err)
	}
	return c.Set(ctx, key, data, ttl)
}

// Delete removes a key from cache
func (c *Cache) Delete(ctx context.Context, key string) error {
	if !c.enabled() {
		return ErrCacheDisabled
	}
	return c.client.Del(ctx, c.namespaceKey(key)).Err()
}

// Exists checks if a key exists
func (c *Cache) Exists(ctx context.Context, key string) (bool, error) {
	if !c.enabled() {
		return false, ErrCacheDisabled
	}
	count, err := c.client.Exists(ctx, c.namespaceKey(key)).Result()
	return count > 0, err
}

// Clear removes every key in the namespace and returns how many were removed
func (c *Cache) Clear(ctx context.Context) (int64, error) {
	if !c.enabled() {
		return 0, ErrCacheDisabled
	}

	var removed int64
	iter := c.client.Scan(ctx, 0, c.namespaceKey("*"), 100).Iterator()
	batch := make([]string, 0, 100)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := c.client.Del(ctx, batch...).Result()
		removed += n
		batch = batch[:0]
		return err
	}
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == cap(batch) {
			if err := flush(); err != nil {
				return removed, err
			}
		}
	}
	if err := iter.Err(); err != nil {
		return removed, err
	}
	return removed, flush()
}

// Close closes the Redis connection
func (c *Cache) Close() error {
	if !c.enabled() {
		return nil
	}
	return c.client.Close()
}

// Health checks Redis health
func (c *Cache) Health(ctx context.Context) error {
	if !c.enabled() {
		return ErrCacheDisabled
	}
	return c.client.Ping(ctx).Err()
}
