package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	zlog "github.com/rs/zerolog/log"
)

const defaultPrefix = "rsvp:"

// Client caches JSON-encoded event documents under a shared key prefix.
// Undecodable entries are dropped and reported as misses.
type Client struct {
	rdb    *redis.Client
	prefix string
}

type Option func(*Client)

// WithPrefix namespaces every key; an empty prefix disables namespacing.
func WithPrefix(p string) Option {
	return func(c *Client) { c.prefix = p }
}

func New(url string, opts ...Option) (*Client, error) {
	ro, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	c := &Client{rdb: redis.NewClient(ro), prefix: defaultPrefix}
	for _, o := range opts {
		o(c)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		_ = c.rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return c, nil
}

func (c *Client) Close() error { return c.rdb.Close() }

func (c *Client) Ping(ctx context.Context) error { return c.rdb.Ping(ctx).Err() }

// Get decodes the cached value into dest. A miss returns false, nil.
func (c *Client) Get(ctx context.Context, key string, dest any) (bool, error) {
	k := c.prefix + key
	raw, err := c.rdb.Get(ctx, k).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		zlog.Warn().Err(err).Str("key", k).Msg("dropping undecodable cache entry")
		_ = c.rdb.Del(ctx, k).Err()
		return false, nil
	}
	return true, nil
}

func (c *Client) Set(ctx context.Context, key string, val any, ttl time.Duration) error {
	raw, err := json.Marshal(val)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	return c.rdb.Set(ctx, c.prefix+key, raw, ttl).Err()
}

func (c *Client) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.prefix + k
	}
	return c.rdb.Del(ctx, full...).Err()
}
