package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wonny/epscreen/pkg/config"
)

// connectTimeout bounds the startup ping; an unreachable Redis fails the run early
const connectTimeout = 3 * time.Second

// Client is the optional Redis connection behind the shared rate limiter.
// A disabled Client is valid: Enabled reports false and Ping is a no-op.
// ⭐ SSOT: Redis 연결은 여기서만 관리
type Client struct {
	rdb    *redis.Client
	prefix string
}

// New connects to Redis when cfg.Enabled is set
func New(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = "epscreen"
	}
	if !cfg.Enabled {
		return &Client{prefix: prefix}, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:        fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: connectTimeout,
	})

	c := &Client{rdb: rdb, prefix: prefix}
	if err := c.Ping(ctx); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return c, nil
}

// Ping checks the connection within connectTimeout
func (c *Client) Ping(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping %s: %w", c.rdb.Options().Addr, err)
	}
	return nil
}

// Key namespaces parts under the configured prefix, e.g. epscreen:ratelimit:polygon
func (c *Client) Key(parts ...string) string {
	return c.prefix + ":" + strings.Join(parts, ":")
}

// Close closes the Redis connection
func (c *Client) Close() error {
	if c.Enabled() {
		return c.rdb.Close()
	}
	return nil
}

// Enabled returns whether a live connection backs this client
func (c *Client) Enabled() bool {
	return c != nil && c.rdb != nil
}
