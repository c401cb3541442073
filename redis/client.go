package redis

import (
	"context"
	stderrors "errors"
	"strings"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/kbukum/collectkit/errors"
	"github.com/kbukum/collectkit/logger"
)

// AdapterName identifies Redis in errors and logs.
const AdapterName = "redis"

// Client stores raw cache entries in Redis.
type Client struct {
	rdb       *goredis.Client
	log       *logger.Logger
	scanCount int64
	closed    bool
	mu        sync.Mutex
}

// New creates a new Redis client with the given configuration and logger.
func New(cfg Config, log *logger.Logger) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.WithComponent(AdapterName)
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	log.Info("redis client created", logger.Fields(
		"addr", cfg.Addr,
		"db", cfg.DB,
		"pool_size", cfg.PoolSize,
	))
	return &Client{rdb: rdb, log: log, scanCount: cfg.ScanCount}, nil
}

// Name returns the adapter name.
func (c *Client) Name() string { return AdapterName }

// Ping verifies the Redis connection is alive.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return failure("ping", err)
	}
	return nil
}

// Get returns the stored bytes for key. A missing key is not an error.
func (c *Client) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.rdb.Get(ctx, key).Bytes()
	if stderrors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, failure("get", err)
	}
	return data, true, nil
}

// Set stores value under key. A zero ttl means no expiration.
func (c *Client) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		return failure("set", err)
	}
	return nil
}

// Add stores value only when key is absent and reports whether it did.
func (c *Client) Add(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	ok, err := c.rdb.SetNX(ctx, key, value, ttl).Result()
	if err != nil {
		return false, failure("add", err)
	}
	return ok, nil
}

// Delete removes keys and returns how many existed.
func (c *Client) Delete(ctx context.Context, keys ...string) (int, error) {
	if len(keys) == 0 {
		return 0, nil
	}
	n, err := c.rdb.Del(ctx, keys...).Result()
	if err != nil {
		return 0, failure("delete", err)
	}
	return int(n), nil
}

// Clear deletes every key starting with prefix. An empty prefix clears the
// whole database.
func (c *Client) Clear(ctx context.Context, prefix string) error {
	it := c.rdb.Scan(ctx, 0, escapeGlob(prefix)+"*", c.scanCount).Iterator()
	batch := make([]string, 0, c.scanCount)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := c.rdb.Unlink(ctx, batch...).Err(); err != nil {
			return failure("clear", err)
		}
		batch = batch[:0]
		return nil
	}
	for it.Next(ctx) {
		batch = append(batch, it.Val())
		if int64(len(batch)) >= c.scanCount {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := it.Err(); err != nil {
		return failure("clear", err)
	}
	return flush()
}

// Close closes the Redis connection. Safe to call multiple times.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.log.Info("closing redis connection")
	c.closed = true
	return c.rdb.Close()
}

// Unwrap returns the underlying go-redis client for advanced operations.
func (c *Client) Unwrap() *goredis.Client {
	return c.rdb
}

func failure(op string, err error) error {
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return errors.AdapterFailure(AdapterName, op, err)
}

var globReplacer = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)

func escapeGlob(s string) string { return globReplacer.Replace(s) }
