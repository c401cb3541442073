package cache

import (
	stderrors "errors"
	"time"

	"github.com/kbukum/collectkit/errors"
	"github.com/kbukum/collectkit/logger"
	"github.com/kbukum/collectkit/redis"
	"github.com/kbukum/collectkit/serializer"
	"github.com/kbukum/collectkit/validation"
)

// Adapter kinds accepted by Config.Adapter.
const (
	AdapterMemory = "memory"
	AdapterRedis  = "redis"
)

// Config selects and tunes the cache backend.
type Config struct {
	Namespace  string        `yaml:"namespace" mapstructure:"namespace"`
	DefaultTTL time.Duration `yaml:"default_ttl" mapstructure:"default_ttl" validate:"gte=0"`
	Serializer string        `yaml:"serializer" mapstructure:"serializer" validate:"oneof=json yaml yml"`
	Adapter    string        `yaml:"adapter" mapstructure:"adapter" validate:"oneof=memory redis"`
	// Redis is only read when Adapter is "redis".
	Redis redis.Config `yaml:"redis" mapstructure:"redis" validate:"-"`
}

// ApplyDefaults selects the memory adapter and JSON.
func (c *Config) ApplyDefaults() {
	if c.Adapter == "" {
		c.Adapter = AdapterMemory
	}
	if c.Serializer == "" {
		c.Serializer = "json"
	}
	if c.Adapter == AdapterRedis {
		c.Redis.ApplyDefaults()
	}
}

// Validate checks the configuration and, for Redis, the connection settings.
func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		return err
	}
	if c.Adapter == AdapterRedis {
		return c.Redis.Validate()
	}
	return nil
}

var (
	_ Adapter = (*MemoryAdapter)(nil)
	_ Adapter = (*redis.Client)(nil)
)

// Options converts the configuration into cache options.
func (c *Config) Options() ([]Option, error) {
	s, err := serializer.ByName(c.Serializer)
	if err != nil {
		return nil, err
	}
	return []Option{WithNamespace(c.Namespace), WithTTL(c.DefaultTTL), WithSerializer(s)}, nil
}

// NewAdapter builds the adapter named by cfg.Adapter.
func NewAdapter(cfg Config, log *logger.Logger) (Adapter, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Adapter {
	case AdapterMemory:
		return NewMemoryAdapter(), nil
	case AdapterRedis:
		client, err := redis.New(cfg.Redis, log)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, errors.InvalidConfig("unknown cache adapter: " + cfg.Adapter)
	}
}

// FromConfig builds the adapter and a cache configured by cfg. Extra
// options are applied after the configured ones.
func FromConfig[T any](cfg Config, log *logger.Logger, opts ...Option) (*Cache[T], error) {
	adapter, err := NewAdapter(cfg, log)
	if err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	base, err := cfg.Options()
	if err != nil {
		return nil, stderrors.Join(err, adapter.Close())
	}
	if log != nil {
		base = append(base, WithLogger(log))
	}
	return New[T](adapter, append(base, opts...)...), nil
}
