package redis

import (
	"time"

	"github.com/kbukum/collectkit/validation"
)

// Config holds Redis connection configuration.
type Config struct {
	// Addr is the Redis server address (host:port).
	Addr string `yaml:"addr" mapstructure:"addr" validate:"required,hostname_port"`

	// Password is the Redis server password.
	Password string `yaml:"password" mapstructure:"password"`

	// DB is the Redis database number.
	DB int `yaml:"db" mapstructure:"db" validate:"gte=0"`

	// PoolSize is the maximum number of socket connections.
	PoolSize int `yaml:"pool_size" mapstructure:"pool_size" validate:"gt=0"`

	// MinIdleConns is the minimum number of idle connections.
	MinIdleConns int `yaml:"min_idle_conns" mapstructure:"min_idle_conns" validate:"gte=0"`

	// MaxRetries is the number of client-level retries before giving up.
	MaxRetries int `yaml:"max_retries" mapstructure:"max_retries" validate:"gte=0"`

	DialTimeout  time.Duration `yaml:"dial_timeout" mapstructure:"dial_timeout" validate:"gte=0"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout" validate:"gte=0"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout" validate:"gte=0"`

	// ScanCount is the COUNT hint used when clearing keys by prefix.
	ScanCount int64 `yaml:"scan_count" mapstructure:"scan_count" validate:"gte=0"`
}

// ApplyDefaults sets sensible defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Addr == "" {
		c.Addr = "localhost:6379"
	}
	if c.PoolSize <= 0 {
		c.PoolSize = 10
	}
	if c.MinIdleConns <= 0 {
		c.MinIdleConns = 2
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 3
	}
	if c.DialTimeout == 0 {
		c.DialTimeout = 5 * time.Second
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 3 * time.Second
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 3 * time.Second
	}
	if c.ScanCount == 0 {
		c.ScanCount = 100
	}
}

// Validate checks that required fields are present and in range.
func (c *Config) Validate() error {
	return validation.Validate(c)
}
