package config

import (
	"context"

	"github.com/kbukum/collectkit/cache"
	"github.com/kbukum/collectkit/errors"
	"github.com/kbukum/collectkit/logger"
	"github.com/kbukum/collectkit/observability"
	"github.com/kbukum/collectkit/resilience"
	"github.com/kbukum/collectkit/validation"
	"github.com/kbukum/collectkit/version"
)

// Config is the root configuration of a collectkit application. Projects
// extend it by embedding:
//
//	type MyConfig struct {
//		config.Config `yaml:",inline" mapstructure:",squash"`
//		Feeds []string `yaml:"feeds" mapstructure:"feeds"`
//	}
type Config struct {
	Name          string                 `yaml:"name" mapstructure:"name" validate:"required"`
	Environment   string                 `yaml:"environment" mapstructure:"environment" validate:"oneof=development staging production test"`
	Version       string                 `yaml:"version" mapstructure:"version"`
	Logging       logger.Config          `yaml:"logging" mapstructure:"logging" validate:"-"`
	Retry         resilience.RetryConfig `yaml:"retry" mapstructure:"retry" validate:"-"`
	Cache         cache.Config           `yaml:"cache" mapstructure:"cache" validate:"-"`
	Observability observability.Config   `yaml:"observability" mapstructure:"observability" validate:"-"`
}

// ApplyDefaults fills every section. The service identity is propagated to
// observability when it has none of its own.
func (c *Config) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Version == "" {
		c.Version = version.Get().String()
	}
	if c.Observability.ServiceName == "" {
		c.Observability.ServiceName = c.Name
	}
	if c.Observability.ServiceVersion == "" {
		c.Observability.ServiceVersion = c.Version
	}
	if c.Observability.Environment == "" {
		c.Observability.Environment = c.Environment
	}
	if c.Cache.Namespace == "" {
		c.Cache.Namespace = c.Name
	}
	c.Logging.ApplyDefaults()
	c.Retry.ApplyDefaults()
	c.Cache.ApplyDefaults()
	c.Observability.ApplyDefaults()
}

// Validate checks the root fields, then each section in order, and returns
// the first failure as INVALID_CONFIG.
func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		return err
	}
	sections := []struct {
		name string
		v    interface{ Validate() error }
	}{
		{"logging", &c.Logging},
		{"retry", &c.Retry},
		{"cache", &c.Cache},
		{"observability", &c.Observability},
	}
	for _, s := range sections {
		if err := s.v.Validate(); err != nil {
			return errors.InvalidConfig(s.name + ": " + err.Error()).
				WithCause(err).
				WithDetail("section", s.name)
		}
	}
	return nil
}

// Setup installs the global logger and, when enabled, the telemetry
// providers. The returned shutdown flushes telemetry and is never nil.
func (c *Config) Setup(ctx context.Context) (shutdown func(context.Context) error, err error) {
	logger.Init(c.Logging)
	shutdown, err = observability.Init(ctx, c.Observability)
	if err != nil {
		return shutdown, err
	}
	logger.WithComponent("config").Info("configuration applied", logger.Fields(
		"name", c.Name,
		"environment", c.Environment,
		"cache_adapter", c.Cache.Adapter,
		"telemetry", c.Observability.Enabled,
	))
	return shutdown, nil
}
