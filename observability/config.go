package observability

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/kbukum/collectkit/validation"
)

// Config configures OTLP export for traces and metrics.
type Config struct {
	Enabled        bool          `yaml:"enabled" mapstructure:"enabled"`
	ServiceName    string        `yaml:"service_name" mapstructure:"service_name" validate:"required_if=Enabled true"`
	ServiceVersion string        `yaml:"service_version" mapstructure:"service_version"`
	Environment    string        `yaml:"environment" mapstructure:"environment"`
	Endpoint       string        `yaml:"endpoint" mapstructure:"endpoint" validate:"omitempty,hostname_port"`
	Insecure       bool          `yaml:"insecure" mapstructure:"insecure"`
	SampleRate     float64       `yaml:"sample_rate" mapstructure:"sample_rate" validate:"gte=0,lte=1"`
	ExportInterval time.Duration `yaml:"export_interval" mapstructure:"export_interval" validate:"gte=0"`
}

// ApplyDefaults fills empty fields with development defaults.
func (c *Config) ApplyDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = "localhost:4318"
	}
	if c.ServiceVersion == "" {
		c.ServiceVersion = "0.0.0"
	}
	if c.SampleRate == 0 {
		c.SampleRate = 1.0
	}
	if c.ExportInterval == 0 {
		c.ExportInterval = 15 * time.Second
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	return validation.Validate(c)
}

// Init installs the global tracer and meter providers when cfg is enabled.
// The returned function flushes and shuts both down; it is never nil.
func Init(ctx context.Context, cfg Config) (shutdown func(context.Context) error, err error) {
	shutdown = func(context.Context) error { return nil }
	if !cfg.Enabled {
		return shutdown, nil
	}
	cfg.ApplyDefaults()

	tp, err := InitTracer(ctx, cfg)
	if err != nil {
		return shutdown, err
	}
	mp, err := InitMeter(ctx, cfg)
	if err != nil {
		return shutdown, stderrors.Join(err, tp.Shutdown(ctx))
	}
	return func(ctx context.Context) error {
		return stderrors.Join(tp.Shutdown(ctx), mp.Shutdown(ctx))
	}, nil
}
