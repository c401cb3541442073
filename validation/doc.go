// Package validation checks configuration structs.
//
// Struct tags cover most rules:
//
//	type Config struct {
//	    Namespace  string        `mapstructure:"namespace" validate:"required"`
//	    DefaultTTL time.Duration `mapstructure:"default_ttl" validate:"gte=0"`
//	}
//	err := validation.Validate(cfg)
//
// Cross-field rules use the programmatic Validator:
//
//	v := validation.New()
//	v.Custom(cfg.MaxBackoff >= cfg.InitialBackoff, "max_backoff", "must not be below initial_backoff")
//	err := v.Validate()
//
// Both report failures as INVALID_CONFIG errors.
package validation
