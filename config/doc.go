// Package config loads application configuration with Viper.
//
// Values come from a YAML file, then from environment variables named
// PREFIX_SECTION_FIELD (COLLECTKIT_CACHE_DEFAULT_TTL sets cache.default_ttl).
// A .env file can supply variables that are not already set.
//
//	var cfg config.Config
//	if err := config.Load("feeds", &cfg); err != nil {
//		return err
//	}
//	shutdown, err := cfg.Setup(ctx)
package config
