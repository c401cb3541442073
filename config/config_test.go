package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/kbukum/collectkit/cache"
	"github.com/kbukum/collectkit/errors"
	"github.com/kbukum/collectkit/logger"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestConfigApplyDefaults(t *testing.T) {
	cfg := Config{Name: "feeds", Version: "1.2.0"}
	cfg.ApplyDefaults()

	if cfg.Environment != "development" {
		t.Errorf("Environment = %q", cfg.Environment)
	}
	if cfg.Observability.ServiceName != "feeds" || cfg.Observability.ServiceVersion != "1.2.0" {
		t.Errorf("service identity not propagated: %+v", cfg.Observability)
	}
	if cfg.Cache.Namespace != "feeds" || cfg.Cache.Adapter != cache.AdapterMemory {
		t.Errorf("cache defaults = %+v", cfg.Cache)
	}
	if cfg.Logging.Level != "info" || cfg.Retry.MaxAttempts != 3 {
		t.Errorf("section defaults missing: %+v %+v", cfg.Logging, cfg.Retry)
	}
}

func TestConfigValidate(t *testing.T) {
	valid := func() Config {
		c := Config{Name: "svc"}
		c.ApplyDefaults()
		return c
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		section string
	}{
		{"valid", func(*Config) {}, ""},
		{"missing name", func(c *Config) { c.Name = "" }, ""},
		{"bad environment", func(c *Config) { c.Environment = "qa" }, ""},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, "logging"},
		{"bad retry", func(c *Config) { c.Retry.MaxBackoff = time.Millisecond }, "retry"},
		{"bad cache", func(c *Config) { c.Cache.Adapter = "memcached" }, "cache"},
		{"bad observability", func(c *Config) { c.Observability.SampleRate = 2 }, "observability"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.name == "valid" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.HasCode(err, errors.ErrCodeInvalidConfig) {
				t.Fatalf("got %v, want INVALID_CONFIG", err)
			}
			if tt.section == "" {
				return
			}
			appErr, _ := errors.AsAppError(err)
			if appErr.Details["section"] != tt.section {
				t.Errorf("section = %v, want %s", appErr.Details["section"], tt.section)
			}
		})
	}
}

func TestLoad_YAMLAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yml", `
name: feeds
environment: staging
logging:
  level: debug
retry:
  max_attempts: 5
  initial_backoff: 50ms
cache:
  adapter: memory
  default_ttl: 5m
  serializer: yaml
`)
	t.Setenv("COLLECTKIT_CACHE_NAMESPACE", "feeds:v2")
	t.Setenv("COLLECTKIT_RETRY_MAX_ATTEMPTS", "7")
	t.Setenv("OTHER_NAME", "ignored")

	var cfg Config
	if err := Load("feeds", &cfg, WithConfigFile(path), WithLogger(logger.Nop())); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	got := struct {
		Name, Env, Level, Namespace, Serializer string
		TTL, Backoff                            time.Duration
		Attempts                                int
	}{cfg.Name, cfg.Environment, cfg.Logging.Level, cfg.Cache.Namespace, cfg.Cache.Serializer,
		cfg.Cache.DefaultTTL, cfg.Retry.InitialBackoff, cfg.Retry.MaxAttempts}
	want := got
	want.Name, want.Env, want.Level = "feeds", "staging", "debug"
	want.Namespace, want.Serializer = "feeds:v2", "yaml"
	want.TTL, want.Backoff, want.Attempts = 5*time.Minute, 50*time.Millisecond, 7
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("loaded config mismatch (-want +got):\n%s", diff)
	}
	if cfg.Retry.RetryIf == nil {
		t.Error("RetryIf default not applied")
	}
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := writeFile(t, dir, ".env", "APP_NAME=from-dotenv\nAPP_ENVIRONMENT=test\n")
	t.Cleanup(func() {
		os.Unsetenv("APP_NAME")
		os.Unsetenv("APP_ENVIRONMENT")
	})

	var cfg Config
	err := Load("svc", &cfg,
		WithFileSystem(&mockFS{files: map[string]bool{envPath: true}, real: true}),
		WithEnvFile(envPath),
		WithEnvPrefix("app"),
		WithLogger(logger.Nop()),
	)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Name != "from-dotenv" || cfg.Environment != "test" {
		t.Errorf("got name=%q environment=%q", cfg.Name, cfg.Environment)
	}
}

func TestLoad_Failures(t *testing.T) {
	dir := t.TempDir()
	broken := writeFile(t, dir, "broken.yml", "name: [unclosed\n")
	invalid := writeFile(t, dir, "invalid.yml", "environment: qa\n")

	tests := []struct {
		name string
		opts []LoaderOption
	}{
		{"missing explicit file", []LoaderOption{WithConfigFile(filepath.Join(dir, "nope.yml"))}},
		{"malformed yaml", []LoaderOption{WithConfigFile(broken)}},
		{"fails validation", []LoaderOption{WithConfigFile(invalid)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg Config
			err := Load("svc", &cfg, append(tt.opts, WithLogger(logger.Nop()))...)
			if !errors.HasCode(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("got %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestResolverWithMockFS(t *testing.T) {
	fs := &mockFS{files: map[string]bool{
		"./cmd/my-svc/config.yml": true,
		"./config/config.yml":     true,
		"./.env":                  true,
		"./config/.env.my-svc":    true,
	}}
	resolver := &Resolver{FileSystem: fs}

	files := resolver.ResolveFiles("my-svc", LoaderConfig{})
	want := ResolvedFiles{ConfigFile: "./cmd/my-svc/config.yml", EnvFile: "./config/.env.my-svc"}
	if diff := cmp.Diff(want, files); diff != "" {
		t.Errorf("resolved mismatch (-want +got):\n%s", diff)
	}

	explicit := resolver.ResolveFiles("my-svc", LoaderConfig{ConfigFile: "x.yml", EnvFile: "x.env"})
	if explicit.ConfigFile != "x.yml" || explicit.EnvFile != "x.env" {
		t.Errorf("explicit paths ignored: %+v", explicit)
	}
}

func TestEnvKeyVariants(t *testing.T) {
	tests := []struct {
		key  string
		want []string
	}{
		{"NAME", []string{"name"}},
		{"CACHE_ADAPTER", []string{"cache_adapter", "cache.adapter"}},
		{"CACHE_REDIS_ADDR", []string{"cache_redis_addr", "cache.redis.addr", "cache.redis_addr"}},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, envKeyVariants(tt.key)); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSetup(t *testing.T) {
	prev := logger.GetGlobalLogger()
	t.Cleanup(func() { logger.SetGlobalLogger(prev) })

	cfg := Config{Name: "svc", Logging: logger.Config{Level: "disabled"}}
	cfg.ApplyDefaults()
	shutdown, err := cfg.Setup(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("shutdown: %v", err)
	}
}

type mockFS struct {
	files map[string]bool
	real  bool
}

func (m *mockFS) Exists(path string) bool { return m.files[path] }

func (m *mockFS) LoadEnv(path string) error {
	if m.real {
		return RealFileSystem{}.LoadEnv(path)
	}
	return nil
}
