package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/kbukum/collectkit/errors"
	"github.com/kbukum/collectkit/logger"
)

// DefaultEnvPrefix scopes the environment variables read by Load.
const DefaultEnvPrefix = "COLLECTKIT"

// Loadable is a configuration struct that can default and check itself.
type Loadable interface {
	ApplyDefaults()
	Validate() error
}

// FileSystem abstracts the file operations of the loader.
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

// RealFileSystem implements FileSystem using actual file operations.
type RealFileSystem struct{}

func (RealFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// LoadEnv loads a .env file without overriding variables already set.
func (RealFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

// Resolver finds config and env files for an application.
type Resolver struct {
	FileSystem FileSystem
}

// ResolvedFiles contains the resolved config and env file paths.
type ResolvedFiles struct {
	ConfigFile string
	EnvFile    string
}

// ResolveFiles returns explicit paths when set, otherwise searches the
// standard locations for name.
func (r *Resolver) ResolveFiles(name string, opts LoaderConfig) ResolvedFiles {
	resolved := ResolvedFiles{ConfigFile: opts.ConfigFile, EnvFile: opts.EnvFile}
	if resolved.ConfigFile == "" {
		resolved.ConfigFile = r.first(configCandidates(name))
	}
	if resolved.EnvFile == "" {
		resolved.EnvFile = r.first(envCandidates(name))
	}
	return resolved
}

func (r *Resolver) first(paths []string) string {
	for _, p := range paths {
		if r.FileSystem.Exists(p) {
			return p
		}
	}
	return ""
}

func configCandidates(name string) []string {
	var paths []string
	for _, dir := range []string{"./cmd/" + name, "../cmd/" + name, "./config", "../config", "."} {
		for _, file := range []string{"config.yml", "config.yaml"} {
			paths = append(paths, dir+"/"+file)
		}
	}
	return paths
}

func envCandidates(name string) []string {
	var paths []string
	for _, file := range []string{".env." + name, ".env"} {
		for _, dir := range []string{"./cmd/" + name, "./config", ".", ".."} {
			paths = append(paths, dir+"/"+file)
		}
	}
	return paths
}

// LoaderConfig holds dependencies and optional file overrides.
type LoaderConfig struct {
	FileSystem FileSystem
	ConfigFile string // explicit config file path
	EnvFile    string // explicit .env file path
	EnvPrefix  string
	Logger     *logger.Logger
}

// LoaderOption is a functional option for Load.
type LoaderOption func(*LoaderConfig)

// WithFileSystem sets a custom filesystem for the loader.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *LoaderConfig) { lc.FileSystem = fs }
}

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// WithEnvPrefix replaces DefaultEnvPrefix.
func WithEnvPrefix(prefix string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvPrefix = prefix }
}

// WithLogger sets the logger used for loader warnings.
func WithLogger(l *logger.Logger) LoaderOption {
	return func(lc *LoaderConfig) { lc.Logger = l }
}

// Load reads configuration for name into cfg. Sources, lowest precedence
// first: the YAML config file, then PREFIX_* environment variables, with a
// .env file filling variables that are not already set. The result is
// defaulted and validated; every failure is INVALID_CONFIG.
func Load(name string, cfg Loadable, opts ...LoaderOption) error {
	lc := LoaderConfig{EnvPrefix: DefaultEnvPrefix}
	for _, opt := range opts {
		opt(&lc)
	}
	if lc.FileSystem == nil {
		lc.FileSystem = RealFileSystem{}
	}
	if lc.Logger == nil {
		lc.Logger = logger.WithComponent("config")
	}

	resolver := &Resolver{FileSystem: lc.FileSystem}
	files := resolver.ResolveFiles(name, lc)

	v := viper.New()
	if files.ConfigFile != "" {
		if !lc.FileSystem.Exists(files.ConfigFile) {
			return errors.InvalidConfig("config file not found: " + files.ConfigFile)
		}
		v.SetConfigFile(files.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return errors.InvalidConfig("reading " + files.ConfigFile).WithCause(err)
		}
	}

	if files.EnvFile != "" {
		if err := lc.FileSystem.LoadEnv(files.EnvFile); err != nil {
			lc.Logger.Warn("failed to load env file", logger.Fields(
				"path", files.EnvFile,
				logger.FieldError, err.Error(),
			))
		}
	}
	bindEnv(v, lc.EnvPrefix, os.Environ())

	if err := v.Unmarshal(cfg); err != nil {
		return errors.InvalidConfig(fmt.Sprintf("decoding config for %s", name)).WithCause(err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}

	lc.Logger.Debug("config loaded", logger.Fields(
		"name", name,
		"file", files.ConfigFile,
		"env_file", files.EnvFile,
	))
	return nil
}

// bindEnv sets every PREFIX_* variable under each nested key it could map
// to, so that APP_CACHE_DEFAULT_TTL reaches cache.default_ttl.
func bindEnv(v *viper.Viper, prefix string, environ []string) {
	prefix = strings.ToUpper(prefix) + "_"
	for _, env := range environ {
		key, value, ok := strings.Cut(env, "=")
		if !ok || !strings.HasPrefix(key, prefix) {
			continue
		}
		for _, variant := range envKeyVariants(strings.TrimPrefix(key, prefix)) {
			v.Set(variant, value)
		}
	}
}

// envKeyVariants lists the dotted keys an env var name may address:
//
//	CACHE_REDIS_ADDR -> [cache_redis_addr, cache.redis.addr, cache.redis_addr]
func envKeyVariants(envKey string) []string {
	lower := strings.ToLower(envKey)
	parts := strings.Split(lower, "_")
	if len(parts) <= 1 {
		return []string{lower}
	}

	variants := []string{lower, strings.Join(parts, ".")}
	for i := 1; i < len(parts); i++ {
		variants = append(variants, strings.Join(parts[:i], ".")+"."+strings.Join(parts[i:], "_"))
	}
	return removeDuplicates(variants)
}

func removeDuplicates(items []string) []string {
	seen := make(map[string]bool, len(items))
	result := make([]string, 0, len(items))
	for _, item := range items {
		if !seen[item] {
			seen[item] = true
			result = append(result, item)
		}
	}
	return result
}
