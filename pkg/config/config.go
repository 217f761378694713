package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/bundlesize/pkg/cache"
	bserrors "github.com/matzehuels/bundlesize/pkg/errors"
	"github.com/matzehuels/bundlesize/pkg/integrations/bundlephobia"
	"github.com/matzehuels/bundlesize/pkg/integrations/npm"
)

// AppName names the config and cache directories.
const AppName = "bundlesize"

// Config holds every tunable of the CLI and server.
type Config struct {
	MaxConcurrentRequests int           `toml:"max_concurrent_requests"`
	Debounce              time.Duration `toml:"debounce"`
	MetadataBackoff       time.Duration `toml:"metadata_backoff"`
	RequestsPerSecond     float64       `toml:"requests_per_second"`
	HTTPAttempts          int           `toml:"http_attempts"`
	HTTPTimeout           time.Duration `toml:"http_timeout"`
	SizeEndpoint          string        `toml:"size_endpoint"`
	RegistryEndpoint      string        `toml:"registry_endpoint"`
	Cache                 CacheConfig   `toml:"cache"`
}

// CacheConfig selects the second-tier size cache.
type CacheConfig struct {
	Backend   string        `toml:"backend"`
	Dir       string        `toml:"dir"`
	RedisAddr string        `toml:"redis_addr"`
	Prefix    string        `toml:"prefix"`
	TTL       time.Duration `toml:"ttl"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		MaxConcurrentRequests: 2,
		Debounce:              250 * time.Millisecond,
		MetadataBackoff:       5 * time.Minute,
		HTTPAttempts:          1,
		HTTPTimeout:           10 * time.Second,
		SizeEndpoint:          bundlephobia.DefaultEndpoint,
		RegistryEndpoint:      npm.DefaultRegistry,
		Cache: CacheConfig{
			Backend: cache.BackendNone,
			Prefix:  AppName + ":",
		},
	}
}

// Load reads the TOML file at path over [Default]. A missing file yields
// the defaults. Unknown keys are rejected. The result is normalized but not
// validated; call [Config.Validate].
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, bserrors.Wrap(bserrors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	return Parse(data, cfg)
}

// Parse decodes TOML data over base.
func Parse(data []byte, base Config) (Config, error) {
	cfg := base
	md, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&cfg)
	if err != nil {
		return base, bserrors.Wrap(bserrors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return base, bserrors.New(bserrors.ErrCodeInvalidConfig, "unknown config key %q", undecoded[0].String())
	}
	cfg.normalize()
	return cfg, nil
}

// normalize clamps values with documented minimums.
func (c *Config) normalize() {
	c.MaxConcurrentRequests = max(c.MaxConcurrentRequests, 1)
	c.HTTPAttempts = max(c.HTTPAttempts, 1)
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.RequestsPerSecond < 0 {
		return bserrors.New(bserrors.ErrCodeInvalidConfig, "requests_per_second must not be negative")
	}
	for name, d := range map[string]time.Duration{
		"debounce":         c.Debounce,
		"metadata_backoff": c.MetadataBackoff,
		"http_timeout":     c.HTTPTimeout,
		"cache.ttl":        c.Cache.TTL,
	} {
		if d < 0 {
			return bserrors.New(bserrors.ErrCodeInvalidConfig, "%s must not be negative", name)
		}
	}
	for name, u := range map[string]string{
		"size_endpoint":     c.SizeEndpoint,
		"registry_endpoint": c.RegistryEndpoint,
	} {
		if err := bserrors.ValidateURL(u); err != nil {
			return bserrors.Wrap(bserrors.ErrCodeInvalidConfig, err, "%s", name)
		}
	}
	switch c.Cache.Backend {
	case "", cache.BackendNone, cache.BackendFile:
	case cache.BackendRedis:
		if c.Cache.RedisAddr == "" {
			return bserrors.New(bserrors.ErrCodeInvalidConfig, "cache.redis_addr is required for the redis backend")
		}
	default:
		return bserrors.New(bserrors.ErrCodeInvalidConfig, "unknown cache.backend %q", c.Cache.Backend)
	}
	return nil
}

// Encode writes c as TOML.
func (c Config) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// CacheOptions converts the cache section to [cache.Options]. The file
// backend defaults to [DefaultCacheDir].
func (c Config) CacheOptions() cache.Options {
	dir := c.Cache.Dir
	if dir == "" && c.Cache.Backend == cache.BackendFile {
		dir, _ = DefaultCacheDir()
	}
	return cache.Options{
		Backend:   c.Cache.Backend,
		Dir:       dir,
		RedisAddr: c.Cache.RedisAddr,
		Prefix:    c.Cache.Prefix,
	}
}

// DefaultPath returns the config file location: bundlesize/config.toml
// under $XDG_CONFIG_HOME, falling back to ~/.config.
func DefaultPath() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, AppName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(home, ".config", AppName, "config.toml"), nil
}

// DefaultCacheDir returns the file cache location under $XDG_CACHE_HOME,
// falling back to ~/.cache.
func DefaultCacheDir() (string, error) {
	if home := os.Getenv("XDG_CACHE_HOME"); home != "" {
		return filepath.Join(home, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate cache dir: %w", err)
	}
	return filepath.Join(home, ".cache", AppName), nil
}
