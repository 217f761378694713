package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/bundlesize/pkg/cache"
	bserrors "github.com/matzehuels/bundlesize/pkg/errors"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.MaxConcurrentRequests != 2 {
		t.Errorf("MaxConcurrentRequests = %d, want 2", cfg.MaxConcurrentRequests)
	}
	if cfg.Debounce != 250*time.Millisecond {
		t.Errorf("Debounce = %v", cfg.Debounce)
	}
	if cfg.MetadataBackoff != 5*time.Minute {
		t.Errorf("MetadataBackoff = %v", cfg.MetadataBackoff)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != Default() {
		t.Errorf("missing file should yield defaults, got %+v", cfg)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
max_concurrent_requests = 6
metadata_backoff = "10m"
requests_per_second = 2.5

[cache]
backend = "redis"
redis_addr = "localhost:6379"
ttl = "24h"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MaxConcurrentRequests != 6 {
		t.Errorf("MaxConcurrentRequests = %d", cfg.MaxConcurrentRequests)
	}
	if cfg.MetadataBackoff != 10*time.Minute {
		t.Errorf("MetadataBackoff = %v", cfg.MetadataBackoff)
	}
	if cfg.RequestsPerSecond != 2.5 {
		t.Errorf("RequestsPerSecond = %v", cfg.RequestsPerSecond)
	}
	if cfg.Cache.Backend != cache.BackendRedis || cfg.Cache.RedisAddr != "localhost:6379" || cfg.Cache.TTL != 24*time.Hour {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	// Unset keys keep their defaults.
	if cfg.Debounce != 250*time.Millisecond {
		t.Errorf("Debounce = %v", cfg.Debounce)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestParseClampsConcurrency(t *testing.T) {
	cfg, err := Parse([]byte("max_concurrent_requests = 0\nhttp_attempts = -3\n"), Default())
	if err != nil {
		t.Fatal(err)
	}
	if cfg.MaxConcurrentRequests != 1 {
		t.Errorf("MaxConcurrentRequests = %d, want 1", cfg.MaxConcurrentRequests)
	}
	if cfg.HTTPAttempts != 1 {
		t.Errorf("HTTPAttempts = %d, want 1", cfg.HTTPAttempts)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"syntax", "max_concurrent_requests = "},
		{"unknown key", "max_requests = 3"},
		{"wrong type", `max_concurrent_requests = "lots"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), Default())
			if !bserrors.Is(err, bserrors.ErrCodeInvalidConfig) {
				t.Errorf("Parse() error = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative rate", func(c *Config) { c.RequestsPerSecond = -1 }},
		{"negative backoff", func(c *Config) { c.MetadataBackoff = -time.Second }},
		{"bad endpoint", func(c *Config) { c.SizeEndpoint = "ftp://example.com" }},
		{"unknown backend", func(c *Config) { c.Cache.Backend = "memcached" }},
		{"redis without addr", func(c *Config) { c.Cache.Backend = cache.BackendRedis }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); !bserrors.Is(err, bserrors.ErrCodeInvalidConfig) {
				t.Errorf("Validate() error = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"BUNDLESIZE_MAX_CONCURRENT_REQUESTS": "8",
		"BUNDLESIZE_DEBOUNCE":                "1s",
		"BUNDLESIZE_REQUESTS_PER_SECOND":     "3",
		"BUNDLESIZE_CACHE_BACKEND":           "redis",
		"BUNDLESIZE_REDIS_ADDR":              "cache:6379",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	if err := cfg.ApplyEnv(lookup); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}
	if cfg.MaxConcurrentRequests != 8 || cfg.Debounce != time.Second || cfg.RequestsPerSecond != 3 {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Cache.Backend != "redis" || cfg.Cache.RedisAddr != "cache:6379" {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
}

func TestApplyEnvInvalid(t *testing.T) {
	lookup := func(k string) (string, bool) {
		if k == "BUNDLESIZE_HTTP_TIMEOUT" {
			return "soon", true
		}
		return "", false
	}
	cfg := Default()
	err := cfg.ApplyEnv(lookup)
	if !bserrors.Is(err, bserrors.ErrCodeInvalidConfig) {
		t.Fatalf("ApplyEnv() error = %v, want INVALID_CONFIG", err)
	}
	if !strings.Contains(err.Error(), "BUNDLESIZE_HTTP_TIMEOUT") {
		t.Errorf("error should name the variable: %v", err)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.MaxConcurrentRequests = 3
	cfg.Cache.TTL = time.Hour

	data, err := cfg.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Parse(data, Config{})
	if err != nil {
		t.Fatalf("Parse: %v\n%s", err, data)
	}
	if got != cfg {
		t.Errorf("round trip = %+v, want %+v", got, cfg)
	}
}

func TestCacheOptions(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")

	cfg := Default()
	cfg.Cache.Backend = cache.BackendFile
	opts := cfg.CacheOptions()
	if opts.Dir != filepath.Join("/tmp/xdg-cache", AppName) {
		t.Errorf("Dir = %q", opts.Dir)
	}
	if opts.Prefix != "bundlesize:" {
		t.Errorf("Prefix = %q", opts.Prefix)
	}
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-config")
	path, err := DefaultPath()
	if err != nil {
		t.Fatal(err)
	}
	if path != filepath.Join("/tmp/xdg-config", AppName, "config.toml") {
		t.Errorf("DefaultPath() = %q", path)
	}
}

func TestWatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("max_concurrent_requests = 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var (
		mu   sync.Mutex
		seen []int
		errs int
	)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		Watch(ctx, path, 5*time.Millisecond, func(cfg Config, err error) {
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs++
				return
			}
			seen = append(seen, cfg.MaxConcurrentRequests)
		})
	}()

	time.Sleep(20 * time.Millisecond)
	if err := os.WriteFile(path, []byte("max_concurrent_requests = 12\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) > 0 && seen[len(seen)-1] == 12
	})

	if err := os.WriteFile(path, []byte("max_concurrent_requests = \"many\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return errs > 0
	})

	cancel()
	<-done
}

func TestWatchFileReportsRemoval(t *testing.T) {
	path := filepath.Join(t.TempDir(), "package.json")
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	var (
		mu      sync.Mutex
		changes int
	)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		WatchFile(ctx, path, 5*time.Millisecond, func() {
			mu.Lock()
			changes++
			mu.Unlock()
		})
	}()

	time.Sleep(20 * time.Millisecond)
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return changes == 1
	})

	cancel()
	<-done
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}
