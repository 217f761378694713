package config

import (
	"os"
	"strconv"
	"time"

	bserrors "github.com/matzehuels/bundlesize/pkg/errors"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "BUNDLESIZE_"

// LookupFunc reports the value of an environment variable.
type LookupFunc func(key string) (string, bool)

// ApplyEnv overrides c from BUNDLESIZE_* variables read through lookup.
// A nil lookup reads the process environment.
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	e := envReader{lookup: lookup}

	e.int("MAX_CONCURRENT_REQUESTS", &c.MaxConcurrentRequests)
	e.duration("DEBOUNCE", &c.Debounce)
	e.duration("METADATA_BACKOFF", &c.MetadataBackoff)
	e.float("REQUESTS_PER_SECOND", &c.RequestsPerSecond)
	e.int("HTTP_ATTEMPTS", &c.HTTPAttempts)
	e.duration("HTTP_TIMEOUT", &c.HTTPTimeout)
	e.string("SIZE_ENDPOINT", &c.SizeEndpoint)
	e.string("REGISTRY_ENDPOINT", &c.RegistryEndpoint)
	e.string("CACHE_BACKEND", &c.Cache.Backend)
	e.string("CACHE_DIR", &c.Cache.Dir)
	e.string("REDIS_ADDR", &c.Cache.RedisAddr)
	e.string("CACHE_PREFIX", &c.Cache.Prefix)
	e.duration("CACHE_TTL", &c.Cache.TTL)

	if e.err != nil {
		return e.err
	}
	c.normalize()
	return nil
}

// envReader records the first parse failure and skips the rest.
type envReader struct {
	lookup LookupFunc
	err    error
}

func (e *envReader) get(key string) (string, bool) {
	if e.err != nil {
		return "", false
	}
	return e.lookup(EnvPrefix + key)
}

func (e *envReader) fail(key string, err error) {
	e.err = bserrors.Wrap(bserrors.ErrCodeInvalidConfig, err, "%s%s", EnvPrefix, key)
}

func (e *envReader) string(key string, dst *string) {
	if v, ok := e.get(key); ok {
		*dst = v
	}
}

func (e *envReader) int(key string, dst *int) {
	if v, ok := e.get(key); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			e.fail(key, err)
			return
		}
		*dst = n
	}
}

func (e *envReader) float(key string, dst *float64) {
	if v, ok := e.get(key); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			e.fail(key, err)
			return
		}
		*dst = f
	}
}

func (e *envReader) duration(key string, dst *time.Duration) {
	if v, ok := e.get(key); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			e.fail(key, err)
			return
		}
		*dst = d
	}
}
