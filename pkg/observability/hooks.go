// Package observability provides hooks for metrics and tracing.
//
// Libraries emit events through package-level hook registries; by default
// every hook is a no-op. Binaries register real implementations at startup,
// for example the Prometheus hooks used by "bundlesize serve":
//
//	hooks := observability.NewPrometheusHooks(nil)
//	observability.SetAnnotateHooks(hooks)
//	observability.SetCacheHooks(hooks)
//	observability.SetHTTPHooks(hooks)
//
// Libraries call hooks to emit events:
//
//	observability.Cache().OnCacheHit(ctx, "size")
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Annotate Hooks
// =============================================================================

// AnnotateHooks receives events from annotation passes.
type AnnotateHooks interface {
	OnAnnotateStart(ctx context.Context, source string)
	OnAnnotateComplete(ctx context.Context, source string, entries int, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from the size and metadata caches.
// keyType is "size" or "links".
type CacheHooks interface {
	// OnCacheHit records a lookup answered from memory.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a lookup that had to fetch.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheJoin records a lookup that attached to an in-flight fetch.
	OnCacheJoin(ctx context.Context, keyType string)

	// OnCacheSet records a terminal cache write; failed marks error entries.
	OnCacheSet(ctx context.Context, keyType string, failed bool)

	// OnBackoff records a lookup short-circuited by a recent failure.
	OnBackoff(ctx context.Context, keyType string)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from HTTP client operations.
type HTTPHooks interface {
	// OnRequest records an outgoing HTTP request.
	OnRequest(ctx context.Context, method, host, path string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records an HTTP error (network failure, timeout).
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopAnnotateHooks is a no-op implementation of AnnotateHooks.
type NoopAnnotateHooks struct{}

func (NoopAnnotateHooks) OnAnnotateStart(context.Context, string)                               {}
func (NoopAnnotateHooks) OnAnnotateComplete(context.Context, string, int, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)       {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)      {}
func (NoopCacheHooks) OnCacheJoin(context.Context, string)      {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, bool) {}
func (NoopCacheHooks) OnBackoff(context.Context, string)        {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	annotateHooks AnnotateHooks = NoopAnnotateHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	httpHooks     HTTPHooks     = NoopHTTPHooks{}
	hooksMu       sync.RWMutex
)

// SetAnnotateHooks registers custom annotation hooks.
// This should be called once at application startup.
func SetAnnotateHooks(h AnnotateHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		annotateHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before any HTTP operations.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Annotate returns the registered annotation hooks.
func Annotate() AnnotateHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return annotateHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	annotateHooks = NoopAnnotateHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
