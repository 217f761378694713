package sizes

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/bundlesize/pkg/cache"
	"github.com/matzehuels/bundlesize/pkg/deps"
	"github.com/matzehuels/bundlesize/pkg/deps/javascript"
	"github.com/matzehuels/bundlesize/pkg/format"
	"github.com/matzehuels/bundlesize/pkg/integrations/bundlephobia"
	"github.com/matzehuels/bundlesize/pkg/integrations/npm"
	"github.com/matzehuels/bundlesize/pkg/limiter"
	"github.com/matzehuels/bundlesize/pkg/observability"
)

const (
	// DefaultConcurrency is the outbound request bound when none is configured.
	DefaultConcurrency = 2

	// DefaultBackoff is how long a failed metadata lookup suppresses refetches.
	DefaultBackoff = 5 * time.Minute

	// ErrorDisplay is the label of a failed size lookup.
	ErrorDisplay = "error"

	keySize  = "size"
	keyLinks = "links"
)

// SizeFetcher looks up bundle sizes by "name@version".
type SizeFetcher interface {
	FetchSize(ctx context.Context, query string) (*bundlephobia.SizeInfo, error)
}

// MetadataFetcher looks up registry metadata for one package version.
type MetadataFetcher interface {
	FetchMetadata(ctx context.Context, name, version string) (*npm.Metadata, error)
}

// Info is the terminal outcome of a size lookup. A failed lookup has
// Display set to [ErrorDisplay] and Failure set to the cause.
type Info struct {
	Display         string `json:"display"`
	PinnedVersion   string `json:"pinned_version,omitempty"`
	Size            int64  `json:"size,omitempty"`
	Gzip            int64  `json:"gzip,omitempty"`
	DependencyCount *int   `json:"dependency_count,omitempty"`
	Failure         string `json:"failure,omitempty"`
}

// Failed reports whether the lookup ended in an error.
func (i Info) Failed() bool { return i.Failure != "" }

// Links are the outbound links for one package version. GithubURL holds the
// normalized repository URL (any host, or the homepage when no repository is
// declared) and is empty when the metadata lookup failed.
type Links struct {
	NpmURL    string `json:"npm_url"`
	GithubURL string `json:"github_url,omitempty"`
}

// Stats is a snapshot of the coordinator's state.
type Stats struct {
	Sizes    int `json:"sizes"`
	Links    int `json:"links"`
	Failures int `json:"failures"`
	Limit    int `json:"limit"`
	Running  int `json:"running"`
	Waiting  int `json:"waiting"`
}

// Options configures a [Coordinator].
type Options struct {
	Concurrency int              // Outbound request bound (default 2)
	Backoff     time.Duration    // Metadata failure backoff window (default 5m)
	Tier        cache.Cache      // Second-tier store for successful sizes (default: none)
	TierTTL     time.Duration    // Expiry of second-tier entries; 0 keeps them
	Logger      *log.Logger      // Defaults to a discarding logger
	Now         func() time.Time // Clock (default time.Now)
}

// Coordinator fronts the size and metadata services. Results are memoized
// for the coordinator's lifetime, concurrent identical lookups share one
// request, and every request passes through a bounded limiter.
//
// Coordinator is safe for concurrent use. Its methods never return errors;
// failures are cached as values.
type Coordinator struct {
	sizer   SizeFetcher
	meta    MetadataFetcher
	limiter atomic.Pointer[limiter.Limiter]
	tier    cache.Cache
	tierTTL time.Duration
	backoff time.Duration
	logger  *log.Logger
	now     func() time.Time

	sizeCalls singleflight.Group
	linkCalls singleflight.Group

	mu       sync.Mutex
	sizes    map[string]Info
	links    map[string]Links
	failures map[string]time.Time
}

// New creates a Coordinator over the given services.
func New(sizer SizeFetcher, meta MetadataFetcher, opts Options) *Coordinator {
	if opts.Concurrency < 1 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.Backoff <= 0 {
		opts.Backoff = DefaultBackoff
	}
	if opts.Tier == nil {
		opts.Tier = cache.NewNullCache()
	}
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	c := &Coordinator{
		sizer:    sizer,
		meta:     meta,
		tier:     opts.Tier,
		tierTTL:  opts.TierTTL,
		backoff:  opts.Backoff,
		logger:   opts.Logger,
		now:      opts.Now,
		sizes:    make(map[string]Info),
		links:    make(map[string]Links),
		failures: make(map[string]time.Time),
	}
	c.limiter.Store(limiter.New(opts.Concurrency))
	return c
}

// Size returns the bundle size for query ("name@version"). Each distinct
// query is fetched at most once; failures are cached like successes.
func (c *Coordinator) Size(ctx context.Context, query string) Info {
	hooks := observability.Cache()
	if info, ok := c.cachedSize(query); ok {
		hooks.OnCacheHit(ctx, keySize)
		return info
	}

	var leader bool
	v, _, _ := c.sizeCalls.Do(query, func() (any, error) {
		leader = true
		// A call that finished between the memo check and Do already wrote it.
		if info, ok := c.cachedSize(query); ok {
			return info, nil
		}
		hooks.OnCacheMiss(ctx, keySize)
		info := c.loadSize(ctx, query)
		c.mu.Lock()
		c.sizes[query] = info
		c.mu.Unlock()
		hooks.OnCacheSet(ctx, keySize, info.Failed())
		return info, nil
	})
	if !leader {
		hooks.OnCacheJoin(ctx, keySize)
		c.logger.Debug("joined in-flight size lookup", "query", query)
	}
	return v.(Info)
}

func (c *Coordinator) cachedSize(query string) (Info, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	info, ok := c.sizes[query]
	return info, ok
}

// loadSize consults the second tier, then the size service. Requests are
// detached from the caller's cancellation so a superseded pass still fills
// the cache.
func (c *Coordinator) loadSize(ctx context.Context, query string) Info {
	ctx = context.WithoutCancel(ctx)
	key := cache.SizeKey(query)

	if data, hit, err := c.tier.Get(ctx, key); err != nil {
		c.logger.Debug("second-tier cache read failed", "query", query, "error", err)
	} else if hit {
		var info Info
		if err := json.Unmarshal(data, &info); err == nil && !info.Failed() {
			c.logger.Debug("second-tier cache hit", "query", query)
			return info
		}
	}

	res, err := limiter.Run(ctx, c.limiter.Load(), func(ctx context.Context) (*bundlephobia.SizeInfo, error) {
		return c.sizer.FetchSize(ctx, query)
	})
	if err != nil {
		c.logger.Warn("size lookup failed", "query", query, "error", err)
		return Info{Display: ErrorDisplay, Failure: err.Error()}
	}

	info := Info{
		Display:         format.SizeLabel(res.Size, res.Gzip),
		PinnedVersion:   res.Version,
		Size:            res.Size,
		Gzip:            res.Gzip,
		DependencyCount: res.DependencyCount,
	}
	if info.PinnedVersion == "" {
		_, version, _ := deps.SplitQuery(query)
		info.PinnedVersion = javascript.PinnedVersion(version)
	}

	if data, err := json.Marshal(info); err == nil {
		if err := c.tier.Set(ctx, key, data, c.tierTTL); err != nil {
			c.logger.Debug("second-tier cache write failed", "query", query, "error", err)
		}
	}
	return info
}

// Links returns the npm and repository links for name at pinned. After a
// failed lookup, calls within the backoff window return store-only links
// without a request; the first call after the window refetches.
func (c *Coordinator) Links(ctx context.Context, name, pinned string) Links {
	hooks := observability.Cache()
	key := name + "@" + pinned

	switch links, state := c.cachedLinks(key); state {
	case linksFresh:
		hooks.OnCacheHit(ctx, keyLinks)
		return links
	case linksBackoff:
		hooks.OnBackoff(ctx, keyLinks)
		c.logger.Debug("metadata lookup in backoff", "key", key)
		return links
	}

	var leader bool
	v, _, _ := c.linkCalls.Do(key, func() (any, error) {
		leader = true
		if links, state := c.cachedLinks(key); state != linksStale && state != linksMissing {
			return links, nil
		}
		hooks.OnCacheMiss(ctx, keyLinks)
		links, failed := c.loadLinks(ctx, name, pinned)

		c.mu.Lock()
		c.links[key] = links
		if failed {
			c.failures[key] = c.now()
		} else {
			delete(c.failures, key)
		}
		c.mu.Unlock()
		hooks.OnCacheSet(ctx, keyLinks, failed)
		return links, nil
	})
	if !leader {
		hooks.OnCacheJoin(ctx, keyLinks)
	}
	return v.(Links)
}

type linksState int

const (
	linksMissing linksState = iota
	linksFresh
	linksBackoff
	linksStale
)

func (c *Coordinator) cachedLinks(key string) (Links, linksState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	links, ok := c.links[key]
	failedAt, failed := c.failures[key]
	switch {
	case failed && c.now().Sub(failedAt) < c.backoff:
		return links, linksBackoff
	case failed:
		return links, linksStale
	case ok:
		return links, linksFresh
	default:
		return Links{}, linksMissing
	}
}

func (c *Coordinator) loadLinks(ctx context.Context, name, pinned string) (Links, bool) {
	ctx = context.WithoutCancel(ctx)
	links := Links{NpmURL: npm.PackageURL(name, pinned)}

	meta, err := limiter.Run(ctx, c.limiter.Load(), func(ctx context.Context) (*npm.Metadata, error) {
		return c.meta.FetchMetadata(ctx, name, pinned)
	})
	if err != nil || meta == nil {
		c.logger.Warn("metadata lookup failed", "package", name, "version", pinned, "error", err)
		return links, true
	}
	links.GithubURL = meta.RepositoryURL
	return links, false
}

// SetConcurrency replaces the limiter when n differs from the current
// bound. Values below 1 are treated as 1. Work already admitted or queued
// drains under the old limiter.
func (c *Coordinator) SetConcurrency(n int) {
	n = max(n, 1)
	for {
		cur := c.limiter.Load()
		if cur.Limit() == n {
			return
		}
		if c.limiter.CompareAndSwap(cur, limiter.New(n)) {
			c.logger.Info("request concurrency changed", "from", cur.Limit(), "to", n)
			return
		}
	}
}

// Concurrency returns the current outbound request bound.
func (c *Coordinator) Concurrency() int {
	return c.limiter.Load().Limit()
}

// Stats returns a snapshot of cache sizes and limiter occupancy.
func (c *Coordinator) Stats() Stats {
	lim := c.limiter.Load()
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Sizes:    len(c.sizes),
		Links:    len(c.links),
		Failures: len(c.failures),
		Limit:    lim.Limit(),
		Running:  lim.Running(),
		Waiting:  lim.Waiting(),
	}
}
