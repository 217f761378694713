// Package pkg provides the libraries behind bundlesize.
//
// # Overview
//
// bundlesize annotates the dependencies declared in a package.json with
// their bundle size. The pkg directory is organized by pipeline stage:
//
//  1. [deps] and [deps/javascript] - manifest scanning and specifier resolution
//  2. [sizes] and [limiter] - cached, de-duplicated, bounded lookups
//  3. [integrations] - HTTP clients for the size service and npm registry
//  4. [format] - byte, duration and label formatting
//  5. [annotate] - the end-to-end pipeline and its sinks
//
// Supporting packages: [cache] (second-tier size store), [config] (TOML and
// environment configuration), [observability] (hooks and Prometheus
// metrics), [httputil] (retries) and [errors] (coded errors).
//
// # Architecture
//
//	package.json text
//	       ↓
//	  [deps/javascript] Scan → Resolve (workspace catalog)
//	       ↓
//	  [sizes] Coordinator → [limiter] → [integrations] clients
//	       ↓
//	  [format] labels and tooltips
//	       ↓
//	  [annotate] Sink (terminal, JSON, HTTP)
//
// # Quick Start
//
//	coord := sizes.New(
//	    bundlephobia.NewClient("", integrations.Options{}),
//	    npm.NewClient("", integrations.Options{}),
//	    sizes.Options{Concurrency: 2},
//	)
//	ann := annotate.New(coord, nil, annotate.Options{})
//	anns, err := ann.AnnotateFile(ctx, "package.json", "")
//
// [deps]: https://pkg.go.dev/github.com/matzehuels/bundlesize/pkg/deps
// [deps/javascript]: https://pkg.go.dev/github.com/matzehuels/bundlesize/pkg/deps/javascript
// [sizes]: https://pkg.go.dev/github.com/matzehuels/bundlesize/pkg/sizes
// [limiter]: https://pkg.go.dev/github.com/matzehuels/bundlesize/pkg/limiter
// [integrations]: https://pkg.go.dev/github.com/matzehuels/bundlesize/pkg/integrations
// [format]: https://pkg.go.dev/github.com/matzehuels/bundlesize/pkg/format
// [annotate]: https://pkg.go.dev/github.com/matzehuels/bundlesize/pkg/annotate
// [cache]: https://pkg.go.dev/github.com/matzehuels/bundlesize/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/bundlesize/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/bundlesize/pkg/observability
// [httputil]: https://pkg.go.dev/github.com/matzehuels/bundlesize/pkg/httputil
// [errors]: https://pkg.go.dev/github.com/matzehuels/bundlesize/pkg/errors
package pkg
