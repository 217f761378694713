// Package integrations provides HTTP clients for the services bundlesize
// queries.
//
// # Overview
//
// Each upstream service has its own subpackage:
//
//   - [bundlephobia]: bundle size lookups by "name@version"
//   - [npm]: package version metadata from the npm registry
//
// # Shared Infrastructure
//
// The [Client] type provides the HTTP plumbing used by both: default
// headers, status mapping ([ErrNotFound], [ErrNetwork]), JSON decoding
// ([ErrDecode]), optional retries for transient failures and an optional
// client-side rate limit. Every request is reported to
// [observability.HTTP] hooks.
//
// Clients do not cache. Memoization, in-flight de-duplication and failure
// backoff belong to [sizes.Coordinator], which fronts these clients.
//
// [bundlephobia]: github.com/matzehuels/bundlesize/pkg/integrations/bundlephobia
// [npm]: github.com/matzehuels/bundlesize/pkg/integrations/npm
// [observability.HTTP]: github.com/matzehuels/bundlesize/pkg/observability.HTTP
// [sizes.Coordinator]: github.com/matzehuels/bundlesize/pkg/sizes.Coordinator
package integrations
