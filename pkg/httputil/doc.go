// Package httputil provides retry handling for registry and size-service
// clients.
//
// Transport failures and 5xx responses are wrapped with [Retryable] by the
// client; [Policy.Do] retries only those, doubling the delay between
// attempts:
//
//	err := httputil.DefaultPolicy.Do(ctx, func() error {
//	    return client.Get(ctx, url, &v)
//	})
//
// The size pipeline caches failures as terminal values, so bundlesize runs
// with [NoRetry] unless "http_attempts" is raised in the config file.
package httputil
