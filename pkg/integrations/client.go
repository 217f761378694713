package integrations

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/matzehuels/bundlesize/pkg/httputil"
	"github.com/matzehuels/bundlesize/pkg/observability"
)

// Options configures a [Client]. The zero value is usable.
type Options struct {
	Headers    map[string]string // Applied to every request
	Timeout    time.Duration     // Per-request timeout (default 10s)
	Retry      httputil.Policy   // Retry policy for transient failures (default: none)
	RateLimit  float64           // Requests per second; 0 means unlimited
	HTTPClient *http.Client      // Overrides the default client; Timeout is then ignored
}

// Client provides shared HTTP functionality for the size service and
// registry clients. It handles default headers, status mapping, retries
// and optional client-side rate limiting.
type Client struct {
	http    *http.Client
	headers map[string]string
	retry   httputil.Policy
	limiter *rate.Limiter
}

// NewClient creates a Client from opts.
func NewClient(opts Options) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = httpTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}
	retry := opts.Retry
	if retry.Attempts < 1 {
		retry = httputil.NoRetry
	}

	c := &Client{http: hc, headers: opts.Headers, retry: retry}
	if opts.RateLimit > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), max(1, int(opts.RateLimit)))
	}
	return c
}

// Get performs an HTTP GET request and JSON-decodes the response into v.
// A body that is not valid JSON is reported as [ErrDecode].
func (c *Client) Get(ctx context.Context, rawURL string, v any) error {
	return c.retry.Do(ctx, func() error {
		body, err := c.doRequest(ctx, rawURL)
		if err != nil {
			return err
		}
		defer body.Close()
		if err := json.NewDecoder(body).Decode(v); err != nil {
			return fmt.Errorf("%w: %v", ErrDecode, err)
		}
		return nil
	})
}

func (c *Client) doRequest(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	host, path := hostPath(req.URL)
	hooks := observability.HTTP()
	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		return nil, httputil.Retryable(fmt.Errorf("%w: %v", ErrNetwork, err))
	}
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp.Body, nil
}

func checkStatus(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusTooManyRequests, code >= 500:
		return httputil.Retryable(fmt.Errorf("%w: status %d", ErrNetwork, code))
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}

func hostPath(u *url.URL) (string, string) {
	if u == nil {
		return "", ""
	}
	return u.Host, u.Path
}
