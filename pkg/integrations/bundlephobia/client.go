package bundlephobia

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/matzehuels/bundlesize/pkg/integrations"
)

// DefaultEndpoint is the public bundlephobia size API.
const DefaultEndpoint = "https://bundlephobia.com/api/size"

// SizeInfo is a successful size lookup.
type SizeInfo struct {
	Version         string // Version the service resolved the query to; may be empty
	Size            int64  // Minified bytes
	Gzip            int64  // Minified and gzipped bytes
	DependencyCount *int   // nil when the service omits it
}

// Client queries a bundlephobia-compatible size endpoint.
type Client struct {
	*integrations.Client
	endpoint string
}

// NewClient creates a size client. An empty endpoint selects
// [DefaultEndpoint].
func NewClient(endpoint string, opts integrations.Options) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if opts.Headers == nil {
		opts.Headers = map[string]string{
			"Accept":              "application/json",
			"User-Agent":          integrations.UserAgent(),
			"X-Bundlephobia-User": "bundlesize",
		}
	}
	return &Client{
		Client:   integrations.NewClient(opts),
		endpoint: endpoint,
	}
}

// FetchSize looks up the bundle size of query ("name@version"). A response
// without numeric size and gzip fields is reported as
// [integrations.ErrIncomplete].
func (c *Client) FetchSize(ctx context.Context, query string) (*SizeInfo, error) {
	query = strings.TrimSpace(query)

	var data sizeResponse
	if err := c.Get(ctx, c.queryURL(query), &data); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return nil, fmt.Errorf("%w: bundle size for %s", err, query)
		}
		return nil, err
	}
	if data.Size == nil || data.Gzip == nil {
		return nil, fmt.Errorf("%w: size or gzip missing for %s", integrations.ErrIncomplete, query)
	}

	info := &SizeInfo{
		Version: data.Version,
		Size:    int64(*data.Size),
		Gzip:    int64(*data.Gzip),
	}
	if data.DependencyCount != nil {
		n := int(*data.DependencyCount)
		info.DependencyCount = &n
	}
	return info, nil
}

// PageURL returns the human-readable bundlephobia page for query.
func PageURL(query string) string {
	return "https://bundlephobia.com/package/" + query
}

func (c *Client) queryURL(query string) string {
	sep := "?"
	if strings.Contains(c.endpoint, "?") {
		sep = "&"
	}
	return c.endpoint + sep + "package=" + integrations.QueryEscape(query)
}

// Numeric fields are pointers so a missing field is distinguishable from 0.
type sizeResponse struct {
	Version         string   `json:"version"`
	Size            *float64 `json:"size"`
	Gzip            *float64 `json:"gzip"`
	DependencyCount *float64 `json:"dependencyCount"`
}
