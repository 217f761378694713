package npm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/matzehuels/bundlesize/pkg/integrations"
)

// DefaultRegistry is the public npm registry.
const DefaultRegistry = "https://registry.npmjs.org"

// Metadata is the subset of a registry version document bundlesize reads.
type Metadata struct {
	Name          string
	Version       string
	RepositoryURL string // Normalized repository URL, or homepage when no repository is declared
}

// Client fetches version metadata from an npm registry.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a registry client. An empty baseURL selects
// [DefaultRegistry].
func NewClient(baseURL string, opts integrations.Options) *Client {
	if baseURL == "" {
		baseURL = DefaultRegistry
	}
	if opts.Headers == nil {
		opts.Headers = map[string]string{
			"Accept":     "application/json",
			"User-Agent": integrations.UserAgent(),
		}
	}
	return &Client{
		Client:  integrations.NewClient(opts),
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// FetchMetadata fetches the registry document for one version of a package.
// Name and version are escaped as single path segments.
func (c *Client) FetchMetadata(ctx context.Context, name, version string) (*Metadata, error) {
	name = strings.TrimSpace(name)
	version = strings.TrimSpace(version)

	u := c.baseURL + "/" + integrations.PathEscape(name) + "/" + integrations.PathEscape(version)
	var data versionResponse
	if err := c.Get(ctx, u, &data); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return nil, fmt.Errorf("%w: npm package %s@%s", err, name, version)
		}
		return nil, err
	}

	repo := extractField(data.Repository, "url")
	if repo == "" {
		repo = data.HomePage
	}
	return &Metadata{
		Name:          data.Name,
		Version:       data.Version,
		RepositoryURL: integrations.NormalizeRepoURL(repo),
	}, nil
}

// PackageURL returns the npm store page for a package version. An empty
// version links the package overview.
func PackageURL(name, version string) string {
	u := "https://www.npmjs.com/package/" + name
	if version != "" {
		u += "/v/" + version
	}
	return u
}

func extractField(v any, field string) string {
	switch val := v.(type) {
	case string:
		return val
	case map[string]any:
		if s, ok := val[field].(string); ok {
			return s
		}
	}
	return ""
}

type versionResponse struct {
	Name       string `json:"name"`
	Version    string `json:"version"`
	Repository any    `json:"repository"`
	HomePage   string `json:"homepage"`
}
