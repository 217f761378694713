package integrations

import (
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/matzehuels/bundlesize/pkg/buildinfo"
)

const httpTimeout = 10 * time.Second

var (
	// ErrNotFound is returned when a package or resource doesn't exist.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, non-2xx responses).
	ErrNetwork = errors.New("network error")

	// ErrDecode is returned when a response body is not the expected JSON.
	ErrDecode = errors.New("invalid response body")

	// ErrIncomplete is returned when a response lacks required fields.
	ErrIncomplete = errors.New("incomplete response")
)

// UserAgent identifies bundlesize to upstream services.
func UserAgent() string {
	return buildinfo.UserAgent()
}

var repoURLReplacer = strings.NewReplacer(
	"git@github.com:", "https://github.com/",
	"git://github.com/", "https://github.com/",
	"ssh://git@github.com/", "https://github.com/",
	"http://github.com/", "https://github.com/",
)

// NormalizeRepoURL converts repository URL formats found in package
// metadata to canonical HTTPS form. It strips git+ prefixes and .git
// suffixes and expands "github:owner/repo" and bare "owner/repo"
// shorthands. Returns empty string if raw is empty.
func NormalizeRepoURL(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	s = strings.TrimPrefix(s, "git+")
	if rest, ok := strings.CutPrefix(s, "github:"); ok {
		s = "https://github.com/" + rest
	} else if isShorthand(s) {
		s = "https://github.com/" + s
	}
	s = repoURLReplacer.Replace(s)
	s = strings.TrimSuffix(s, "/")
	return strings.TrimSuffix(s, ".git")
}

func isShorthand(s string) bool {
	if strings.Contains(s, ":") || strings.HasPrefix(s, "/") {
		return false
	}
	return strings.Count(s, "/") == 1
}

// QueryEscape percent-encodes s for use as a query parameter value.
func QueryEscape(s string) string { return url.QueryEscape(s) }

// PathEscape percent-encodes s for use as a single path segment.
// Scoped npm names keep their "@" and encode the "/" ("@types%2Fnode").
func PathEscape(s string) string { return url.PathEscape(s) }
