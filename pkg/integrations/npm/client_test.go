package npm

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/matzehuels/bundlesize/pkg/integrations"
)

func testClient(t *testing.T, serverURL string) *Client {
	t.Helper()
	return NewClient(serverURL, integrations.Options{})
}

func TestClient_FetchMetadata(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantRepo string
	}{
		{
			name:     "repository object",
			body:     `{"name":"react","version":"18.3.1","repository":{"type":"git","url":"git+https://github.com/facebook/react.git"}}`,
			wantRepo: "https://github.com/facebook/react",
		},
		{
			name:     "repository string",
			body:     `{"name":"react","version":"18.3.1","repository":"github:facebook/react"}`,
			wantRepo: "https://github.com/facebook/react",
		},
		{
			name:     "homepage fallback",
			body:     `{"name":"react","version":"18.3.1","homepage":"https://react.dev/"}`,
			wantRepo: "https://react.dev",
		},
		{
			name:     "nothing declared",
			body:     `{"name":"react","version":"18.3.1"}`,
			wantRepo: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/react/18.3.1" {
					http.NotFound(w, r)
					return
				}
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			meta, err := testClient(t, server.URL).FetchMetadata(context.Background(), "react", "18.3.1")
			if err != nil {
				t.Fatalf("FetchMetadata() error: %v", err)
			}
			if meta.RepositoryURL != tt.wantRepo {
				t.Errorf("RepositoryURL = %q, want %q", meta.RepositoryURL, tt.wantRepo)
			}
			if meta.Version != "18.3.1" {
				t.Errorf("Version = %q", meta.Version)
			}
		})
	}
}

func TestClient_FetchMetadata_ScopedName(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.Write([]byte(`{"name":"@types/node","version":"20.1.0"}`))
	}))
	defer server.Close()

	if _, err := testClient(t, server.URL).FetchMetadata(context.Background(), "@types/node", "20.1.0"); err != nil {
		t.Fatalf("FetchMetadata() error: %v", err)
	}
	if gotPath != "/@types%2Fnode/20.1.0" {
		t.Errorf("path = %q, want %q", gotPath, "/@types%2Fnode/20.1.0")
	}
}

func TestClient_FetchMetadata_NotFound(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	_, err := testClient(t, server.URL).FetchMetadata(context.Background(), "missing-pkg", "1.0.0")
	if !errors.Is(err, integrations.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestPackageURL(t *testing.T) {
	tests := []struct {
		name, version, want string
	}{
		{"react", "18.3.1", "https://www.npmjs.com/package/react/v/18.3.1"},
		{"@types/node", "20.1.0", "https://www.npmjs.com/package/@types/node/v/20.1.0"},
		{"react", "", "https://www.npmjs.com/package/react"},
	}
	for _, tt := range tests {
		if got := PackageURL(tt.name, tt.version); got != tt.want {
			t.Errorf("PackageURL(%q, %q) = %q, want %q", tt.name, tt.version, got, tt.want)
		}
	}
}

func TestExtractField(t *testing.T) {
	tests := []struct {
		input any
		want  string
	}{
		{"plain", "plain"},
		{map[string]any{"url": "u"}, "u"},
		{map[string]any{"url": 1}, ""},
		{nil, ""},
	}
	for _, tt := range tests {
		if got := extractField(tt.input, "url"); got != tt.want {
			t.Errorf("extractField(%v) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
