package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/bundlesize/pkg/annotate"
	"github.com/matzehuels/bundlesize/pkg/buildinfo"
	"github.com/matzehuels/bundlesize/pkg/deps"
	bserrors "github.com/matzehuels/bundlesize/pkg/errors"
	"github.com/matzehuels/bundlesize/pkg/sizes"
)

type annotateResponse struct {
	Annotations []annotate.Annotation `json:"annotations"`
	Stats       sizes.Stats           `json:"stats"`
}

type sizesRequest struct {
	Queries []string `json:"queries"`
}

type sizeResult struct {
	Query string     `json:"query"`
	Info  sizes.Info `json:"info"`
}

type healthResponse struct {
	Status  string  `json:"status"`
	Version string  `json:"version"`
	Commit  string  `json:"commit"`
	Uptime  float64 `json:"uptime_seconds"`
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    bserrors.Code `json:"code"`
	Message string        `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	build := buildinfo.Get()
	writeJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		Version: build.Version,
		Commit:  build.ShortCommit(),
		Uptime:  time.Since(s.started).Seconds(),
	})
}

// handleAnnotate annotates the manifest text in the request body. The
// optional root query parameter selects the workspace catalog and must lie
// inside the configured workspaces directory.
func (s *Server) handleAnnotate(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxManifestBytes))
	if err != nil {
		s.writeError(w, r, bserrors.Wrap(bserrors.ErrCodeInvalidManifest, err, "read manifest"))
		return
	}
	if strings.TrimSpace(string(body)) == "" {
		s.writeError(w, r, bserrors.New(bserrors.ErrCodeInvalidManifest, "manifest is empty"))
		return
	}

	root, err := s.workspaceRoot(r.URL.Query().Get("root"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	anns := s.annotator.Annotate(r.Context(), string(body), root)
	if anns == nil {
		anns = []annotate.Annotation{}
	}
	writeJSON(w, http.StatusOK, annotateResponse{Annotations: anns, Stats: s.lookups.Stats()})
}

func (s *Server) handleSize(w http.ResponseWriter, r *http.Request) {
	query, err := queryParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sizeResult{Query: query, Info: s.lookups.Size(r.Context(), query)})
}

// handleSizes looks up a batch of queries concurrently. Results keep the
// request order.
func (s *Server) handleSizes(w http.ResponseWriter, r *http.Request) {
	var req sizesRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxManifestBytes)).Decode(&req); err != nil {
		s.writeError(w, r, bserrors.Wrap(bserrors.ErrCodeInvalidInput, err, "decode request"))
		return
	}
	if len(req.Queries) > maxBatchQueries {
		s.writeError(w, r, bserrors.New(bserrors.ErrCodeInvalidInput, "at most %d queries per request", maxBatchQueries))
		return
	}
	for _, q := range req.Queries {
		if err := bserrors.ValidateQuery(q); err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	results := make([]sizeResult, len(req.Queries))
	g, ctx := errgroup.WithContext(r.Context())
	for i, q := range req.Queries {
		g.Go(func() error {
			results[i] = sizeResult{Query: q, Info: s.lookups.Size(ctx, q)}
			return ctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		// Lookups still fill the cache; only the response is abandoned.
		loggerFrom(r.Context(), s.logger).Debug("client went away", "queries", len(req.Queries), "error", err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func (s *Server) handleLinks(w http.ResponseWriter, r *http.Request) {
	query, err := queryParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	name, version, _ := deps.SplitQuery(query)
	writeJSON(w, http.StatusOK, s.lookups.Links(r.Context(), name, version))
}

// queryParam returns the "name@version" wildcard of the route, unescaped.
func queryParam(r *http.Request) (string, error) {
	query, err := url.PathUnescape(chi.URLParam(r, "*"))
	if err != nil {
		return "", bserrors.Wrap(bserrors.ErrCodeInvalidQuery, err, "unescape query")
	}
	if err := bserrors.ValidateQuery(query); err != nil {
		return "", err
	}
	return query, nil
}

// workspaceRoot resolves a requested root against the workspaces directory.
// Relative roots are taken from that directory.
func (s *Server) workspaceRoot(root string) (string, error) {
	if root == "" {
		return "", nil
	}
	if s.base == "" {
		return "", bserrors.New(bserrors.ErrCodeForbiddenRoot, "workspace roots are disabled on this server")
	}
	if !filepath.IsAbs(root) {
		root = filepath.Join(s.base, root)
	}
	resolved := canonicalPath(root)
	rel, err := filepath.Rel(s.base, resolved)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", bserrors.New(bserrors.ErrCodeForbiddenRoot, "root %q is outside the workspaces directory", root)
	}
	return resolved, nil
}

// canonicalPath returns an absolute, symlink-free form of p where possible.
func canonicalPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		p = abs
	}
	if resolved, err := filepath.EvalSymlinks(p); err == nil {
		return resolved
	}
	return filepath.Clean(p)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.lookups.Stats())
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := bserrors.HTTPStatus(err)
	code := bserrors.GetCode(err)
	if code == "" {
		code = bserrors.ErrCodeInternal
	}
	loggerFrom(r.Context(), s.logger).Warn("request failed", "status", status, "error", err)
	writeJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: bserrors.UserMessage(err)}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
