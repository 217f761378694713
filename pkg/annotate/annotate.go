package annotate

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/bundlesize/pkg/deps"
	"github.com/matzehuels/bundlesize/pkg/deps/javascript"
	"github.com/matzehuels/bundlesize/pkg/observability"
	"github.com/matzehuels/bundlesize/pkg/sizes"
)

// Annotation is the rendered result for one dependency declaration.
// Skipped entries (workspace links, unresolvable catalog references) carry
// no query, label or tooltip.
type Annotation struct {
	Line        int         `json:"line"`
	Name        string      `json:"name"`
	Specifier   string      `json:"specifier"`
	Query       string      `json:"query,omitempty"`
	FromCatalog bool        `json:"from_catalog,omitempty"`
	Label       string      `json:"label,omitempty"`
	Tooltip     string      `json:"tooltip,omitempty"`
	Skipped     bool        `json:"skipped,omitempty"`
	Size        sizes.Info  `json:"size,omitzero"`
	Links       sizes.Links `json:"links,omitzero"`
}

// Lookup resolves queries to sizes and links. [sizes.Coordinator]
// implements it.
type Lookup interface {
	Size(ctx context.Context, query string) sizes.Info
	Links(ctx context.Context, name, pinned string) sizes.Links
}

// Options configures an [Annotator].
type Options struct {
	Logger    *log.Logger
	SkipLinks bool // Do not fetch registry metadata
}

// Annotator runs the scan, resolve, lookup and format pipeline over a
// manifest.
type Annotator struct {
	lookup    Lookup
	catalogs  *javascript.CatalogLoader
	logger    *log.Logger
	skipLinks bool
}

// New creates an Annotator. A nil catalogs loader reads workspace files
// from disk.
func New(lookup Lookup, catalogs *javascript.CatalogLoader, opts Options) *Annotator {
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if catalogs == nil {
		catalogs = javascript.NewCatalogLoader(javascript.OSFiles{}, opts.Logger.Warnf)
	}
	return &Annotator{
		lookup:    lookup,
		catalogs:  catalogs,
		logger:    opts.Logger,
		skipLinks: opts.SkipLinks,
	}
}

// Catalogs returns the loader used for workspace catalogs.
func (a *Annotator) Catalogs() *javascript.CatalogLoader { return a.catalogs }

// Annotate scans manifest text and returns one annotation per declared
// dependency, ordered by line. root is the workspace root whose catalog
// resolves "catalog:" specifiers; an empty root disables catalog lookups.
//
// Lookups run concurrently; their bound is the coordinator's limiter.
func (a *Annotator) Annotate(ctx context.Context, text, root string) []Annotation {
	pass := uuid.NewString()
	logger := a.logger.With("pass", pass)
	hooks := observability.Annotate()
	hooks.OnAnnotateStart(ctx, root)
	start := time.Now()

	entries := javascript.Scan(text)
	catalog := deps.Catalog{}
	if root != "" {
		catalog = a.catalogs.Load(root)
	}
	logger.Debug("scanned manifest", "entries", len(entries), "catalog", len(catalog), "root", root)

	out := make([]Annotation, len(entries))
	var wg sync.WaitGroup
	for i, e := range entries {
		q, ok := javascript.ResolveEntry(e, catalog)
		if !ok {
			out[i] = Annotation{Line: e.Line, Name: e.Name, Specifier: e.Specifier, Skipped: true}
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			out[i] = a.annotate(ctx, e, q)
		}()
	}
	wg.Wait()

	slices.SortStableFunc(out, func(x, y Annotation) int { return x.Line - y.Line })

	elapsed := time.Since(start)
	hooks.OnAnnotateComplete(ctx, root, len(out), elapsed, nil)
	logger.Debug("annotated manifest", "annotations", len(out), "duration", elapsed)
	return out
}

func (a *Annotator) annotate(ctx context.Context, e deps.Entry, q deps.Query) Annotation {
	info := a.lookup.Size(ctx, q.Package)

	var links sizes.Links
	if !a.skipLinks && !info.Failed() && info.PinnedVersion != "" {
		links = a.lookup.Links(ctx, q.Name, info.PinnedVersion)
	}

	return Annotation{
		Line:        e.Line,
		Name:        e.Name,
		Specifier:   e.Specifier,
		Query:       q.Package,
		FromCatalog: q.FromCatalog,
		Label:       info.Display,
		Tooltip:     Tooltip(q, info, links),
		Size:        info,
		Links:       links,
	}
}

// AnnotateFile reads the manifest at path and annotates it. An empty root
// is replaced by the nearest enclosing workspace root.
func (a *Annotator) AnnotateFile(ctx context.Context, path, root string) ([]Annotation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		observability.Annotate().OnAnnotateComplete(ctx, path, 0, 0, err)
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	if root == "" {
		root = javascript.FindWorkspaceRoot(filepath.Dir(path))
	}
	return a.Annotate(ctx, string(data), root), nil
}

// Run annotates the manifest at path and publishes the result to sink.
func (a *Annotator) Run(ctx context.Context, path, root string, sink Sink) error {
	anns, err := a.AnnotateFile(ctx, path, root)
	if err != nil {
		return err
	}
	return sink.Publish(ctx, anns)
}
