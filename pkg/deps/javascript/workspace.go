package javascript

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/matzehuels/bundlesize/pkg/deps"
)

const (
	// WorkspaceFile is the pnpm workspace definition holding the default catalog.
	WorkspaceFile = "pnpm-workspace.yaml"
	// ManifestFile is the package manifest name.
	ManifestFile = "package.json"
)

// FileSource provides raw file text relative to a workspace root.
// A missing file is reported with an error wrapping [fs.ErrNotExist].
type FileSource interface {
	ReadFile(root, name string) (string, error)
}

// OSFiles reads files from the local file system.
type OSFiles struct{}

// ReadFile reads root/name.
func (OSFiles) ReadFile(root, name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(root, name))
	return string(data), err
}

// CatalogLoader builds and caches the default catalog of each workspace
// root. Entries live until [CatalogLoader.Invalidate] is called. It is safe
// for concurrent use.
type CatalogLoader struct {
	files FileSource
	logf  func(string, ...any)

	mu    sync.Mutex
	cache map[string]deps.Catalog
}

// NewCatalogLoader creates a loader over files. A nil files reads from disk;
// a nil logf discards read errors.
func NewCatalogLoader(files FileSource, logf func(string, ...any)) *CatalogLoader {
	if files == nil {
		files = OSFiles{}
	}
	if logf == nil {
		logf = func(string, ...any) {}
	}
	return &CatalogLoader{files: files, logf: logf, cache: make(map[string]deps.Catalog)}
}

// Load returns the merged catalog for root. Missing or unreadable files
// contribute nothing; Load never fails.
func (l *CatalogLoader) Load(root string) deps.Catalog {
	key := rootKey(root)

	l.mu.Lock()
	defer l.mu.Unlock()
	if c, ok := l.cache[key]; ok {
		return c
	}

	workspace := deps.Catalog{}
	if text, ok := l.read(root, WorkspaceFile); ok {
		workspace = ParseWorkspaceCatalog(text)
	}
	manifest := deps.Catalog{}
	if text, ok := l.read(root, ManifestFile); ok {
		manifest = ParseManifestCatalogText(text)
	}

	c := MergeCatalogs(workspace, manifest)
	l.cache[key] = c
	return c
}

// Invalidate drops the cached catalog for root.
func (l *CatalogLoader) Invalidate(root string) {
	l.mu.Lock()
	delete(l.cache, rootKey(root))
	l.mu.Unlock()
}

func (l *CatalogLoader) read(root, name string) (string, bool) {
	text, err := l.files.ReadFile(root, name)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			l.logf("read %s in %s: %v", name, root, err)
		}
		return "", false
	}
	return text, true
}

func rootKey(root string) string {
	if abs, err := filepath.Abs(root); err == nil {
		return abs
	}
	return filepath.Clean(root)
}

// FindWorkspaceRoot walks up from dir to the nearest directory containing
// pnpm-workspace.yaml. If none is found, dir itself is returned.
func FindWorkspaceRoot(dir string) string {
	start, err := filepath.Abs(dir)
	if err != nil {
		return dir
	}
	for cur := start; ; {
		if _, err := os.Stat(filepath.Join(cur, WorkspaceFile)); err == nil {
			return cur
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return start
		}
		cur = parent
	}
}
