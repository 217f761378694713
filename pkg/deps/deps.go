package deps

import (
	"maps"
	"strings"
)

// Entry is a single dependency declaration found in a manifest.
type Entry struct {
	Name      string // Package name as written (e.g., "@types/node")
	Specifier string // Raw version specifier (e.g., "^1.2.3", "catalog:")
	Line      int    // 0-based source line of the declaration
}

// Query is an entry resolved to something the size service can look up.
type Query struct {
	Name        string // Package name
	Version     string // Resolved version specifier
	FromCatalog bool   // Whether Version came from the default catalog
	Package     string // Lookup key in "name@version" form
}

// NewQuery builds a Query for name at version.
func NewQuery(name, version string, fromCatalog bool) Query {
	return Query{
		Name:        name,
		Version:     version,
		FromCatalog: fromCatalog,
		Package:     name + "@" + version,
	}
}

// Resolution is the outcome of resolving one specifier.
// When Skip is true the entry has no meaningful size lookup.
type Resolution struct {
	Skip        bool
	Version     string
	FromCatalog bool
}

// Catalog maps package names to default version specifiers for a workspace.
type Catalog map[string]string

// Lookup returns the catalog version for name.
func (c Catalog) Lookup(name string) (string, bool) {
	v, ok := c[name]
	return v, ok
}

// Merge returns a new catalog holding all of c's entries overwritten by
// each of others in order. The receiver is not modified.
func (c Catalog) Merge(others ...Catalog) Catalog {
	out := make(Catalog, len(c))
	maps.Copy(out, c)
	for _, o := range others {
		maps.Copy(out, o)
	}
	return out
}

// SplitQuery splits a "name@version" lookup key. The separator is the last
// "@" after the first character, so scoped names ("@types/node@20.1.0")
// split correctly. ok is false when no version is present.
func SplitQuery(query string) (name, version string, ok bool) {
	i := strings.LastIndex(query, "@")
	if i <= 0 {
		return query, "", false
	}
	return query[:i], query[i+1:], true
}
