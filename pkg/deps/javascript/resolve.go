package javascript

import (
	"strings"

	"github.com/matzehuels/bundlesize/pkg/deps"
)

const (
	workspaceProtocol = "workspace:"
	catalogProtocol   = "catalog:"
)

// Resolve turns a declared specifier into a concrete version.
//
// Workspace links are skipped. "catalog:" and "catalog:." look the package
// up in the default catalog and skip when it is absent. Named catalogs
// ("catalog:react18") are always skipped rather than guessed at. Anything
// else is returned trimmed as-is.
func Resolve(name, specifier string, catalog deps.Catalog) deps.Resolution {
	spec := strings.TrimSpace(specifier)

	if strings.HasPrefix(spec, workspaceProtocol) {
		return deps.Resolution{Skip: true}
	}

	if alias, ok := strings.CutPrefix(spec, catalogProtocol); ok {
		alias = strings.TrimSpace(alias)
		if alias != "" && alias != "." {
			return deps.Resolution{Skip: true}
		}
		v, ok := catalog.Lookup(name)
		if !ok {
			return deps.Resolution{Skip: true}
		}
		return deps.Resolution{Version: v, FromCatalog: true}
	}

	return deps.Resolution{Version: spec}
}

// ResolveEntry resolves e against catalog. It reports false when the entry
// should not be looked up.
func ResolveEntry(e deps.Entry, catalog deps.Catalog) (deps.Query, bool) {
	r := Resolve(e.Name, e.Specifier, catalog)
	if r.Skip {
		return deps.Query{}, false
	}
	return deps.NewQuery(e.Name, r.Version, r.FromCatalog), true
}
