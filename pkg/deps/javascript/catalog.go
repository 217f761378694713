package javascript

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/matzehuels/bundlesize/pkg/deps"
)

var catalogKeyRe = regexp.MustCompile(`^\s*catalog\s*:\s*$`)

// ParseWorkspaceCatalog reads the default catalog from pnpm-workspace.yaml
// text. Only the top-level "catalog:" block is read; named catalogs are
// ignored. Malformed lines are skipped, so the result may be partial.
func ParseWorkspaceCatalog(text string) deps.Catalog {
	catalog := deps.Catalog{}
	indent := -1

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimRight(stripComment(raw), " \t\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		if indent < 0 {
			if catalogKeyRe.MatchString(line) {
				indent = indentOf(line)
			}
			continue
		}

		if indentOf(line) <= indent {
			break
		}
		if k, v, ok := splitCatalogLine(line); ok {
			catalog[k] = v
		}
	}
	return catalog
}

// ParseManifestCatalog reads catalog entries embedded in a decoded
// package.json. Later sources win: top-level "catalog", then
// "pnpm.catalog", then "pnpm.catalogs.default". Non-string values are
// ignored.
func ParseManifestCatalog(manifest map[string]any) deps.Catalog {
	catalog := deps.Catalog{}
	copyStrings(catalog, manifest["catalog"])

	pnpm, _ := manifest["pnpm"].(map[string]any)
	if pnpm == nil {
		return catalog
	}
	copyStrings(catalog, pnpm["catalog"])
	if catalogs, ok := pnpm["catalogs"].(map[string]any); ok {
		copyStrings(catalog, catalogs["default"])
	}
	return catalog
}

// ParseManifestCatalogText decodes package.json text and delegates to
// [ParseManifestCatalog]. Text that is not a JSON object yields an empty
// catalog.
func ParseManifestCatalogText(text string) deps.Catalog {
	var manifest map[string]any
	if err := json.Unmarshal([]byte(text), &manifest); err != nil {
		return deps.Catalog{}
	}
	return ParseManifestCatalog(manifest)
}

// MergeCatalogs combines the workspace-file catalog with the manifest
// catalog. Manifest entries win on conflict.
func MergeCatalogs(workspace, manifest deps.Catalog) deps.Catalog {
	return workspace.Merge(manifest)
}

func copyStrings(dst deps.Catalog, v any) {
	m, ok := v.(map[string]any)
	if !ok {
		return
	}
	for k, val := range m {
		if s, ok := val.(string); ok {
			dst[k] = s
		}
	}
}

func splitCatalogLine(line string) (key, value string, ok bool) {
	s := strings.TrimSpace(line)

	if q := s[0]; q == '"' || q == '\'' {
		end := strings.IndexByte(s[1:], q)
		if end < 0 {
			return "", "", false
		}
		key = s[1 : end+1]
		rest := strings.TrimSpace(s[end+2:])
		if !strings.HasPrefix(rest, ":") {
			return "", "", false
		}
		value = rest[1:]
	} else {
		i := strings.IndexByte(s, ':')
		if i < 0 {
			return "", "", false
		}
		key, value = strings.TrimSpace(s[:i]), s[i+1:]
	}

	value = unquote(strings.TrimSpace(value))
	if key == "" || value == "" {
		return "", "", false
	}
	return key, value, true
}

func unquote(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// stripComment drops a trailing "#" comment. A "#" inside quotes is kept.
func stripComment(line string) string {
	var quote byte
	for i := 0; i < len(line); i++ {
		switch c := line[i]; {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '#':
			return line[:i]
		}
	}
	return line
}

func indentOf(line string) int {
	return len(line) - len(strings.TrimLeft(line, " \t"))
}
