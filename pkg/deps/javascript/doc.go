// Package javascript scans package.json manifests and resolves their version
// specifiers, including pnpm workspace and catalog protocols.
//
// # Scanning
//
// [Scan] is a tolerant, line-oriented reader. It does not parse JSON; it
// recognizes "dependencies" and "*Dependencies" section headers and
// "name": "version" lines, tracking brace depth to find where a section
// ends. The line numbers it reports are what annotation sinks key on.
//
//	entries := javascript.Scan(text)
//
// # Catalogs
//
// pnpm monorepos declare a default catalog in pnpm-workspace.yaml and may
// extend it in package.json ("catalog", "pnpm.catalog",
// "pnpm.catalogs.default"). [CatalogLoader] merges both sources per
// workspace root and caches the result:
//
//	loader := javascript.NewCatalogLoader(nil, nil)
//	catalog := loader.Load(javascript.FindWorkspaceRoot(dir))
//
// # Resolution
//
// [Resolve] maps a specifier to a concrete version:
//
//   - "workspace:*" and other workspace links are skipped
//   - "catalog:" and "catalog:." use the default catalog, skipping misses
//   - named catalogs ("catalog:legacy") are skipped
//   - anything else is used verbatim
//
// Registry range resolution is out of scope: "^18.3.1" is passed to the size
// service as written.
package javascript
