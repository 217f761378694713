// Package deps defines the data model shared by the bundlesize pipeline.
//
// # Overview
//
// A manifest scan yields [Entry] values (name, raw specifier, line). Each
// entry is resolved against the workspace [Catalog] into a [Resolution],
// and kept entries become a [Query] whose Package field ("name@version")
// is the key used by the size service and the caches.
//
// Language-specific scanning and resolution live in subpackages:
//
//   - [javascript]: package.json scanning and pnpm catalog resolution
//
// [javascript]: github.com/matzehuels/bundlesize/pkg/deps/javascript
package deps
