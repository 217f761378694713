// Package annotate turns a package.json into per-line size annotations.
//
// A pass scans the manifest text, loads the default catalog of the
// workspace root, resolves each declaration to a "name@version" query and
// looks up sizes and links through a [Lookup] (normally a
// [sizes.Coordinator]). Results are keyed by source line and returned in
// line order regardless of completion order.
//
// Front ends receive passes through a [Sink]. [Debouncer] coalesces rapid
// change events so a burst of edits produces one pass.
//
// [sizes.Coordinator]: github.com/matzehuels/bundlesize/pkg/sizes.Coordinator
package annotate
