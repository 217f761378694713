package annotate

import (
	"fmt"
	"strings"

	"github.com/matzehuels/bundlesize/pkg/deps"
	"github.com/matzehuels/bundlesize/pkg/format"
	"github.com/matzehuels/bundlesize/pkg/integrations/bundlephobia"
	"github.com/matzehuels/bundlesize/pkg/sizes"
)

// Tooltip renders the markdown hover text for a resolved dependency.
func Tooltip(q deps.Query, info sizes.Info, links sizes.Links) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**%s**", q.Package)
	if q.FromCatalog {
		b.WriteString(" (from catalog)")
	}
	b.WriteString("\n\n")

	if info.Failed() {
		b.WriteString("Size: unavailable\n")
	} else {
		fmt.Fprintf(&b, "Minified: %s\n", format.Bytes(info.Size))
		fmt.Fprintf(&b, "Gzipped: %s\n", format.Bytes(info.Gzip))
		if info.DependencyCount != nil {
			fmt.Fprintf(&b, "Dependencies: %d\n", *info.DependencyCount)
		}
		b.WriteString("\n")
		for _, p := range format.Profiles {
			fmt.Fprintf(&b, "Download on %s: %s\n", p.Name, format.Duration(format.TransferTime(info.Gzip, p)))
		}
	}

	b.WriteString("\n")
	var refs []string
	if links.NpmURL != "" {
		refs = append(refs, fmt.Sprintf("[npm](%s)", links.NpmURL))
	}
	refs = append(refs, fmt.Sprintf("[bundlephobia](%s)", bundlephobia.PageURL(q.Package)))
	if links.GithubURL != "" {
		refs = append(refs, fmt.Sprintf("[%s](%s)", repoLabel(links.GithubURL), links.GithubURL))
	}
	b.WriteString(strings.Join(refs, " | "))
	return b.String()
}

func repoLabel(u string) string {
	if strings.HasPrefix(u, "https://github.com/") {
		return "GitHub"
	}
	return "Repository"
}
