package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matzehuels/bundlesize/pkg/annotate"
	"github.com/matzehuels/bundlesize/pkg/sizes"
)

func testAnnotations() []annotate.Annotation {
	return []annotate.Annotation{
		{
			Line: 3, Name: "react", Specifier: "catalog:", Query: "react@^18.2.0", FromCatalog: true,
			Label: "6.4kB (gzip 2.6kB)",
			Size:  sizes.Info{Display: "6.4kB (gzip 2.6kB)", Size: 6554, Gzip: 2662},
		},
		{
			Line: 4, Name: "left-pad", Specifier: "1.3.0", Query: "left-pad@1.3.0",
			Label: sizes.ErrorDisplay,
			Size:  sizes.Info{Display: sizes.ErrorDisplay, Failure: "resource not found"},
		},
		{Line: 5, Name: "shared", Specifier: "workspace:*", Skipped: true},
	}
}

func TestAnnotationTable(t *testing.T) {
	out := annotationTable(testAnnotations())

	for _, want := range []string{"Line", "Dependency", "react " + iconCatalog, "catalog:", "6.4kB (gzip 2.6kB)", "left-pad", "error", "workspace:*", iconSkipped} {
		if !strings.Contains(out, want) {
			t.Errorf("table does not contain %q:\n%s", want, out)
		}
	}
	// Lines are displayed 1-based.
	if !strings.Contains(out, "4") || !strings.Contains(out, "6") {
		t.Errorf("table does not show 1-based line numbers:\n%s", out)
	}
}

func TestSummaryLine(t *testing.T) {
	out := summaryLine(testAnnotations())

	for _, want := range []string{"1 sized", "6.4kB (gzip 2.6kB)", "1 failed", "1 skipped"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary %q does not contain %q", out, want)
		}
	}
}

func TestPrintAnnotationsEmpty(t *testing.T) {
	var buf bytes.Buffer
	printAnnotations(&buf, nil)
	if !strings.Contains(buf.String(), "No dependencies found") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestStatsLine(t *testing.T) {
	out := statsLine(sizes.Stats{Sizes: 3, Links: 2, Failures: 1, Limit: 4, Running: 1, Waiting: 5})
	for _, want := range []string{"limit 4", "running 1", "waiting 5", "sizes 3", "links 2", "failures 1"} {
		if !strings.Contains(out, want) {
			t.Errorf("stats line %q does not contain %q", out, want)
		}
	}
}
