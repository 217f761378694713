package javascript

import (
	"bufio"
	"io"
	"strings"

	"github.com/matzehuels/bundlesize/pkg/deps"
)

// Scan extracts dependency declarations from package.json text.
//
// The scan is line-oriented and tolerant rather than a JSON parse: it looks
// for "dependencies" and "*Dependencies" section headers and tracks brace
// depth to find where each section closes. Lines inside a section that are
// not "name": "version" pairs are skipped.
func Scan(text string) []deps.Entry {
	return scanLines(strings.Split(text, "\n"))
}

// ScanReader is like [Scan] but reads the manifest from r.
func ScanReader(r io.Reader) ([]deps.Entry, error) {
	var lines []string
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for s.Scan() {
		lines = append(lines, s.Text())
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return scanLines(lines), nil
}

func scanLines(lines []string) []deps.Entry {
	var (
		entries []deps.Entry
		inside  bool
		depth   int
	)

	for i, line := range lines {
		line = strings.TrimSuffix(line, "\r")

		if !inside {
			if !matchSection(line) {
				continue
			}
			inside = true
			depth = braceDelta(line)
			if depth <= 0 {
				inside, depth = false, 0
			}
			continue
		}

		depth += braceDelta(line)
		if depth <= 0 {
			inside, depth = false, 0
			continue
		}

		if name, spec, ok := matchDependency(line); ok {
			entries = append(entries, deps.Entry{Name: name, Specifier: spec, Line: i})
		}
	}
	return entries
}

func braceDelta(line string) int {
	return strings.Count(line, "{") - strings.Count(line, "}")
}
