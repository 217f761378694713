package javascript

import (
	"regexp"
	"strings"
)

var (
	semverRe  = regexp.MustCompile(`\d+\.\d+\.\d+(-[\w.-]+)?`)
	sectionRe = regexp.MustCompile(`^\s*"(dependencies|[A-Za-z]+Dependencies)"\s*:\s*\{?`)
	depLineRe = regexp.MustCompile(`^\s*"([^"]+)"\s*:\s*"([^"]+)"`)
)

// MatchSemver returns the first semantic version embedded in text.
func MatchSemver(text string) (string, bool) {
	m := semverRe.FindString(text)
	return m, m != ""
}

// PinnedVersion reduces a raw specifier to a concrete version for display
// and linking. Specifiers without a semver pass through with at most one
// leading range operator removed, so "workspace:*" is returned unchanged.
func PinnedVersion(raw string) string {
	if v, ok := MatchSemver(raw); ok {
		return v
	}
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "~") || strings.HasPrefix(s, "^") {
		s = s[1:]
	}
	return strings.TrimSpace(s)
}

func matchSection(line string) bool {
	return sectionRe.MatchString(line)
}

func matchDependency(line string) (name, spec string, ok bool) {
	m := depLineRe.FindStringSubmatch(line)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}
