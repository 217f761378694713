package javascript

import "testing"

func TestPinnedVersion(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"^1.2.3", "1.2.3"},
		{"~1.2.3", "1.2.3"},
		{">=1.2.3 <2.0.0", "1.2.3"},
		{"1.0.0-beta.1", "1.0.0-beta.1"},
		{"npm:other@2.1.0", "2.1.0"},
		{"workspace:*", "workspace:*"},
		{"catalog:", "catalog:"},
		{" ^latest ", "latest"},
		{"^^next", "^next"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := PinnedVersion(tt.raw); got != tt.want {
				t.Errorf("PinnedVersion(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestMatchSemver(t *testing.T) {
	if v, ok := MatchSemver("version 10.20.30-rc.1+build"); !ok || v != "10.20.30-rc.1" {
		t.Errorf("MatchSemver() = %q, %v", v, ok)
	}
	if _, ok := MatchSemver("1.2"); ok {
		t.Error("MatchSemver(\"1.2\") should not match")
	}
}

func TestMatchSection(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{`  "dependencies": {`, true},
		{`"devDependencies":{`, true},
		{`  "peerDependencies": {`, true},
		{`  "optionalDependencies":`, true},
		{`  "scripts": {`, false},
		{`  "bundleDependencies2": {`, false},
		{`  dependencies: {`, false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			if got := matchSection(tt.line); got != tt.want {
				t.Errorf("matchSection(%q) = %v, want %v", tt.line, got, tt.want)
			}
		})
	}
}

func TestMatchDependency(t *testing.T) {
	name, spec, ok := matchDependency(`    "@types/node": "^20.0.0",`)
	if !ok || name != "@types/node" || spec != "^20.0.0" {
		t.Errorf("matchDependency() = %q, %q, %v", name, spec, ok)
	}
	if _, _, ok := matchDependency(`    "nested": {`); ok {
		t.Error("object value should not match")
	}
}
