package errors

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/matzehuels/bundlesize/pkg/deps"
)

// ValidatePackageName rejects names that are empty, overlong, or contain
// control characters or path traversal sequences.
func ValidatePackageName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPackage, "package name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidPackage, "package name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPackage, "package name contains invalid control characters")
		}
	}

	for _, pattern := range []string{"..", "//", "\\"} {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidPackage, "package name contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// npmPackageNameRegex matches valid npm package names.
var npmPackageNameRegex = regexp.MustCompile(`^(@[a-z0-9-~][a-z0-9-._~]*/)?[a-z0-9-~][a-z0-9-._~]*$`)

// ValidateNpmPackageName validates an npm package name.
func ValidateNpmPackageName(name string) error {
	if err := ValidatePackageName(name); err != nil {
		return err
	}

	if strings.ToLower(name) != name {
		return New(ErrCodeInvalidPackage, "npm package names must be lowercase: %q", name)
	}

	if !npmPackageNameRegex.MatchString(name) {
		return New(ErrCodeInvalidPackage, "invalid npm package name: %q", name)
	}

	return nil
}

// ValidateQuery validates a "name@version" lookup key.
func ValidateQuery(query string) error {
	name, version, ok := deps.SplitQuery(query)
	if !ok || strings.TrimSpace(version) == "" {
		return New(ErrCodeInvalidQuery, "expected name@version, got %q", query)
	}
	if err := ValidateNpmPackageName(name); err != nil {
		return Wrap(ErrCodeInvalidQuery, err, "invalid query %q", query)
	}
	for _, r := range version {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidQuery, "version contains invalid control characters")
		}
	}
	return nil
}

// ValidateURL ensures rawURL uses the http or https scheme.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
