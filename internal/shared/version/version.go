// Package version reports the build version of the binary.
package version

import (
	"strings"

	"golang.org/x/mod/semver"
)

// Version is set at build time with
// -ldflags "-X github.com/quotakeeper/quotakeeper/internal/shared/version.Version=1.2.3".
var Version = "dev"

// Normalize ensures version string has "v" prefix for semver compatibility.
// Examples: "1.2.3" -> "v1.2.3", "v1.2.3" -> "v1.2.3"
func Normalize(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	if !strings.HasPrefix(v, "v") {
		return "v" + v
	}
	return v
}

// Current returns the canonical semver of the build, or the raw value for
// non-release builds such as "dev".
func Current() string {
	if normalized := Normalize(Version); semver.IsValid(normalized) {
		return semver.Canonical(normalized)
	}
	return Version
}
