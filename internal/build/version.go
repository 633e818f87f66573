// Package build provides version and build information for ai-changelog.
// This package intentionally has no dependencies on other internal packages
// to avoid import cycles.
package build

import (
	"fmt"
	"runtime"
)

var (
	// Version information - set via ldflags during build
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// IsDevBuild returns true if running a development build (not a release).
func IsDevBuild() bool {
	return Version == "dev"
}

// Info returns the build metadata as ordered key/value pairs.
func Info() [][2]string {
	return [][2]string{
		{"version", Version},
		{"commit", Commit},
		{"built", BuildDate},
		{"go", runtime.Version()},
		{"platform", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)},
	}
}
