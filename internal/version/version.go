// Package version holds build-time version information.
package version

import "fmt"

// Set via -ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
)

// Info returns the full version string.
func Info() string {
	return fmt.Sprintf("cicheck %s (commit %s)", Version, Commit)
}

// Short returns just the version number.
func Short() string {
	return Version
}
