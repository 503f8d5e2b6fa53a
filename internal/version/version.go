// Package version holds build-time version information.
package version

import "fmt"

// These are set via -ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
)

// Info returns a human-readable version string.
func Info() string {
	return fmt.Sprintf("interviewd %s (%s)", Version, Commit)
}
