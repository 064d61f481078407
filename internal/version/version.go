// Package version provides build-time version information for bibweb.
package version

import "fmt"

// These variables are set at build time via ldflags.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Template returns the cobra version template for the bibweb binary.
func Template() string {
	return fmt.Sprintf("bibweb version {{.Version}} (commit: %s, built: %s)\n", Commit, Date)
}
