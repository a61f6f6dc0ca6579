// Package version holds build metadata injected via ldflags.
package version

import "fmt"

//nolint:revive // Set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// UserAgent returns the provider User-Agent for this build, e.g. "wbindicators/1.2.0 (abc123)".
func UserAgent(product string) string {
	return fmt.Sprintf("%s/%s (%s)", product, Version, Commit)
}
