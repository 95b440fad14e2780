// Package version carries build metadata injected at link time:
// go build -ldflags "-X git.home.luguber.info/inful/mdxcheck/internal/version.Version=v1.2.0".
package version

import "fmt"

// Version is the release version.
var Version = "unknown"

// BuildInfo contains additional build metadata.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String renders the version line printed by `mdxcheck --version`.
func String() string {
	if GitCommit == "unknown" && BuildTime == "unknown" {
		return "mdxcheck " + Version
	}
	return fmt.Sprintf("mdxcheck %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
