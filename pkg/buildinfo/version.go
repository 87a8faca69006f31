// Package buildinfo holds the release stamped into a tdvisu binary.
//
// Besides the --version output it names the render cache scope: frames
// laid out by one release are never served to another, since label
// markup and highlight colors change between releases.
//
// Release builds set the variables with ldflags:
//
//	-X github.com/matzehuels/tdvisu/pkg/buildinfo.Version=v0.4.0
//	-X github.com/matzehuels/tdvisu/pkg/buildinfo.Commit=$(git rev-parse HEAD)
//	-X github.com/matzehuels/tdvisu/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)
package buildinfo

import "fmt"

// Stamped at link time; the defaults mark a development build.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func shortCommit() string {
	if len(Commit) > 7 {
		return Commit[:7]
	}
	return Commit
}

// Short returns the version with an abbreviated commit, e.g. "v1.2.0 (3f2a9c1)".
func Short() string {
	return fmt.Sprintf("%s (%s)", Version, shortCommit())
}

// CacheScope returns the key prefix of cached renders, e.g. "v1.2.0+3f2a9c1:".
// Development builds include the commit so that rebuilding from another
// revision starts from an empty scope.
func CacheScope() string {
	return Version + "+" + shortCommit() + ":"
}

// String returns the build information, one field per line.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template returns the cobra version template.
func Template() string {
	return "{{.Name}} version " + Version + "\ncommit: " + Commit + "\nbuilt: " + Date + "\n"
}
