// Package version exposes build information set through -ldflags, for example:
//
//	go build -ldflags "-X github.com/rshade/holdview/pkg/version.version=v1.2.0"
package version

import "fmt"

//nolint:gochecknoglobals // Set at link time.
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

// GetVersion returns the release version, "dev" for local builds.
func GetVersion() string {
	return version
}

// GetGitCommit returns the commit the binary was built from.
func GetGitCommit() string {
	return gitCommit
}

// GetBuildDate returns the build timestamp.
func GetBuildDate() string {
	return buildDate
}

// UserAgent returns the User-Agent sent with holdings requests.
func UserAgent() string {
	return "holdview/" + version
}

// Info returns a one-line summary for --version output.
func Info() string {
	return fmt.Sprintf("%s (commit %s, built %s)", version, gitCommit, buildDate)
}
