// Package version holds build metadata stamped in with -ldflags.
package version

import "fmt"

var (
	// Version is the release tag, "dev" for local builds
	Version = "dev"
	// Commit is the git commit hash
	Commit = "dev"
	// BuildTime is the build timestamp
	BuildTime = "unknown"
)

// Info is the build metadata of one service
type Info struct {
	Service   string `json:"service"`
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
}

// Get returns the build metadata for service
func Get(service string) Info {
	return Info{Service: service, Version: Version, Commit: Commit, BuildTime: BuildTime}
}

// String renders the metadata on one line for CLI output
func (i Info) String() string {
	return fmt.Sprintf("%s %s (commit %s, built %s)", i.Service, i.Version, i.Commit, i.BuildTime)
}
