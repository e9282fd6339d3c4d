// Package version exposes build metadata for the codeshare binary.
package version

import (
	"fmt"
	"runtime"
)

// Stamped at release time via -ldflags, e.g.
// -X 'codeshare/pkg/version.Version=v1.2.3'. Development builds keep the
// placeholder values.
var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)

// Info is a snapshot of the metadata baked into the binary, combined with
// the Go runtime it runs on.
type Info struct {
	Version   string
	GitCommit string
	BuildTime string
	GoVersion string
	Platform  string
}

// Get returns the metadata for the running binary.
func Get() Info {
	return Info{
		Version:   Version,
		GitCommit: Commit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// String renders the metadata as one line for the version subcommand.
func (i Info) String() string {
	return fmt.Sprintf(
		"codeshare version %s (commit: %s) built at %s with %s on %s",
		i.Version,
		i.GitCommit,
		i.BuildTime,
		i.GoVersion,
		i.Platform,
	)
}
