// Package version holds build metadata injected with -ldflags -X.
package version

import (
	"fmt"
	"runtime/debug"
)

const unknown = "unknown"

// Build metadata. Release builds set these through -ldflags.
var (
	Version = "dev"
	Commit  = unknown
	Date    = unknown
)

// InitBinaryVersion fills Commit and Date from the embedded VCS build
// information when they were not set at link time.
func InitBinaryVersion() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	if Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}

	for _, s := range info.Settings {
		switch {
		case s.Key == "vcs.revision" && Commit == unknown:
			Commit = s.Value
		case s.Key == "vcs.time" && Date == unknown:
			Date = s.Value
		}
	}
}

// String formats the metadata for display.
func String() string {
	return fmt.Sprintf("recordstore %s (commit: %s, built: %s)", Version, Commit, Date)
}
