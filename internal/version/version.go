// Package version carries build metadata injected with -ldflags.
package version

import "fmt"

var (
	AppVersion = "dev"
	Commit     = "unknown"
	BuildDate  = "unknown"
)

func String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", AppVersion, Commit, BuildDate)
}
