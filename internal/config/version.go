package config

import "fmt"

const notSet string = "not set"

// these information will be collected when build, by `-ldflags "-X github.com/capcom6/pdf-mover/internal/config.appVersion=0.1"`.
//
//nolint:gochecknoglobals // build metadata
var (
	appVersion = notSet
	buildTime  = notSet
	gitCommit  = notSet
	gitRef     = notSet
)

// Version is the build description shown by --version.
func Version() string {
	return fmt.Sprintf("%s (commit %s, ref %s, built %s)", appVersion, gitCommit, gitRef, buildTime)
}
