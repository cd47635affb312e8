// Package util holds build information shared by the command and plugins.
package util

import (
	"log"

	"github.com/blang/semver"
)

var (
	// Version is the current version of tabform, set by the build.
	Version = "0.1.0-dev"
	// CommitHash is the commit this binary was built from.
	CommitHash = "Unknown"
	// CompileDate is the date this binary was compiled on.
	CompileDate = "Unknown"
	// Debug logs debug messages to log.txt when "ON".
	Debug = "OFF"

	// SemVersion is Version parsed as a semantic version.
	SemVersion semver.Version
)

func init() {
	var err error
	SemVersion, err = semver.Make(Version)
	if err != nil {
		log.Println("Invalid version: ", Version, err)
		SemVersion = semver.MustParse("0.0.0-unknown")
	}
}
