package version

import (
	_ "embed"
)

//go:embed VERSION
var Version string

// Get returns the build version of tripdesk.
func Get() string {
	return Version
}
