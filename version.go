package ursjoin

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var version string

// Version exposes the version of the tool.
var Version = strings.TrimSpace(version)
