package jot

import _ "embed"

// Version is the release version of jot.
//
//go:embed VERSION
var Version string
