package assets

import (
	_ "embed"
)

// DefaultRules is the rules file used when none is installed, and the one
// that robotsadmin publishes.
//
//go:embed robots-txt.yaml
var DefaultRules []byte
