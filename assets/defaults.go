// Package assets embeds files shipped inside the guruji binary.
package assets

import (
	_ "embed"
)

// DefaultConfigYAML contains the embedded default configuration written on first run.
//
//go:embed defaults/config.yaml
var DefaultConfigYAML []byte
