package configs

import (
	"embed"
)

// FS provides embedded scenario YAMLs for external usage.
//
//go:embed *.yaml
var FS embed.FS
