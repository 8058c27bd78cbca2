package templates

import "embed"

//go:embed page/*.tmpl
var FS embed.FS
