package web

import "embed"

// FS holds the page templates and static assets served by the calculator.
//
//go:embed templates static
var FS embed.FS
