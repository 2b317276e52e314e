// Package views embeds the HTML templates rendered by the server.
package views

import "embed"

// FS holds the page templates.
//
//go:embed *.html
var FS embed.FS
