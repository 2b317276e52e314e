// Package migrations embeds the SQL schema migrations for every supported
// history store backend.
package migrations

import "embed"

// FS holds one directory of migrations per backend: postgres/ and sqlite/.
//
//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS
