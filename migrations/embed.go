// Package migrations embeds the SQL schema migrations
package migrations

import "embed"

// FS holds every migration file, applied in name order
//
//go:embed *.sql
var FS embed.FS
