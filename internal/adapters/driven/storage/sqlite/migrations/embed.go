// Package migrations embeds the course store's schema migrations.
// Files are named NNN_description.up.sql and applied in version order.
package migrations

import "embed"

// FS holds the migration files compiled into the binary.
//
//go:embed *.sql
var FS embed.FS
