// Package migrations embeds the goose SQL migrations for the ordering API
// schema.
package migrations

import "embed"

// Files holds the embedded *.sql migration files.
//
//go:embed *.sql
var Files embed.FS
