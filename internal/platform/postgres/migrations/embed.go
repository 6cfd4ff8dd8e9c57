// Package migrations embeds the goose SQL migrations for the standup schema.
package migrations

import "embed"

// FS holds every *.sql migration, named NNNNN_description.sql.
//
//go:embed *.sql
var FS embed.FS

// Dir is the directory inside FS that goose reads from.
const Dir = "."
