// Package migrations embeds the goose migration files so the server
// binary can bring the schema up without shipping loose SQL files.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
