// Package migrations embeds the goose SQL migrations of the record API.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
