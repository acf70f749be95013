// Package migrations embeds the SQL migrations of the urls schema.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
