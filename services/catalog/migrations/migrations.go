// Package migrations embeds the catalog service SQL migration files.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
