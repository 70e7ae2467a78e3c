// Package migrations embebe las migraciones SQL de Postgres (formato goose).
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
