// Package migrations embebe el esquema SQL versionado (formato goose).
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
