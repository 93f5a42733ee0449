// Package migrations embebe los archivos SQL del esquema, en orden por nombre.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
