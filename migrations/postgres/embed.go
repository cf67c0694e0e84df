// Package postgres embeds the SQL migrations for PostgreSQL databases.
package postgres

import "embed"

// FS contains the forward migrations, applied in file name order.
//
//go:embed *.sql
var FS embed.FS
