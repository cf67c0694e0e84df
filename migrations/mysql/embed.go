// Package mysql embeds the SQL migrations for MySQL databases.
package mysql

import "embed"

// FS contains the forward migrations, applied in file name order.
//
//go:embed *.sql
var FS embed.FS
