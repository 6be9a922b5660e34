// Package migrations embeds the SQL schema files so the service can apply
// them at startup without shipping them separately.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
