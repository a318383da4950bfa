// Package migrations holds the contact log schema. The server applies it at
// startup through a goose provider when DATABASE_URL is set.
package migrations

import "embed"

// FS is the set of goose SQL migrations, in version order by file name.
//
//go:embed *.sql
var FS embed.FS
