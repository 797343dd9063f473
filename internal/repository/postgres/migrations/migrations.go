// Package migrations embeds the schema migrations for the remote
// mirror database.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
