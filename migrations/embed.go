// Package migrations embeds the schema for every supported dialect. Each
// dialect lives in its own directory named after store.Dialect.
package migrations

import "embed"

//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS
