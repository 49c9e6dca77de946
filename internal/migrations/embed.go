// Package migrations embeds the schema for every supported store.
// Each dialect lives in its own directory; every file holds one statement.
package migrations

import "embed"

//go:embed postgres/*.sql mysql/*.sql sqlite/*.sql
var Files embed.FS
