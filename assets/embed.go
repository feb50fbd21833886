// Package assets embeds the SQL migrations shipped with the play server.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed sql/*.sql
var files embed.FS

// Migrations returns the migration scripts rooted at the sql directory.
func Migrations() fs.FS {
	sub, err := fs.Sub(files, "sql")
	if err != nil {
		panic(err) // the directory is embedded at build time
	}
	return sub
}
