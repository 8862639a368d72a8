// Package migrations embeds the SQL schema for each supported backend.
package migrations

import (
	"embed"
	"io/fs"
)

//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS

// SQLite returns the sqlite migration directory.
func SQLite() (fs.FS, error) {
	return fs.Sub(FS, "sqlite")
}

// Postgres returns the postgres migration directory.
func Postgres() (fs.FS, error) {
	return fs.Sub(FS, "postgres")
}
