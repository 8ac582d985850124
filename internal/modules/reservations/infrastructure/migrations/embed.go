package migrations

import (
	"embed"
	"io/fs"
)

//go:embed sqlite/*.sql postgres/*.sql
var files embed.FS

// SQLite returns the migrations for the SQLite store.
func SQLite() fs.FS {
	sub, _ := fs.Sub(files, "sqlite")
	return sub
}

// Postgres returns the migrations for the Postgres store.
func Postgres() fs.FS {
	sub, _ := fs.Sub(files, "postgres")
	return sub
}
