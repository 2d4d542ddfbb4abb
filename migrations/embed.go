// Package migrations embeds the SQL migration files so they can be used
// by the goose programmatic API at server startup and in tests.
package migrations

import (
	"embed"
	"io/fs"
)

//go:embed postgres/*.sql sqlite/*.sql
var files embed.FS

// Postgres holds the *.sql migrations for the Postgres document store.
// Pass this to goose.NewProvider instead of relying on a filesystem path
// at runtime.
var Postgres = mustSub("postgres")

// SQLite holds the *.sql migrations for the embedded SQLite store.
var SQLite = mustSub("sqlite")

func mustSub(dir string) fs.FS {
	sub, err := fs.Sub(files, dir)
	if err != nil {
		panic("migrations: " + err.Error())
	}
	return sub
}
