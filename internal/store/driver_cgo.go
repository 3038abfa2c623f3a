//go:build cgo_sqlite

package store

// Built with the cgo_sqlite tag: links the C SQLite library through
// mattn/go-sqlite3.
//
//	CGO_ENABLED=1 go build -tags cgo_sqlite ./...

import (
	_ "github.com/mattn/go-sqlite3"
)

const (
	// SQLiteDriverName is the database/sql driver used by SQLiteStore.
	SQLiteDriverName = "sqlite3"

	// SQLiteBuildMode describes the current build configuration.
	SQLiteBuildMode = "cgo"
)
