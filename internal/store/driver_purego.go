//go:build !cgo_sqlite

package store

// Built by default: a pure Go SQLite implementation, no C compiler needed.
//
//	CGO_ENABLED=0 go build ./...

import (
	_ "modernc.org/sqlite"
)

const (
	// SQLiteDriverName is the database/sql driver used by SQLiteStore.
	SQLiteDriverName = "sqlite"

	// SQLiteBuildMode describes the current build configuration.
	SQLiteBuildMode = "purego"
)
