// Package migrations embeds the versioned schema files applied at startup.
package migrations

import "embed"

// SQLite holds the golang-migrate files for the SQLite store, rooted at "sqlite".
//
//go:embed sqlite/*.sql
var SQLite embed.FS

// SQLiteDir is the directory inside SQLite that holds the migration files.
const SQLiteDir = "sqlite"
