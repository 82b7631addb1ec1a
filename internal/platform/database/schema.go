// Package database opens the relational stores backing the service and makes
// sure their tables exist before the first request is served.
package database

import (
	_ "embed"
)

// Schemas only create missing objects; they never alter existing ones.

//go:embed schema/postgres.sql
var postgresSchema string

//go:embed schema/sqlite.sql
var sqliteSchema string
