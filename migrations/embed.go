// Package migrations embeds SQL migration files.
package migrations

import "embed"

// FS contains the account schema migrations for every SQL driver.
//
//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS

// Directories within FS, one per driver.
const (
	PostgresDir = "postgres"
	SQLiteDir   = "sqlite"
)
