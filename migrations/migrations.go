// Package migrations embeds the per-dialect schema files applied by db.MigrateUp.
package migrations

import "embed"

// SQLite schema, applied in filename order.
//
//go:embed sqlite/*.sql
var SqliteMigrations embed.FS

// PostgreSQL schema, applied in filename order.
//
//go:embed postgres/*.sql
var PostgresMigrations embed.FS
