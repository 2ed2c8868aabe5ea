package tableview

import "embed"

// MigrationsFS contains the SQL migrations of the persisted view state.
//
// Root files (data/sql/migrations/*.sql) target PostgreSQL; SQLite overrides
// live in data/sql/migrations/sqlite.
//
//go:embed data/sql/migrations
var MigrationsFS embed.FS

// GetMigrationsFS exposes the migration files so host applications can hand
// them to their migration runner.
func GetMigrationsFS() embed.FS {
	return MigrationsFS
}
