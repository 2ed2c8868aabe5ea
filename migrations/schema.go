package migrations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// SchemaCheck describes a table and the columns it must expose.
type SchemaCheck struct {
	Table   string
	Columns []string
}

// DefaultSchemaChecks lists the columns the Bun state store reads and writes.
var DefaultSchemaChecks = []SchemaCheck{
	{
		Table:   "tableview_state",
		Columns: []string{"id", "key", "value", "version", "created_at", "updated_at"},
	},
}

// SchemaOption customizes schema validation.
type SchemaOption func(*schemaConfig)

type schemaConfig struct {
	checks []SchemaCheck
}

// WithSchemaChecks replaces the default checks.
func WithSchemaChecks(checks []SchemaCheck) SchemaOption {
	return func(cfg *schemaConfig) {
		cfg.checks = checks
	}
}

// SchemaValidationError summarizes missing tables and columns.
type SchemaValidationError struct {
	MissingTables  []string
	MissingColumns map[string][]string
}

func (e *SchemaValidationError) Error() string {
	if e == nil {
		return ""
	}
	parts := make([]string, 0, 2)
	if len(e.MissingTables) > 0 {
		parts = append(parts, "missing tables: "+strings.Join(e.MissingTables, ", "))
	}
	if len(e.MissingColumns) > 0 {
		tables := make([]string, 0, len(e.MissingColumns))
		for table := range e.MissingColumns {
			tables = append(tables, table)
		}
		sort.Strings(tables)
		cols := make([]string, 0, len(tables))
		for _, table := range tables {
			missing := e.MissingColumns[table]
			sort.Strings(missing)
			cols = append(cols, fmt.Sprintf("%s(%s)", table, strings.Join(missing, ", ")))
		}
		parts = append(parts, "missing columns: "+strings.Join(cols, "; "))
	}
	if len(parts) == 0 {
		return "tableview schema validation failed"
	}
	return "tableview schema validation failed: " + strings.Join(parts, "; ")
}

// ValidateSchema checks that the state tables exist with the expected
// columns. Supported dialects are postgres and sqlite.
func ValidateSchema(ctx context.Context, db *sql.DB, dialect string, opts ...SchemaOption) error {
	if db == nil {
		return errors.New("migrations: db required")
	}
	normalized, err := normalizeDialect(dialect)
	if err != nil {
		return err
	}

	cfg := schemaConfig{checks: DefaultSchemaChecks}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	var missingTables []string
	missingColumns := make(map[string][]string)
	for _, check := range cfg.checks {
		if strings.TrimSpace(check.Table) == "" {
			continue
		}
		cols, err := fetchColumns(ctx, db, normalized, check.Table)
		if err != nil {
			return err
		}
		if len(cols) == 0 {
			missingTables = append(missingTables, check.Table)
			continue
		}
		for _, col := range check.Columns {
			col = strings.ToLower(strings.TrimSpace(col))
			if col != "" && !cols[col] {
				missingColumns[check.Table] = append(missingColumns[check.Table], col)
			}
		}
	}
	if len(missingTables) == 0 && len(missingColumns) == 0 {
		return nil
	}
	sort.Strings(missingTables)
	return &SchemaValidationError{MissingTables: missingTables, MissingColumns: missingColumns}
}

func normalizeDialect(dialect string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(dialect)) {
	case "postgres", "postgresql", "pg":
		return "postgres", nil
	case "sqlite", "sqlite3":
		return "sqlite", nil
	}
	return "", fmt.Errorf("migrations: unsupported dialect %q", dialect)
}

func fetchColumns(ctx context.Context, db *sql.DB, dialect, table string) (map[string]bool, error) {
	if dialect == "postgres" {
		return queryColumns(ctx, db, `
			SELECT column_name
			FROM information_schema.columns
			WHERE table_schema = 'public' AND table_name = $1
		`, table)
	}
	rows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols := make(map[string]bool)
	for rows.Next() {
		var (
			cid        int
			name       string
			colType    string
			notNull    int
			defaultV   sql.NullString
			primaryKey int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &defaultV, &primaryKey); err != nil {
			return nil, err
		}
		cols[strings.ToLower(name)] = true
	}
	return cols, rows.Err()
}

func queryColumns(ctx context.Context, db *sql.DB, query string, args ...any) (map[string]bool, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		cols[strings.ToLower(name)] = true
	}
	return cols, rows.Err()
}
