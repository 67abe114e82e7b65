package migration

import (
	"context"
	"database/sql"
	"fmt"
)

// step is one schema change. Statements are kept to types both sqlite3 and mysql accept.
type step struct {
	version    int
	statements []string
}

var historySteps = []step{
	{
		version: 1,
		statements: []string{
			`CREATE TABLE IF NOT EXISTS runs (
				run_id      VARCHAR(26) NOT NULL PRIMARY KEY,
				started_at  VARCHAR(40) NOT NULL,
				mode        VARCHAR(16) NOT NULL,
				passed      INT NOT NULL,
				total       INT NOT NULL,
				duration_ns BIGINT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS results (
				run_id      VARCHAR(26) NOT NULL,
				test_name   VARCHAR(255) NOT NULL,
				allocator   VARCHAR(32) NOT NULL,
				status      VARCHAR(32) NOT NULL,
				duration_ns BIGINT NOT NULL,
				PRIMARY KEY (run_id, test_name)
			)`,
		},
	},
}

// SchemaMigrator applies the history schema steps not yet recorded in schema_migrations
type SchemaMigrator struct {
	steps []step
}

// NewSchemaMigrator creates a migrator for the run history schema
func NewSchemaMigrator() *SchemaMigrator {
	return &SchemaMigrator{steps: historySteps}
}

// LatestVersion returns the version the schema ends up at
func (m *SchemaMigrator) LatestVersion() int {
	if len(m.steps) == 0 {
		return 0
	}
	return m.steps[len(m.steps)-1].version
}

// Migrate runs pending steps in order, recording each one
func (m *SchemaMigrator) Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx,
		`CREATE TABLE IF NOT EXISTS schema_migrations (version INT NOT NULL PRIMARY KEY)`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	current, err := m.currentVersion(ctx, db)
	if err != nil {
		return err
	}

	for _, s := range m.steps {
		if s.version <= current {
			continue
		}
		for _, stmt := range s.statements {
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("migration %d: %w", s.version, err)
			}
		}
		if _, err := db.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES (?)`, s.version); err != nil {
			return fmt.Errorf("record migration %d: %w", s.version, err)
		}
	}
	return nil
}

func (m *SchemaMigrator) currentVersion(ctx context.Context, db *sql.DB) (int, error) {
	var version sql.NullInt64
	if err := db.QueryRowContext(ctx, `SELECT MAX(version) FROM schema_migrations`).Scan(&version); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return int(version.Int64), nil
}
