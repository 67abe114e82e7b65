package migration

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openSQLite(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestSchemaMigrator_Migrate(t *testing.T) {
	db := openSQLite(t)
	m := NewSchemaMigrator()
	ctx := context.Background()

	require.NoError(t, m.Migrate(ctx, db))
	// A second pass finds nothing to do
	require.NoError(t, m.Migrate(ctx, db))

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&count))
	assert.Equal(t, len(historySteps), count)

	version, err := m.currentVersion(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, m.LatestVersion(), version)

	_, err = db.Exec(`INSERT INTO runs (run_id, started_at, mode, passed, total, duration_ns) VALUES ('r', 't', 'passed', 1, 1, 0)`)
	assert.NoError(t, err)
}

func TestSchemaMigrator_AppliesOnlyNewSteps(t *testing.T) {
	db := openSQLite(t)
	ctx := context.Background()

	first := &SchemaMigrator{steps: historySteps[:1]}
	require.NoError(t, first.Migrate(ctx, db))

	second := &SchemaMigrator{steps: append(append([]step{}, historySteps[:1]...), step{
		version:    historySteps[0].version + 1,
		statements: []string{`CREATE TABLE notes (run_id VARCHAR(26) NOT NULL, body TEXT)`},
	})}
	require.NoError(t, second.Migrate(ctx, db))

	version, err := second.currentVersion(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, historySteps[0].version+1, version)
}

func TestDatabaseManager_EnsureDatabase(t *testing.T) {
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "nested", ".jbcram", "history.db")
	require.NoError(t, NewDatabaseManager("sqlite3", path).EnsureDatabase(ctx))
	assert.DirExists(t, filepath.Dir(path))

	assert.NoError(t, NewDatabaseManager("sqlite3", ":memory:").EnsureDatabase(ctx))
	assert.Error(t, NewDatabaseManager("postgres", "x").EnsureDatabase(ctx))
	assert.Error(t, NewDatabaseManager("mysql", "root@tcp(127.0.0.1:3306)/").EnsureDatabase(ctx))
}
