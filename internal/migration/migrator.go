package migration

import (
	"context"
	"database/sql"
)

// Migrator brings a history database schema up to date
type Migrator interface {
	Migrate(ctx context.Context, db *sql.DB) error
}
