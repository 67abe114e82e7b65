package migration

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// DatabaseManager makes sure the history database exists before it is opened
type DatabaseManager struct {
	driver string
	dsn    string
}

// NewDatabaseManager creates a new DatabaseManager
func NewDatabaseManager(driver, dsn string) *DatabaseManager {
	return &DatabaseManager{driver: driver, dsn: dsn}
}

// EnsureDatabase creates the sqlite file's directory, or the mysql database named in the DSN
func (dm *DatabaseManager) EnsureDatabase(ctx context.Context) error {
	switch dm.driver {
	case "sqlite3":
		path := strings.TrimPrefix(dm.dsn, "file:")
		if i := strings.IndexByte(path, '?'); i >= 0 {
			path = path[:i]
		}
		if path == "" || path == ":memory:" {
			return nil
		}
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return fmt.Errorf("create history dir: %w", err)
		}
		return nil
	case "mysql":
		return dm.ensureMySQLDatabase(ctx)
	default:
		return fmt.Errorf("unsupported history driver %q", dm.driver)
	}
}

func (dm *DatabaseManager) ensureMySQLDatabase(ctx context.Context) error {
	cfg, err := mysql.ParseDSN(dm.dsn)
	if err != nil {
		return fmt.Errorf("parse mysql dsn: %w", err)
	}
	dbName := cfg.DBName
	if dbName == "" {
		return fmt.Errorf("mysql dsn names no database")
	}

	// Connect to the server without selecting the database
	cfg.DBName = ""
	db, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return fmt.Errorf("failed to connect to database server: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database server: %w", err)
	}

	exists, err := dm.databaseExists(ctx, db, dbName)
	if err != nil {
		return fmt.Errorf("failed to check database %s: %w", dbName, err)
	}
	if exists {
		return nil
	}
	if _, err := db.ExecContext(ctx, fmt.Sprintf("CREATE DATABASE `%s`", strings.ReplaceAll(dbName, "`", "``"))); err != nil {
		return fmt.Errorf("failed to create database %s: %w", dbName, err)
	}
	return nil
}

func (dm *DatabaseManager) databaseExists(ctx context.Context, db *sql.DB, dbName string) (bool, error) {
	var name string
	err := db.QueryRowContext(ctx,
		"SELECT SCHEMA_NAME FROM INFORMATION_SCHEMA.SCHEMATA WHERE SCHEMA_NAME = ?", dbName).Scan(&name)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
