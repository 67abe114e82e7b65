package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"jbcram/internal/domain"
)

// Environment variables recognised on top of the config file
const (
	EnvBuildCommand   = "JBCRAM_BUILD_COMMAND"
	EnvAllocator      = "JBCRAM_ALLOCATOR"
	EnvHistoryDriver  = "JBCRAM_HISTORY_DRIVER"
	EnvHistoryDSN     = "JBCRAM_HISTORY_DSN"
	EnvProcessTimeout = "JBCRAM_PROCESS_TIMEOUT"
)

// applyEnv reads the project's .env file and the process environment.
// Process environment wins over .env, matching godotenv.Load semantics.
func (c *Config) applyEnv() error {
	dotenv, err := godotenv.Read(filepath.Join(c.ProjectPath, ".env"))
	if err != nil {
		// .env file might not exist, that's okay - use environment variables
		dotenv = map[string]string{}
	}
	lookup := func(key string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return dotenv[key]
	}

	if v := lookup(EnvBuildCommand); v != "" {
		c.BuildCommand = v
	}
	if v := lookup(EnvAllocator); v != "" {
		a, err := domain.ParseAllocator(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvAllocator, err)
		}
		c.DefaultAllocator = a
	}
	if v := lookup(EnvHistoryDriver); v != "" {
		c.History.Driver = v
	}
	if v := lookup(EnvHistoryDSN); v != "" {
		c.History.DSN = v
	}
	if v := lookup(EnvProcessTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvProcessTimeout, err)
		}
		c.ProcessTimeout = d
	}

	// MySQL connection settings are read lazily by mysqlDSNFromEnv
	for _, key := range []string{"DB_HOST", "DB_PORT", "DB_USERNAME", "DB_PASSWORD", "DB_DATABASE"} {
		if _, ok := os.LookupEnv(key); !ok {
			if v, ok := dotenv[key]; ok {
				os.Setenv(key, v)
			}
		}
	}
	return nil
}

// mysqlDSNFromEnv builds a go-sql-driver/mysql DSN from DB_* variables
func mysqlDSNFromEnv() string {
	dbHost := os.Getenv("DB_HOST")
	if dbHost == "" {
		dbHost = "127.0.0.1"
	}
	dbPort := os.Getenv("DB_PORT")
	if dbPort == "" {
		dbPort = "3306"
	}
	dbUser := os.Getenv("DB_USERNAME")
	if dbUser == "" {
		dbUser = "root"
	}
	dbName := os.Getenv("DB_DATABASE")
	if dbName == "" {
		dbName = "jbcram"
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true", dbUser, os.Getenv("DB_PASSWORD"), dbHost, dbPort, dbName)
}
