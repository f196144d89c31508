// Package database provides the core functionality for creating and managing
// database connections in a clean, isolated manner.
package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/AtRiskMedia/flexstack-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/flexstack-go/pkg/config"
	_ "github.com/mattn/go-sqlite3"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

const (
	DriverSQLite = "sqlite3"
	DriverLibSQL = "libsql"
)

// DB represents a wrapper around the standard SQL database connection.
type DB struct {
	*sql.DB
	Driver string
}

// NewConnection establishes a new database connection for the specified driver.
func NewConnection(driverName, dataSourceName string) (*DB, error) {
	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, err
	}

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	return &DB{DB: db, Driver: driverName}, nil
}

// NewConnectionWithLogger establishes a new database connection for the specified driver with logging.
func NewConnectionWithLogger(driverName, dataSourceName string, logger *logging.ChanneledLogger) (*DB, error) {
	start := time.Now()
	logger.Database().Debug("Creating new database connection", "driverName", driverName)

	db, err := NewConnection(driverName, dataSourceName)
	if err != nil {
		logger.Database().Error("Failed to open database connection", "error", err.Error(), "driverName", driverName)
		return nil, err
	}
	configurePool(db)

	duration := time.Since(start)
	logger.Database().Info("Database connection established", "driverName", driverName, "duration", duration)
	CheckAndLogSlowQuery(logger, "DATABASE_CONNECTION", duration)

	return db, nil
}

// OpenConfigured opens the database selected by DATABASE_DRIVER.
func OpenConfigured(logger *logging.ChanneledLogger) (*DB, error) {
	dsn, err := DataSourceName(config.DatabaseDriver, config.SQLitePath, config.TursoDatabaseURL, config.TursoAuthToken)
	if err != nil {
		return nil, err
	}
	return NewConnectionWithLogger(config.DatabaseDriver, dsn, logger)
}

// DataSourceName builds the DSN for a driver.
func DataSourceName(driver, sqlitePath, tursoURL, tursoToken string) (string, error) {
	switch driver {
	case DriverSQLite:
		if sqlitePath == "" {
			return "", fmt.Errorf("SQLITE_PATH is required for the sqlite3 driver")
		}
		if sqlitePath == ":memory:" {
			return sqlitePath, nil
		}
		return sqlitePath + "?_foreign_keys=on&_busy_timeout=5000", nil
	case DriverLibSQL:
		if tursoURL == "" {
			return "", fmt.Errorf("TURSO_DATABASE_URL is required for the libsql driver")
		}
		if tursoToken == "" {
			return tursoURL, nil
		}
		return fmt.Sprintf("%s?authToken=%s", tursoURL, tursoToken), nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", driver)
	}
}

func configurePool(db *DB) {
	if db.Driver == DriverSQLite {
		// Single writer; sqlite serialises writes anyway.
		db.SetMaxOpenConns(1)
		return
	}
	db.SetMaxOpenConns(config.DBMaxOpenConns)
	db.SetMaxIdleConns(config.DBMaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(config.DBConnMaxLifetimeMinutes) * time.Minute)
}
