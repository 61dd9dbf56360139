package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/straye-as/portfolio-api/internal/config"
	"github.com/straye-as/portfolio-api/internal/domain"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// NewDatabase creates a new database connection for the configured driver
func NewDatabase(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case DriverPostgres, "":
		dialector = postgres.Open(cfg.ConnectionString())
	case DriverSQLite:
		dialector = sqlite.Open(SQLiteDSN(cfg.SQLitePath))
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	// Set connection pool settings. SQLite serializes writers, so one connection is enough.
	if cfg.Driver == DriverSQLite {
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetimeDuration())
	}

	// Test connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// SQLiteDSN builds a DSN with foreign keys enforced. An empty path selects a shared in-memory database.
func SQLiteDSN(path string) string {
	if path == "" {
		return "file::memory:?cache=shared&_foreign_keys=on"
	}
	return fmt.Sprintf("file:%s?_foreign_keys=on", path)
}

// IsPostgres reports whether the connection uses the postgres dialect
func IsPostgres(db *gorm.DB) bool {
	return db.Dialector.Name() == DriverPostgres
}

// EnsureSchema creates missing tables and adds missing columns for every model.
// It never drops or alters existing columns, so running it repeatedly is safe.
func EnsureSchema(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		migrator := tx.Migrator()

		for _, model := range domain.AllModels() {
			if !migrator.HasTable(model) {
				if err := migrator.CreateTable(model); err != nil {
					return fmt.Errorf("failed to create table for %T: %w", model, err)
				}
				continue
			}

			stmt := &gorm.Statement{DB: tx}
			if err := stmt.Parse(model); err != nil {
				return fmt.Errorf("failed to parse model %T: %w", model, err)
			}

			for _, field := range stmt.Schema.Fields {
				if field.DBName == "" {
					continue
				}
				if migrator.HasColumn(model, field.DBName) {
					continue
				}
				if err := migrator.AddColumn(model, field.DBName); err != nil {
					return fmt.Errorf("failed to add column %s.%s: %w", stmt.Schema.Table, field.DBName, err)
				}
			}
		}

		return nil
	})
}

// HealthCheck pings the database
func HealthCheck(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// HealthStats is the connection pool snapshot reported by /health/db
type HealthStats struct {
	Driver          string `json:"driver"`
	OpenConnections int    `json:"open_connections"`
	InUse           int    `json:"in_use"`
	Idle            int    `json:"idle"`
	WaitCount       int64  `json:"wait_count"`
	WaitDuration    string `json:"wait_duration"`
}

// HealthCheckWithStats pings the database and returns pool statistics
func HealthCheckWithStats(ctx context.Context, db *gorm.DB) (*HealthStats, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, err
	}
	return newHealthStats(db.Dialector.Name(), sqlDB.Stats()), nil
}

func newHealthStats(driver string, s sql.DBStats) *HealthStats {
	return &HealthStats{
		Driver:          driver,
		OpenConnections: s.OpenConnections,
		InUse:           s.InUse,
		Idle:            s.Idle,
		WaitCount:       s.WaitCount,
		WaitDuration:    s.WaitDuration.String(),
	}
}
