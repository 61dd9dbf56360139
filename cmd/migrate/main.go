package main

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/straye-as/portfolio-api/internal/config"
	"github.com/straye-as/portfolio-api/internal/database"
	"github.com/straye-as/portfolio-api/migrations"
)

const usage = "usage: migrate [up|down|status|version|create <name>|ensure|seed]"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Migration error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Get command and arguments
	args := os.Args[1:]
	if len(args) == 0 {
		return fmt.Errorf(usage)
	}

	command := args[0]
	arguments := args[1:]

	switch command {
	case "ensure", "seed":
		// Driver-agnostic schema and seed steps through gorm, usable with SQLite as well
		return runSchemaCommand(&cfg.Database, command)
	case "create":
		if len(arguments) == 0 {
			return fmt.Errorf("create requires a migration name")
		}
		// New files are written to disk, not into the embedded set
		goose.SetBaseFS(nil)
		if err := goose.Create(nil, "./migrations", arguments[0], "sql"); err != nil {
			return fmt.Errorf("failed to create migration: %w", err)
		}
		fmt.Printf("Migration created: %s\n", arguments[0])
		return nil
	}

	if cfg.Database.Driver == database.DriverSQLite {
		return fmt.Errorf("goose migrations target postgres; use 'ensure' for sqlite")
	}

	// Open database connection
	db, err := sql.Open("postgres", cfg.Database.ConnectionString())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Test connection
	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}

	// Migrations are embedded at the root of migrations.FS
	migrationsDir := "."

	switch command {
	case "up":
		if err := goose.Up(db, migrationsDir); err != nil {
			return fmt.Errorf("failed to run up migrations: %w", err)
		}
		fmt.Println("Migrations applied successfully")

	case "down":
		if err := goose.Down(db, migrationsDir); err != nil {
			return fmt.Errorf("failed to run down migration: %w", err)
		}
		fmt.Println("Migration rolled back successfully")

	case "status":
		if err := goose.Status(db, migrationsDir); err != nil {
			return fmt.Errorf("failed to get migration status: %w", err)
		}

	case "version":
		if err := goose.Version(db, migrationsDir); err != nil {
			return fmt.Errorf("failed to get version: %w", err)
		}

	default:
		return fmt.Errorf("unknown command: %s\n%s", command, usage)
	}

	return nil
}

func runSchemaCommand(cfg *config.DatabaseConfig, command string) error {
	db, err := database.NewDatabase(cfg)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	if err := database.EnsureSchema(db); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	if command == "ensure" {
		fmt.Println("Schema ensured")
		return nil
	}

	if err := database.Seed(db); err != nil {
		return fmt.Errorf("failed to seed database: %w", err)
	}
	fmt.Println("Database seeded")
	return nil
}
