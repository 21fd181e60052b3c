package store

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// Database represents the gridiron PostgreSQL connection
type Database struct {
	conn *sql.DB
	dsn  string
}

// NewDatabase opens a pooled connection to Postgres
func NewDatabase(dsn string) (*Database, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)
	db.SetConnMaxIdleTime(10 * time.Minute)

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Database{
		conn: db,
		dsn:  dsn,
	}, nil
}

// Close closes the database connection
func (db *Database) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}

// DB returns the underlying *sql.DB for queries
func (db *Database) DB() *sql.DB {
	return db.conn
}

// migration pairs a version name with its SQL. Applied in order, once.
type migration struct {
	version string
	sql     string
}

var migrations = []migration{
	{
		version: "001_create_games",
		sql: `
			CREATE TABLE IF NOT EXISTS games (
				game_id    SERIAL PRIMARY KEY,
				season     VARCHAR(16) NOT NULL,
				opponent   VARCHAR(128) NOT NULL,
				game_date  DATE NOT NULL,
				level      VARCHAR(32) NOT NULL DEFAULT 'varsity',
				location   VARCHAR(128),
				status     VARCHAR(32) NOT NULL DEFAULT 'scheduled',
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`,
	},
	{
		version: "002_create_players",
		sql: `
			CREATE TABLE IF NOT EXISTS players (
				player_id     SERIAL PRIMARY KEY,
				first_name    VARCHAR(64),
				last_name     VARCHAR(64) NOT NULL,
				full_name     VARCHAR(128) NOT NULL,
				jersey_number VARCHAR(8),
				position      VARCHAR(8),
				class_year    INT,
				created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`,
	},
	{
		version: "003_create_stat_entries",
		sql: `
			CREATE TABLE IF NOT EXISTS stat_entries (
				stat_id    BIGSERIAL PRIMARY KEY,
				game_id    INT NOT NULL REFERENCES games(game_id) ON DELETE CASCADE,
				player_id  INT NOT NULL REFERENCES players(player_id),
				stat_type  VARCHAR(32) NOT NULL,
				value      DOUBLE PRECISION NOT NULL DEFAULT 1,
				game_clock VARCHAR(8),
				period     VARCHAR(16),
				note       TEXT,
				created_by VARCHAR(64),
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`,
	},
	{
		version: "004_index_stat_entries_game",
		sql: `
			CREATE INDEX IF NOT EXISTS idx_stat_entries_game
			ON stat_entries (game_id, created_at DESC)`,
	},
}

// RunMigrations applies all pending migrations in order
func (db *Database) RunMigrations() error {
	log.Println("Running database migrations...")

	if err := db.createMigrationsTable(); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	for _, m := range migrations {
		if err := db.runMigration(m); err != nil {
			return fmt.Errorf("failed to run migration %s: %w", m.version, err)
		}
	}

	log.Println("✓ All migrations completed successfully")
	return nil
}

// createMigrationsTable creates a table to track which migrations have been run
func (db *Database) createMigrationsTable() error {
	query := `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version VARCHAR(255) PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
	_, err := db.conn.Exec(query)
	return err
}

// runMigration applies a single migration if it hasn't been applied yet
func (db *Database) runMigration(m migration) error {
	var exists bool
	err := db.conn.QueryRow("SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)", m.version).Scan(&exists)
	if err != nil {
		return err
	}

	if exists {
		log.Printf("  ⊘ Skipping %s (already applied)", m.version)
		return nil
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(m.sql); err != nil {
		return fmt.Errorf("failed to execute migration: %w", err)
	}

	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES ($1)", m.version); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	log.Printf("  ✓ Applied %s", m.version)
	return nil
}

// HealthCheck performs a health check on the database
func (db *Database) HealthCheck() error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	return db.conn.PingContext(ctx)
}
