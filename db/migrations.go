package db

import (
	"database/sql"
	"fmt"
	"log/slog"
	"sort"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	Up      string
	Down    string
}

var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_analyzer_analyses_table",
		Up: `
			CREATE TABLE IF NOT EXISTS analyzer_analyses (
				id TEXT PRIMARY KEY,
				query TEXT NOT NULL UNIQUE,
				slug TEXT NOT NULL,
				data JSONB NOT NULL,
				created_at TIMESTAMPTZ DEFAULT NOW(),
				updated_at TIMESTAMPTZ DEFAULT NOW()
			);
			CREATE UNIQUE INDEX IF NOT EXISTS idx_analyzer_analyses_slug ON analyzer_analyses(slug);
			CREATE INDEX IF NOT EXISTS idx_analyzer_analyses_created_at ON analyzer_analyses(created_at);
		`,
		Down: `
			DROP INDEX IF EXISTS idx_analyzer_analyses_created_at;
			DROP INDEX IF EXISTS idx_analyzer_analyses_slug;
			DROP TABLE IF EXISTS analyzer_analyses;
		`,
	},
	{
		Version: 2,
		Name:    "add_target_score_index",
		Up: `
			CREATE INDEX IF NOT EXISTS idx_analyzer_analyses_target_score
				ON analyzer_analyses (((data->>'target_score')::int));
		`,
		Down: `
			DROP INDEX IF EXISTS idx_analyzer_analyses_target_score;
		`,
	},
}

// Migrate runs all pending migrations
func Migrate(db *sql.DB) error {
	if err := ensureMigrationsTable(db); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	currentVersion, err := getCurrentVersion(db)
	if err != nil {
		return fmt.Errorf("failed to get current version: %w", err)
	}
	slog.Default().Info("current schema version", "version", currentVersion)

	sorted := make([]Migration, len(migrations))
	copy(sorted, migrations)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Version < sorted[j].Version
	})

	for _, m := range sorted {
		if m.Version <= currentVersion {
			continue
		}
		if err := runMigration(db, m); err != nil {
			return fmt.Errorf("failed to run migration %d (%s): %w", m.Version, m.Name, err)
		}
	}

	return nil
}

// ensureMigrationsTable creates the analyzer_schema_version table if it doesn't exist
func ensureMigrationsTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS analyzer_schema_version (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMPTZ DEFAULT NOW()
		);
	`)
	return err
}

// getCurrentVersion returns the current migration version
func getCurrentVersion(db *sql.DB) (int, error) {
	var version int
	err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM analyzer_schema_version").Scan(&version)
	if err != nil {
		return 0, err
	}
	return version, nil
}

// runMigration executes a single migration inside a transaction
func runMigration(db *sql.DB, m Migration) error {
	slog.Default().Info("applying migration", "version", m.Version, "name", m.Name)

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(m.Up); err != nil {
		return fmt.Errorf("failed to execute migration SQL: %w", err)
	}

	if _, err := tx.Exec(
		"INSERT INTO analyzer_schema_version (version, name) VALUES ($1, $2)",
		m.Version, m.Name,
	); err != nil {
		return fmt.Errorf("failed to record migration: %w", err)
	}

	return tx.Commit()
}

// Rollback rolls back the last migration
func Rollback(db *sql.DB) error {
	currentVersion, err := getCurrentVersion(db)
	if err != nil {
		return fmt.Errorf("failed to get current version: %w", err)
	}

	if currentVersion == 0 {
		return fmt.Errorf("no migrations to rollback")
	}

	var target *Migration
	for i, m := range migrations {
		if m.Version == currentVersion {
			target = &migrations[i]
			break
		}
	}
	if target == nil {
		return fmt.Errorf("migration %d not found", currentVersion)
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(target.Down); err != nil {
		return fmt.Errorf("failed to rollback migration: %w", err)
	}

	if _, err := tx.Exec("DELETE FROM analyzer_schema_version WHERE version = $1", currentVersion); err != nil {
		return fmt.Errorf("failed to remove migration record: %w", err)
	}

	return tx.Commit()
}

// MigrationStatus represents the status of a migration
type MigrationStatus struct {
	Version int
	Name    string
	Applied bool
}

// GetMigrationStatus returns the applied state of every known migration
func GetMigrationStatus(db *sql.DB) ([]MigrationStatus, error) {
	currentVersion, err := getCurrentVersion(db)
	if err != nil {
		return nil, err
	}

	var status []MigrationStatus
	for _, m := range migrations {
		status = append(status, MigrationStatus{
			Version: m.Version,
			Name:    m.Name,
			Applied: m.Version <= currentVersion,
		})
	}

	sort.Slice(status, func(i, j int) bool {
		return status[i].Version < status[j].Version
	})

	return status, nil
}
