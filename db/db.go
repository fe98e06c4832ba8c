package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/rankforge/analyzer/models"
)

// DB wraps the database connection and provides data access methods
type DB struct {
	conn *sql.DB
}

// Config contains database configuration
type Config struct {
	DSN string // PostgreSQL connection string
}

// New creates a new database connection and runs pending migrations
func New(config Config) (*DB, error) {
	conn, err := sql.Open("postgres", config.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Configure connection pool
	conn.SetMaxOpenConns(25)
	conn.SetMaxIdleConns(5)
	conn.SetConnMaxLifetime(5 * time.Minute)

	db := &DB{conn: conn}

	if err := Migrate(conn); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// DB returns the underlying database connection for metrics collection
func (db *DB) DB() *sql.DB {
	return db.conn
}

// SaveAnalysis stores a finished analysis, replacing any previous analysis of
// the same query
func (db *DB) SaveAnalysis(result *models.AnalysisResult, slug string) error {
	jsonData, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis: %w", err)
	}

	query := `
		INSERT INTO analyzer_analyses (id, query, slug, data, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT(query) DO UPDATE SET
			id = excluded.id,
			slug = excluded.slug,
			data = excluded.data,
			updated_at = excluded.updated_at
	`

	_, err = db.conn.Exec(
		query,
		result.ID,
		result.Query,
		slug,
		string(jsonData),
		result.CreatedAt,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to save analysis: %w", err)
	}

	return nil
}

// GetBySlug retrieves an analysis by its query slug
func (db *DB) GetBySlug(slug string) (*models.AnalysisResult, error) {
	var jsonData string
	err := db.conn.QueryRow(
		"SELECT data FROM analyzer_analyses WHERE slug = $1", slug,
	).Scan(&jsonData)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query analysis: %w", err)
	}

	var result models.AnalysisResult
	if err := json.Unmarshal([]byte(jsonData), &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal analysis: %w", err)
	}
	return &result, nil
}

// GetByQuery retrieves an analysis by its exact query string
func (db *DB) GetByQuery(query string) (*models.AnalysisResult, error) {
	var jsonData string
	err := db.conn.QueryRow(
		"SELECT data FROM analyzer_analyses WHERE query = $1", query,
	).Scan(&jsonData)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query analysis: %w", err)
	}

	var result models.AnalysisResult
	if err := json.Unmarshal([]byte(jsonData), &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal analysis: %w", err)
	}
	return &result, nil
}

// List returns summaries of stored analyses, newest first
func (db *DB) List(limit, offset int) ([]models.AnalysisSummary, error) {
	rows, err := db.conn.Query(`
		SELECT id, query, slug, data, created_at
		FROM analyzer_analyses
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	defer rows.Close()

	var summaries []models.AnalysisSummary
	for rows.Next() {
		var s models.AnalysisSummary
		var jsonData string
		if err := rows.Scan(&s.ID, &s.Query, &s.Slug, &jsonData, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan analysis row: %w", err)
		}

		var result models.AnalysisResult
		if err := json.Unmarshal([]byte(jsonData), &result); err != nil {
			return nil, fmt.Errorf("failed to unmarshal analysis %s: %w", s.ID, err)
		}
		s.TargetScore = result.TargetScore
		s.Competitors = len(result.Competitors)

		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// DeleteBySlug removes a stored analysis. Returns sql.ErrNoRows when the slug
// does not exist.
func (db *DB) DeleteBySlug(slug string) error {
	result, err := db.conn.Exec("DELETE FROM analyzer_analyses WHERE slug = $1", slug)
	if err != nil {
		return fmt.Errorf("failed to delete analysis: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deletion: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Count returns the total number of stored analyses
func (db *DB) Count() (int, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(*) FROM analyzer_analyses").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count analyses: %w", err)
	}
	return count, nil
}

// SlugExists checks whether a slug is already taken
func (db *DB) SlugExists(slug string) (bool, error) {
	var exists bool
	err := db.conn.QueryRow(
		"SELECT EXISTS(SELECT 1 FROM analyzer_analyses WHERE slug = $1)", slug,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check slug: %w", err)
	}
	return exists, nil
}
