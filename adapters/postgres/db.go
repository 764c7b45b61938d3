package postgres

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS analysis_runs (
	id TEXT PRIMARY KEY,
	session_id TEXT NOT NULL,
	file_name TEXT NOT NULL,
	sheet_name TEXT NOT NULL DEFAULT '',
	row_count BIGINT NOT NULL,
	column_count INTEGER NOT NULL,
	completeness_percent DOUBLE PRECISION NOT NULL,
	duplicate_rows BIGINT NOT NULL,
	summary JSONB,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_analysis_runs_session ON analysis_runs (session_id);
CREATE INDEX IF NOT EXISTS idx_analysis_runs_created ON analysis_runs (created_at DESC);
`

// Connect opens a PostgreSQL connection pool and verifies it with a ping
func Connect(databaseURL string) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Printf("[Postgres] Connected to database")
	return db, nil
}

// EnsureSchema creates the analysis tables when they do not exist
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}
