package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"tablekit/domain/analysis"
	"tablekit/domain/core"
)

// AnalysisSummary is the JSON payload persisted with each run
type AnalysisSummary struct {
	Quality            analysis.QualityMetrics      `json:"quality"`
	MissingValues      []analysis.MissingColumn     `json:"missing_values"`
	StrongCorrelations []analysis.StrongCorrelation `json:"strong_correlations"`
	KPIGroups          []analysis.KPIGroup          `json:"kpi_groups"`
}

// AnalysisRecord is one persisted analysis run
type AnalysisRecord struct {
	ID                  core.ID
	SessionID           core.SessionID
	FileName            string
	SheetName           string
	RowCount            int
	ColumnCount         int
	CompletenessPercent float64
	DuplicateRows       int
	Summary             AnalysisSummary
	CreatedAt           time.Time
}

// AnalysisRepository persists analysis runs for later review
type AnalysisRepository struct {
	db *sqlx.DB
}

// NewAnalysisRepository creates a repository backed by the given pool
func NewAnalysisRepository(db *sqlx.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

// Save inserts a new analysis run
func (r *AnalysisRepository) Save(ctx context.Context, rec *AnalysisRecord) error {
	summaryJSON, err := json.Marshal(rec.Summary)
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}

	query := `INSERT INTO analysis_runs (
		id, session_id, file_name, sheet_name, row_count, column_count,
		completeness_percent, duplicate_rows, summary, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err = r.db.ExecContext(ctx, query,
		rec.ID, rec.SessionID, rec.FileName, rec.SheetName, rec.RowCount, rec.ColumnCount,
		rec.CompletenessPercent, rec.DuplicateRows, summaryJSON, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save analysis run: %w", err)
	}

	return nil
}

// GetByID retrieves a single analysis run
func (r *AnalysisRepository) GetByID(ctx context.Context, id core.ID) (*AnalysisRecord, error) {
	query := `SELECT
		id, session_id, file_name, sheet_name, row_count, column_count,
		completeness_percent, duplicate_rows, summary, created_at
	FROM analysis_runs WHERE id = $1`

	rec, err := scanRecord(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("analysis run not found: %s", id)
		}
		return nil, fmt.Errorf("failed to get analysis run: %w", err)
	}

	return rec, nil
}

// ListRecent returns the most recent analysis runs, newest first
func (r *AnalysisRepository) ListRecent(ctx context.Context, limit int) ([]*AnalysisRecord, error) {
	query := `SELECT
		id, session_id, file_name, sheet_name, row_count, column_count,
		completeness_percent, duplicate_rows, summary, created_at
	FROM analysis_runs
	ORDER BY created_at DESC
	LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query analysis runs: %w", err)
	}
	defer rows.Close()

	var records []*AnalysisRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan analysis run: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// Delete removes an analysis run
func (r *AnalysisRepository) Delete(ctx context.Context, id core.ID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM analysis_runs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete analysis run: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("analysis run not found: %s", id)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row rowScanner) (*AnalysisRecord, error) {
	var rec AnalysisRecord
	var summaryJSON []byte

	err := row.Scan(
		&rec.ID, &rec.SessionID, &rec.FileName, &rec.SheetName, &rec.RowCount, &rec.ColumnCount,
		&rec.CompletenessPercent, &rec.DuplicateRows, &summaryJSON, &rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(summaryJSON) > 0 {
		if err := json.Unmarshal(summaryJSON, &rec.Summary); err != nil {
			return nil, fmt.Errorf("failed to unmarshal summary: %w", err)
		}
	}

	return &rec, nil
}
