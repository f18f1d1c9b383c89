package models

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// MySQLRunLogRepository implements RunLogRepository on the warehouse database.
type MySQLRunLogRepository struct {
	db *sql.DB
}

// NewMySQLRunLogRepository creates a run log repository backed by db.
func NewMySQLRunLogRepository(db *sql.DB) *MySQLRunLogRepository {
	return &MySQLRunLogRepository{db: db}
}

// CreateRunLogTable creates the etl_run_log table if it does not exist.
func (r *MySQLRunLogRepository) CreateRunLogTable(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS etl_run_log (
		run_id VARCHAR(64) PRIMARY KEY,
		start_time TIMESTAMP NOT NULL,
		end_time TIMESTAMP NULL,
		status ENUM('running', 'success', 'failed') NOT NULL DEFAULT 'running',
		source_row_counts TEXT,
		fact_row_count INT DEFAULT 0,
		quality_score FLOAT DEFAULT 0,
		error_message TEXT,
		execution_time_seconds FLOAT
	);
	`

	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create etl_run_log table: %w", err)
	}

	return nil
}

// InsertStart records a newly started run.
func (r *MySQLRunLogRepository) InsertStart(ctx context.Context, run *PipelineRun) error {
	query := `
	INSERT INTO etl_run_log (run_id, start_time, status)
	VALUES (?, ?, 'running')
	`

	if _, err := r.db.ExecContext(ctx, query, run.RunID, run.StartTime); err != nil {
		return fmt.Errorf("failed to insert run log entry: %w", err)
	}

	return nil
}

// MarkSuccess finalizes the record of a successful run.
func (r *MySQLRunLogRepository) MarkSuccess(ctx context.Context, run *PipelineRun) error {
	return r.finalize(ctx, run, StatusSuccess)
}

// MarkFailure finalizes the record of a failed run.
func (r *MySQLRunLogRepository) MarkFailure(ctx context.Context, run *PipelineRun) error {
	return r.finalize(ctx, run, StatusFailed)
}

func (r *MySQLRunLogRepository) finalize(ctx context.Context, run *PipelineRun, status string) error {
	counts, err := json.Marshal(run.SourceRowCounts)
	if err != nil {
		return fmt.Errorf("failed to encode source row counts: %w", err)
	}

	query := `
	UPDATE etl_run_log
	SET
		end_time = ?,
		status = ?,
		source_row_counts = ?,
		fact_row_count = ?,
		quality_score = ?,
		error_message = ?,
		execution_time_seconds = ?
	WHERE run_id = ?
	`

	_, err = r.db.ExecContext(
		ctx,
		query,
		run.EndTime,
		status,
		string(counts),
		run.FactRowCount,
		run.QualityScore,
		run.ErrorMessage,
		run.ExecutionTimeSeconds,
		run.RunID,
	)
	if err != nil {
		return fmt.Errorf("failed to update run log entry: %w", err)
	}

	return nil
}

// LastSuccessfulRun returns the most recent successful run, or nil when none
// exists.
func (r *MySQLRunLogRepository) LastSuccessfulRun(ctx context.Context) (*PipelineRun, error) {
	query := `
	SELECT
		run_id, start_time, end_time, status,
		IFNULL(source_row_counts, ''), fact_row_count, quality_score,
		IFNULL(error_message, ''), execution_time_seconds
	FROM etl_run_log
	WHERE status = 'success'
	ORDER BY end_time DESC
	LIMIT 1
	`

	var run PipelineRun
	var counts string
	err := r.db.QueryRowContext(ctx, query).Scan(
		&run.RunID, &run.StartTime, &run.EndTime, &run.Status,
		&counts, &run.FactRowCount, &run.QualityScore,
		&run.ErrorMessage, &run.ExecutionTimeSeconds,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch last successful run: %w", err)
	}

	if counts != "" {
		if err := json.Unmarshal([]byte(counts), &run.SourceRowCounts); err != nil {
			return nil, fmt.Errorf("failed to decode source row counts: %w", err)
		}
	}

	return &run, nil
}
