package models

import (
	"context"
	"time"
)

// Pipeline run statuses.
const (
	StatusRunning = "running"
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// Quality check statuses.
const (
	CheckPass = "PASS"
	CheckFail = "FAIL"
)

// PipelineRun is the per-run bookkeeping record. Its JSON shape is the
// contract consumed by the external scheduler and reporting layer.
type PipelineRun struct {
	RunID                string         `json:"run_id"`
	StartTime            time.Time      `json:"start_time"`
	EndTime              time.Time      `json:"end_time"`
	Status               string         `json:"status"`
	SourceRowCounts      map[string]int `json:"source_row_counts"`
	FactRowCount         int            `json:"fact_row_count"`
	QualityScore         float64        `json:"quality_score"`
	ExecutionTimeSeconds float64        `json:"execution_time_seconds"`
	ErrorMessage         string         `json:"error_message,omitempty"`
}

// QualityCheckResult is the outcome of a single post-load quality check.
type QualityCheckResult struct {
	Check    string `json:"check"`
	Table    string `json:"table"`
	Column   string `json:"column,omitempty"`
	Expected int64  `json:"expected,omitempty"`
	Actual   int64  `json:"actual"`
	Status   string `json:"status"`
}

// Passed reports whether the check passed.
func (r QualityCheckResult) Passed() bool {
	return r.Status == CheckPass
}

// RunLogRepository persists pipeline run records in the warehouse.
type RunLogRepository interface {
	// CreateRunLogTable creates the run log table if it does not exist.
	CreateRunLogTable(ctx context.Context) error

	// InsertStart records a newly started run.
	InsertStart(ctx context.Context, run *PipelineRun) error

	// MarkSuccess finalizes the record of a successful run.
	MarkSuccess(ctx context.Context, run *PipelineRun) error

	// MarkFailure finalizes the record of a failed run.
	MarkFailure(ctx context.Context, run *PipelineRun) error

	// LastSuccessfulRun returns the most recent successful run, or nil when
	// none exists.
	LastSuccessfulRun(ctx context.Context) (*PipelineRun, error)
}
