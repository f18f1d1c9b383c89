package errs

import (
	"errors"
	"sync"
	"time"
)

// LedgerEntry is one recorded failure with its classification and context.
type LedgerEntry struct {
	Timestamp time.Time              `json:"timestamp"`
	Kind      string                 `json:"kind"`
	Code      string                 `json:"code"`
	Message   string                 `json:"message"`
	Context   map[string]interface{} `json:"context,omitempty"`
}

// Ledger accumulates failures over the lifetime of a process. One ledger is
// constructed per process and passed explicitly into the components that
// record to it.
type Ledger struct {
	mu      sync.Mutex
	entries []LedgerEntry
}

// NewLedger creates an empty error ledger.
func NewLedger() *Ledger {
	return &Ledger{}
}

// Record appends err to the ledger with the given calling context.
func (l *Ledger) Record(err error, context map[string]interface{}) {
	entry := LedgerEntry{
		Timestamp: time.Now(),
		Kind:      KindOf(err).String(),
		Code:      KindOf(err).Code(),
		Message:   err.Error(),
		Context:   context,
	}

	var typed *Error
	if errors.As(err, &typed) {
		for k, v := range typed.Context {
			if entry.Context == nil {
				entry.Context = map[string]interface{}{}
			}
			if _, exists := entry.Context[k]; !exists {
				entry.Context[k] = v
			}
		}
	}

	l.mu.Lock()
	l.entries = append(l.entries, entry)
	l.mu.Unlock()
}

// Summary aggregates the recorded failures.
type Summary struct {
	TotalErrors int            `json:"total_errors"`
	ErrorKinds  map[string]int `json:"error_kinds"`
	FirstError  *LedgerEntry   `json:"first_error,omitempty"`
	LatestError *LedgerEntry   `json:"latest_error,omitempty"`
}

// Summary returns an aggregate view of every recorded failure.
func (l *Ledger) Summary() Summary {
	l.mu.Lock()
	defer l.mu.Unlock()

	summary := Summary{
		TotalErrors: len(l.entries),
		ErrorKinds:  map[string]int{},
	}

	for _, entry := range l.entries {
		summary.ErrorKinds[entry.Kind]++
	}

	if len(l.entries) > 0 {
		first := l.entries[0]
		latest := l.entries[len(l.entries)-1]
		summary.FirstError = &first
		summary.LatestError = &latest
	}

	return summary
}

// Report is the structured failure report produced after a failed run.
type Report struct {
	Timestamp       time.Time `json:"timestamp"`
	PipelineStatus  string    `json:"pipeline_status"`
	Summary         Summary   `json:"error_summary"`
	Recommendations []string  `json:"recommendations"`
}

// Report builds the failure report for monitoring, with per-kind
// remediation hints.
func (l *Ledger) Report() Report {
	summary := l.Summary()

	report := Report{
		Timestamp:      time.Now(),
		PipelineStatus: "SUCCESS",
		Summary:        summary,
	}

	if summary.TotalErrors > 0 {
		report.PipelineStatus = "FAILED"
	}

	if summary.ErrorKinds[KindValidation.String()] > 0 {
		report.Recommendations = append(report.Recommendations,
			"Review source data quality and implement additional validation rules")
	}
	if summary.ErrorKinds[KindConnection.String()] > 0 {
		report.Recommendations = append(report.Recommendations,
			"Check database connectivity and connection pool settings")
	}
	if summary.ErrorKinds[KindTransformation.String()] > 0 {
		report.Recommendations = append(report.Recommendations,
			"Review data transformation logic and handle edge cases")
	}
	if summary.ErrorKinds[KindQuality.String()] > 0 {
		report.Recommendations = append(report.Recommendations,
			"Implement stricter data quality checks and monitoring")
	}

	return report
}

// Clear discards every recorded failure.
func (l *Ledger) Clear() {
	l.mu.Lock()
	l.entries = nil
	l.mu.Unlock()
}
