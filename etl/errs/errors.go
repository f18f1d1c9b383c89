// Package errs defines the pipeline error taxonomy, the in-process error
// ledger and the retry engine for transient operations.
package errs

import (
	"errors"
	"fmt"
	"time"
)

// Kind classifies a pipeline error. Kinds are mutually exclusive; handling
// sites match on them exhaustively.
type Kind int

const (
	// KindGeneric wraps anything unclassified.
	KindGeneric Kind = iota
	// KindValidation marks structural validation failures of source data.
	KindValidation
	// KindConnection marks database connectivity failures.
	KindConnection
	// KindTransformation marks cleaning and fact assembly failures.
	KindTransformation
	// KindQuality marks post-load quality gate failures.
	KindQuality
)

// Code returns the machine-readable error code for the kind.
func (k Kind) Code() string {
	switch k {
	case KindValidation:
		return "DATA_VALIDATION_ERROR"
	case KindConnection:
		return "DB_CONNECTION_ERROR"
	case KindTransformation:
		return "DATA_TRANSFORMATION_ERROR"
	case KindQuality:
		return "DATA_QUALITY_ERROR"
	default:
		return "ETL_GENERIC_ERROR"
	}
}

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConnection:
		return "connection"
	case KindTransformation:
		return "transformation"
	case KindQuality:
		return "quality"
	default:
		return "generic"
	}
}

// Error is a typed pipeline error carrying a kind, a machine code and a
// free-form context payload.
type Error struct {
	Kind      Kind
	Message   string
	Context   map[string]interface{}
	Timestamp time.Time
	Err       error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind.Code(), e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Kind.Code(), e.Message)
}

// Unwrap returns the wrapped cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, err error, message string, context map[string]interface{}) *Error {
	return &Error{
		Kind:      kind,
		Message:   message,
		Context:   context,
		Timestamp: time.Now(),
		Err:       err,
	}
}

// Validation creates a data validation error.
func Validation(message string, context map[string]interface{}) *Error {
	return newError(KindValidation, nil, message, context)
}

// Connection creates a database connection error wrapping its cause.
func Connection(err error, message string) *Error {
	return newError(KindConnection, err, message, nil)
}

// Transformation creates a data transformation error.
func Transformation(err error, message string, context map[string]interface{}) *Error {
	return newError(KindTransformation, err, message, context)
}

// Quality creates a data quality error. The context carries the full check
// result list under "failed_checks" and "results".
func Quality(message string, context map[string]interface{}) *Error {
	return newError(KindQuality, nil, message, context)
}

// Generic wraps an unclassified error.
func Generic(err error, message string) *Error {
	return newError(KindGeneric, err, message, nil)
}

// KindOf extracts the kind of an error, returning KindGeneric for errors
// outside the taxonomy.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindGeneric
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
