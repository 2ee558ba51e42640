package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is wrapped by every query that names an identity absent
	// from the built tables.
	ErrNotFound = errors.New("not found")

	// ErrInvalidIdentity is wrapped when an identity argument cannot be
	// decomposed into an element symbol and optional mass number.
	ErrInvalidIdentity = errors.New("invalid nuclide identity")
)

// FormatError reports a row or field that could not be decomposed while
// parsing a source table. It is always fatal for ingestion.
type FormatError struct {
	Source string // "weights", "wallet" or "mat"
	Line   int    // 1-based; 0 when the error is not tied to one line
	Field  string
	Err    error
}

func (e *FormatError) Error() string {
	switch {
	case e.Line > 0 && e.Field != "":
		return fmt.Sprintf("%s line %d: %s: %v", e.Source, e.Line, e.Field, e.Err)
	case e.Line > 0:
		return fmt.Sprintf("%s line %d: %v", e.Source, e.Line, e.Err)
	case e.Field != "":
		return fmt.Sprintf("%s: %s: %v", e.Source, e.Field, e.Err)
	default:
		return fmt.Sprintf("%s: %v", e.Source, e.Err)
	}
}

func (e *FormatError) Unwrap() error { return e.Err }

func formatErr(source string, line int, field string, format string, args ...any) *FormatError {
	return &FormatError{Source: source, Line: line, Field: field, Err: fmt.Errorf(format, args...)}
}

// DataConsistencyError describes derivable values that disagree beyond
// tolerance. It is surfaced as a warning and never aborts ingestion.
type DataConsistencyError struct {
	Key    string // nuclide or element the check ran on, e.g. "U-235"
	Detail string
}

func (e DataConsistencyError) Error() string {
	return fmt.Sprintf("data consistency: %s: %s", e.Key, e.Detail)
}
