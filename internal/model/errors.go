package model

import (
	"fmt"
	"math"
	"strings"
)

// Code identifies the class of a dashboard error.
type Code string

const (
	CodeSchema          Code = "SCHEMA_ERROR"
	CodeEmptyDataset    Code = "EMPTY_DATASET"
	CodeInvalidRange    Code = "INVALID_RANGE"
	CodeNoDataSelection Code = "NO_DATA_FOR_SELECTION"
)

// Error is the domain error type. Two errors match under errors.Is when
// their codes are equal, so the sentinels below can be used as targets.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable detail
	Column  string // Source column, for schema errors
	Row     int    // 1-based data row, 0 when not row-specific
	Cause   error  // Wrapped underlying error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(strings.ToLower(strings.ReplaceAll(string(e.Code), "_", " ")))
	if e.Row > 0 {
		fmt.Fprintf(&b, " at row %d", e.Row)
	}
	if e.Column != "" {
		fmt.Fprintf(&b, " column %q", e.Column)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// Sentinels for errors.Is.
var (
	ErrSchema             = &Error{Code: CodeSchema}
	ErrEmptyDataset       = &Error{Code: CodeEmptyDataset}
	ErrInvalidRange       = &Error{Code: CodeInvalidRange}
	ErrNoDataForSelection = &Error{Code: CodeNoDataSelection}
)

// SchemaError reports a missing column or a value that failed coercion.
// Row is 0 for header-level problems.
func SchemaError(column string, row int, message string, cause error) *Error {
	return &Error{Code: CodeSchema, Column: column, Row: row, Message: message, Cause: cause}
}

// EmptyDatasetError reports a source that yielded no records.
func EmptyDatasetError(source string) *Error {
	return &Error{Code: CodeEmptyDataset, Message: fmt.Sprintf("source %s yielded no records", source)}
}

// InvalidRangeError reports an unusable payload range.
func InvalidRangeError(r PayloadRange) *Error {
	if math.IsNaN(r.Low) || math.IsNaN(r.High) {
		return &Error{Code: CodeInvalidRange, Message: fmt.Sprintf("bounds must be numbers, got low %v high %v", r.Low, r.High)}
	}
	return &Error{Code: CodeInvalidRange, Message: fmt.Sprintf("low %v must not exceed high %v", r.Low, r.High)}
}
