package errors

import (
	"errors"
	"fmt"
)

// ErrorType is the machine-readable kind of an application error
type ErrorType string

const (
	ErrTypeFileNotReadable       ErrorType = "FILE_NOT_READABLE"
	ErrTypeInsufficientSnapshots ErrorType = "INSUFFICIENT_SNAPSHOTS"
	ErrTypeAmbiguousSnapshots    ErrorType = "AMBIGUOUS_SNAPSHOTS"
	ErrTypeNoComparableColumns   ErrorType = "NO_COMPARABLE_COLUMNS"
	ErrTypeWriteFailure          ErrorType = "WRITE_FAILURE"
	ErrTypeInvalidRequest        ErrorType = "INVALID_REQUEST"
	ErrTypeConfig                ErrorType = "CONFIG"
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Detail returns the human-readable message without the type prefix
func (e *AppError) Detail() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an AppError of the same type.
// A bare &AppError{Type: X} works as a sentinel for errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Type == e.Type && t.Message == "" && t.Cause == nil
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// TypeOf returns the ErrorType of the first AppError in err's chain,
// or "" when there is none.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ""
}

// Sentinels for errors.Is
var (
	ErrFileNotReadable       = &AppError{Type: ErrTypeFileNotReadable}
	ErrInsufficientSnapshots = &AppError{Type: ErrTypeInsufficientSnapshots}
	ErrAmbiguousSnapshots    = &AppError{Type: ErrTypeAmbiguousSnapshots}
	ErrNoComparableColumns   = &AppError{Type: ErrTypeNoComparableColumns}
	ErrWriteFailure          = &AppError{Type: ErrTypeWriteFailure}
)

// NewFileNotReadableError creates an error for a missing or invalid workbook
func NewFileNotReadableError(message string, cause error) *AppError {
	return NewAppError(ErrTypeFileNotReadable, message, cause)
}

// NewInsufficientSnapshotsError creates an error for workbooks with fewer than two snapshots
func NewInsufficientSnapshotsError(message string) *AppError {
	return NewAppError(ErrTypeInsufficientSnapshots, message, nil)
}

// NewAmbiguousSnapshotsError creates an error for snapshot sheets sharing a date
func NewAmbiguousSnapshotsError(message string) *AppError {
	return NewAppError(ErrTypeAmbiguousSnapshots, message, nil)
}

// NewNoComparableColumnsError creates an error for an empty column set
func NewNoComparableColumnsError(message string) *AppError {
	return NewAppError(ErrTypeNoComparableColumns, message, nil)
}

// NewWriteFailureError creates an error for a failed atomic write
func NewWriteFailureError(message string, cause error) *AppError {
	return NewAppError(ErrTypeWriteFailure, message, cause)
}

// NewInvalidRequestError creates an error for malformed requests
func NewInvalidRequestError(message string) *AppError {
	return NewAppError(ErrTypeInvalidRequest, message, nil)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}
