package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the category of a pipeline failure
type ErrorType string

const (
	ErrTypeConfiguration  ErrorType = "CONFIGURATION"
	ErrTypeDataQuality    ErrorType = "DATA_QUALITY"
	ErrTypeSchemaMismatch ErrorType = "SCHEMA_MISMATCH"
	ErrTypeNotFound       ErrorType = "NOT_FOUND"
	ErrTypeInternal       ErrorType = "INTERNAL"
)

// PipelineError represents a pipeline-specific error.
//
// Every failure a stage surfaces to the caller is one of the ErrorType
// categories above. None of them is recoverable mid-run: the pipeline
// computations are deterministic given identical input, so retrying
// without changing the input is pointless and no component retries.
type PipelineError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *PipelineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with PipelineError
func (e *PipelineError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *PipelineError) WithContext(key string, value interface{}) *PipelineError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewPipelineError creates a new pipeline error
func NewPipelineError(errType ErrorType, message string, cause error) *PipelineError {
	return &PipelineError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// Helper functions for the pipeline error categories

// NewConfigurationError reports a bad run setup: missing or unreadable
// input, a required column absent from the table, or invalid settings.
func NewConfigurationError(message string, cause error) *PipelineError {
	return NewPipelineError(ErrTypeConfiguration, message, cause)
}

// NewDataQualityError reports defective input content: unparseable date
// values, or a column that is entirely empty.
func NewDataQualityError(message string, cause error) *PipelineError {
	return NewPipelineError(ErrTypeDataQuality, message, cause)
}

// NewSchemaMismatchError reports a feature table whose indicator-column
// set differs from the persisted encoder schema, typically a category
// value that was never seen at fit time.
func NewSchemaMismatchError(message string, cause error) *PipelineError {
	return NewPipelineError(ErrTypeSchemaMismatch, message, cause)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *PipelineError {
	return NewPipelineError(ErrTypeNotFound, fmt.Sprintf("%s not found", resource), nil)
}

// NewInternalError reports a programming error, such as predicting with
// an unfitted model.
func NewInternalError(message string, cause error) *PipelineError {
	return NewPipelineError(ErrTypeInternal, message, cause)
}

// IsType reports whether err is (or wraps) a PipelineError of the given type
func IsType(err error, errType ErrorType) bool {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Type == errType
	}
	return false
}

// TypeOf returns the ErrorType of err, unwrapping as needed, or
// ErrTypeInternal when err carries no PipelineError.
func TypeOf(err error) ErrorType {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Type
	}
	return ErrTypeInternal
}
