package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorType_Constants(t *testing.T) {
	tests := []struct {
		name     string
		errType  ErrorType
		expected string
	}{
		{
			name:     "configuration error type",
			errType:  ErrTypeConfiguration,
			expected: "CONFIGURATION",
		},
		{
			name:     "data quality error type",
			errType:  ErrTypeDataQuality,
			expected: "DATA_QUALITY",
		},
		{
			name:     "schema mismatch error type",
			errType:  ErrTypeSchemaMismatch,
			expected: "SCHEMA_MISMATCH",
		},
		{
			name:     "not found error type",
			errType:  ErrTypeNotFound,
			expected: "NOT_FOUND",
		},
		{
			name:     "internal error type",
			errType:  ErrTypeInternal,
			expected: "INTERNAL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(tt.errType))
		})
	}
}

func TestPipelineError_Error(t *testing.T) {
	tests := []struct {
		name        string
		err         *PipelineError
		wantMessage string
	}{
		{
			name: "error without cause",
			err: &PipelineError{
				Type:    ErrTypeConfiguration,
				Message: "required column missing",
				Cause:   nil,
			},
			wantMessage: "[CONFIGURATION] required column missing",
		},
		{
			name: "error with cause",
			err: &PipelineError{
				Type:    ErrTypeDataQuality,
				Message: "failed to parse issue date",
				Cause:   fmt.Errorf("cannot parse \"13/45/2023\""),
			},
			wantMessage: "[DATA_QUALITY] failed to parse issue date: cannot parse \"13/45/2023\"",
		},
		{
			name: "schema mismatch with cause",
			err: &PipelineError{
				Type:    ErrTypeSchemaMismatch,
				Message: "unmapped category",
				Cause:   errors.New("value TESLA not in schema"),
			},
			wantMessage: "[SCHEMA_MISMATCH] unmapped category: value TESLA not in schema",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMessage, tt.err.Error())
		})
	}
}

func TestPipelineError_Unwrap(t *testing.T) {
	t.Run("unwrap with cause", func(t *testing.T) {
		cause := fmt.Errorf("original error")
		err := NewDataQualityError("bad column", cause)
		assert.Equal(t, cause, err.Unwrap())
	})

	t.Run("unwrap without cause", func(t *testing.T) {
		err := NewConfigurationError("bad setting", nil)
		assert.Nil(t, err.Unwrap())
	})
}

func TestPipelineError_WithContext(t *testing.T) {
	tests := []struct {
		name          string
		err           *PipelineError
		key           string
		value         interface{}
		expectedValue interface{}
	}{
		{
			name: "add string context",
			err: &PipelineError{
				Type:    ErrTypeConfiguration,
				Message: "input file missing",
			},
			key:           "path",
			value:         "/data/violations.csv",
			expectedValue: "/data/violations.csv",
		},
		{
			name: "add integer context",
			err: &PipelineError{
				Type:    ErrTypeDataQuality,
				Message: "unparseable date",
			},
			key:           "row",
			value:         17,
			expectedValue: 17,
		},
		{
			name: "add context to error with existing context",
			err: &PipelineError{
				Type:    ErrTypeSchemaMismatch,
				Message: "unmapped category",
				Context: map[string]interface{}{"column": "Vehicle Make"},
			},
			key:           "value",
			value:         "TESLA",
			expectedValue: "TESLA",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.err.WithContext(tt.key, tt.value)

			// Should return the same instance
			assert.Same(t, tt.err, result)

			require.Contains(t, result.Context, tt.key)
			assert.Equal(t, tt.expectedValue, result.Context[tt.key])
			assert.NotNil(t, result.Context)
		})
	}
}

func TestNewPipelineError_Constructors(t *testing.T) {
	tests := []struct {
		name     string
		build    func() *PipelineError
		wantType ErrorType
		wantMsg  string
	}{
		{
			name:     "configuration constructor",
			build:    func() *PipelineError { return NewConfigurationError("missing input", nil) },
			wantType: ErrTypeConfiguration,
			wantMsg:  "missing input",
		},
		{
			name:     "data quality constructor",
			build:    func() *PipelineError { return NewDataQualityError("empty column", nil) },
			wantType: ErrTypeDataQuality,
			wantMsg:  "empty column",
		},
		{
			name:     "schema mismatch constructor",
			build:    func() *PipelineError { return NewSchemaMismatchError("unmapped category", nil) },
			wantType: ErrTypeSchemaMismatch,
			wantMsg:  "unmapped category",
		},
		{
			name:     "not found constructor formats resource",
			build:    func() *PipelineError { return NewNotFoundError("model artifact") },
			wantType: ErrTypeNotFound,
			wantMsg:  "model artifact not found",
		},
		{
			name:     "internal constructor",
			build:    func() *PipelineError { return NewInternalError("forest not fitted", nil) },
			wantType: ErrTypeInternal,
			wantMsg:  "forest not fitted",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.build()

			assert.Equal(t, tt.wantType, got.Type)
			assert.Equal(t, tt.wantMsg, got.Message)
			assert.NotNil(t, got.Context)
			assert.Empty(t, got.Context)
		})
	}
}

func TestIsType(t *testing.T) {
	t.Run("matches direct error", func(t *testing.T) {
		err := NewSchemaMismatchError("unmapped category", nil)

		assert.True(t, IsType(err, ErrTypeSchemaMismatch))
		assert.False(t, IsType(err, ErrTypeConfiguration))
	})

	t.Run("matches wrapped error", func(t *testing.T) {
		inner := NewDataQualityError("empty column", nil)
		wrapped := fmt.Errorf("prepare stage: %w", inner)

		assert.True(t, IsType(wrapped, ErrTypeDataQuality))
	})

	t.Run("plain error matches nothing", func(t *testing.T) {
		assert.False(t, IsType(errors.New("plain"), ErrTypeDataQuality))
	})
}

func TestTypeOf(t *testing.T) {
	t.Run("returns type of wrapped pipeline error", func(t *testing.T) {
		inner := NewConfigurationError("bad fraction", nil)
		wrapped := fmt.Errorf("load config: %w", inner)

		assert.Equal(t, ErrTypeConfiguration, TypeOf(wrapped))
	})

	t.Run("plain error is internal", func(t *testing.T) {
		assert.Equal(t, ErrTypeInternal, TypeOf(errors.New("plain")))
	})
}

func TestPipelineError_ErrorsIntegration(t *testing.T) {
	t.Run("errors.Is works through PipelineError", func(t *testing.T) {
		originalErr := fmt.Errorf("open failed")
		err := NewConfigurationError("input unreadable", originalErr)

		assert.True(t, errors.Is(err, originalErr))

		otherErr := fmt.Errorf("other error")
		assert.False(t, errors.Is(err, otherErr))
	})

	t.Run("errors.As works with PipelineError", func(t *testing.T) {
		original := NewDataQualityError("empty make column", nil)
		wrapped := fmt.Errorf("report stage: %w", original)

		var pe *PipelineError
		assert.True(t, errors.As(wrapped, &pe))
		assert.Equal(t, ErrTypeDataQuality, pe.Type)
		assert.Equal(t, "empty make column", pe.Message)
	})

	t.Run("nested pipeline errors unwrap in order", func(t *testing.T) {
		root := fmt.Errorf("root cause")
		inner := NewDataQualityError("column empty", root)
		outer := NewInternalError("stage failed", inner)

		assert.True(t, errors.Is(outer, inner))
		assert.True(t, errors.Is(outer, root))

		// errors.As stops at the outermost PipelineError
		var pe *PipelineError
		require.True(t, errors.As(outer, &pe))
		assert.Equal(t, ErrTypeInternal, pe.Type)
	})
}

func TestPipelineError_ContextChaining(t *testing.T) {
	err := NewSchemaMismatchError("unmapped category", nil).
		WithContext("column", "Vehicle Make").
		WithContext("value", "TESLA").
		WithContext("row", 41)

	assert.Equal(t, "Vehicle Make", err.Context["column"])
	assert.Equal(t, "TESLA", err.Context["value"])
	assert.Equal(t, 41, err.Context["row"])
}
