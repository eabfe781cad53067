package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "pvcli/internal/errors"
)

// fakeStep records its invocations on a shared trace so tests can assert
// execution order and fail-fast behavior.
type fakeStep struct {
	id          string
	validateErr error
	executeErr  error
	trace       *[]string
}

func (f *fakeStep) ID() string   { return f.id }
func (f *fakeStep) Name() string { return "fake " + f.id }

func (f *fakeStep) Validate(ctx context.Context, state *State) error {
	*f.trace = append(*f.trace, f.id+":validate")
	return f.validateErr
}

func (f *fakeStep) Execute(ctx context.Context, state *State) error {
	*f.trace = append(*f.trace, f.id+":execute")
	return f.executeErr
}

func TestRunner_RunsStepsInOrder(t *testing.T) {
	var trace []string
	state := newTestState(t)

	err := NewRunner(nil).Run(context.Background(), state,
		&fakeStep{id: "first", trace: &trace},
		&fakeStep{id: "second", trace: &trace},
	)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"first:validate", "first:execute",
		"second:validate", "second:execute",
	}, trace)

	for _, ss := range state.StepStates() {
		assert.Equal(t, StepStatusCompleted, ss.CurrentStatus())
	}
}

func TestRunner_StopsOnValidationFailure(t *testing.T) {
	var trace []string
	state := newTestState(t)
	bad := apperrors.NewConfigurationError("input path is not configured", nil)

	err := NewRunner(nil).Run(context.Background(), state,
		&fakeStep{id: "first", validateErr: bad, trace: &trace},
		&fakeStep{id: "second", trace: &trace},
	)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConfiguration))

	assert.Equal(t, []string{"first:validate"}, trace,
		"the failing step must not execute and later steps must not start")

	ss, ok := state.StepState("first")
	require.True(t, ok)
	assert.Equal(t, StepStatusFailed, ss.CurrentStatus())

	_, ok = state.StepState("second")
	assert.False(t, ok, "steps after the failure are never registered")
}

func TestRunner_StopsOnExecutionFailure(t *testing.T) {
	var trace []string
	state := newTestState(t)
	bad := apperrors.NewDataQualityError("column is entirely empty", nil)

	err := NewRunner(nil).Run(context.Background(), state,
		&fakeStep{id: "first", trace: &trace},
		&fakeStep{id: "second", executeErr: bad, trace: &trace},
		&fakeStep{id: "third", trace: &trace},
	)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeDataQuality))

	assert.Equal(t, []string{
		"first:validate", "first:execute",
		"second:validate", "second:execute",
	}, trace)

	ss, ok := state.StepState("second")
	require.True(t, ok)
	assert.Equal(t, StepStatusFailed, ss.CurrentStatus())
	assert.Equal(t, bad, ss.Err)
}

func TestRunner_NoSteps(t *testing.T) {
	err := NewRunner(nil).Run(context.Background(), newTestState(t))
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeInternal))
}

func TestRunner_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var trace []string
	err := NewRunner(nil).Run(ctx, newTestState(t),
		&fakeStep{id: "first", trace: &trace},
	)
	require.Error(t, err)
	assert.Empty(t, trace, "no step runs once the context is cancelled")
}
