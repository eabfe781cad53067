package pipeline

import (
	"context"
	"log/slog"

	apperrors "pvcli/internal/errors"
)

// Runner executes steps sequentially. The first validation or execution
// failure stops the run; there are no retries.
type Runner struct {
	logger *slog.Logger
}

// NewRunner creates a runner; a nil logger falls back to the default
func NewRunner(logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{logger: logger}
}

// Run executes the steps in order against the shared state
func (r *Runner) Run(ctx context.Context, state *State, steps ...Step) error {
	if len(steps) == 0 {
		return apperrors.NewInternalError("no steps to run", nil)
	}

	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return apperrors.NewInternalError("run cancelled", err)
		}

		ss := state.RegisterStep(step.ID(), step.Name())
		r.logger.InfoContext(ctx, "step starting",
			slog.String("step", step.ID()),
			slog.String("name", step.Name()))

		if err := step.Validate(ctx, state); err != nil {
			ss.Fail(err)
			r.logger.ErrorContext(ctx, "step validation failed",
				slog.String("step", step.ID()),
				slog.String("error", err.Error()))
			return err
		}

		ss.Start()
		if err := step.Execute(ctx, state); err != nil {
			ss.Fail(err)
			r.logger.ErrorContext(ctx, "step failed",
				slog.String("step", step.ID()),
				slog.Duration("duration", ss.Duration()),
				slog.String("error", err.Error()))
			return err
		}

		ss.Complete()
		r.logger.InfoContext(ctx, "step completed",
			slog.String("step", step.ID()),
			slog.Duration("duration", ss.Duration()))
	}

	return nil
}
