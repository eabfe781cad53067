package pipeline

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/go-gota/gota/dataframe"

	"pvcli/internal/dataset"
	apperrors "pvcli/internal/errors"
	"pvcli/internal/exporter"
	"pvcli/internal/features"
	"pvcli/internal/infrastructure"
	"pvcli/internal/predict"
	"pvcli/internal/report"
	"pvcli/pkg/contracts/domain"
)

// Step identifiers, in execution order
const (
	StepIDLoad    = "load"
	StepIDPrepare = "prepare"
	StepIDReport  = "report"
	StepIDPredict = "predict"
)

// DefaultSteps returns the full pipeline in execution order: load the
// table, prepare features, render the reports, then fit and evaluate.
func DefaultSteps() []Step {
	return []Step{
		NewLoadStep(),
		NewPrepareStep(),
		NewReportStep(),
		NewPredictStep(),
	}
}

func requireTable(state *State) (dataframe.DataFrame, error) {
	df, ok := state.Table()
	if !ok {
		return dataframe.DataFrame{}, apperrors.NewInternalError(
			"no table in the run state; the load step must run first", nil)
	}
	return df, nil
}

// LoadStep reads the configured violations table into the run state
type LoadStep struct{}

// NewLoadStep creates the load step
func NewLoadStep() *LoadStep {
	return &LoadStep{}
}

// ID returns the step identifier
func (s *LoadStep) ID() string { return StepIDLoad }

// Name returns the human-readable step name
func (s *LoadStep) Name() string { return "Load violations table" }

// Validate checks the input configuration
func (s *LoadStep) Validate(ctx context.Context, state *State) error {
	if state.Config().Input.Path == "" {
		return apperrors.NewConfigurationError("input path is not configured", nil)
	}
	return nil
}

// Execute loads the table and profiles its missing entries
func (s *LoadStep) Execute(ctx context.Context, state *State) error {
	cfg := state.Config()

	df, err := dataset.Load(ctx, cfg)
	if err != nil {
		return err
	}
	dataset.Describe(ctx, df, cfg.Columns.Required())

	state.SetTable(df)
	return nil
}

// PrepareStep imputes the vehicle year, derives the issue month and
// year columns, and standardizes the vehicle year. The fitted fill
// value and scaler statistics are recorded on the state so the
// prediction step can persist them alongside the encoder schema.
type PrepareStep struct{}

// NewPrepareStep creates the preparation step
func NewPrepareStep() *PrepareStep {
	return &PrepareStep{}
}

// ID returns the step identifier
func (s *PrepareStep) ID() string { return StepIDPrepare }

// Name returns the human-readable step name
func (s *PrepareStep) Name() string { return "Prepare features" }

// Validate checks that a table has been loaded
func (s *PrepareStep) Validate(ctx context.Context, state *State) error {
	_, err := requireTable(state)
	return err
}

// Execute runs the three feature transformations in order
func (s *PrepareStep) Execute(ctx context.Context, state *State) error {
	logger := infrastructure.LoggerFromContext(ctx)
	cfg := state.Config()

	df, err := requireTable(state)
	if err != nil {
		return err
	}

	imputer := features.NewMeanImputer(cfg.Columns.Year)
	df, err = imputer.FitTransform(df)
	if err != nil {
		return err
	}

	df, err = features.DeriveCalendar(df, cfg.Columns.IssueDate)
	if err != nil {
		return err
	}

	// scaling statistics are fitted after imputation, over the full table
	scaler := features.NewStandardScaler(cfg.Columns.Year)
	df, err = scaler.FitTransform(df)
	if err != nil {
		return err
	}

	state.SetPreparation(features.PrepStats{
		FillValue:  imputer.FillValue(),
		ScalerMean: scaler.Mean(),
		ScalerStd:  scaler.Std(),
	})
	state.SetTable(df)

	logger.InfoContext(ctx, "table prepared",
		slog.Int("rows", df.Nrow()),
		slog.Float64("fill_value", imputer.FillValue()),
		slog.Float64("scaler_mean", scaler.Mean()),
		slog.Float64("scaler_std", scaler.Std()))
	return nil
}

// ReportStep renders the two violation charts and exports the tallies
// behind them.
type ReportStep struct{}

// NewReportStep creates the reporting step
func NewReportStep() *ReportStep {
	return &ReportStep{}
}

// ID returns the step identifier
func (s *ReportStep) ID() string { return StepIDReport }

// Name returns the human-readable step name
func (s *ReportStep) Name() string { return "Render violation reports" }

// Validate checks that a prepared table is available
func (s *ReportStep) Validate(ctx context.Context, state *State) error {
	df, err := requireTable(state)
	if err != nil {
		return err
	}
	return dataset.ValidateColumns(df, []string{domain.ColumnIssueMonth})
}

// Execute renders both charts and writes the count CSVs
func (s *ReportStep) Execute(ctx context.Context, state *State) error {
	logger := infrastructure.LoggerFromContext(ctx)
	cfg := state.Config()

	df, err := requireTable(state)
	if err != nil {
		return err
	}

	months, err := report.CountByMonth(df)
	if err != nil {
		return err
	}
	makes, err := report.TopMakes(df, cfg.Columns.Make, cfg.Pipeline.TopMakes)
	if err != nil {
		return err
	}

	monthChart := filepath.Join(cfg.Paths.ReportsDir, report.MonthChartFileName)
	if err := report.RenderMonthChart(months, monthChart); err != nil {
		return err
	}
	state.SetArtifact("month_chart", monthChart)

	makesChart := filepath.Join(cfg.Paths.ReportsDir, report.MakesChartFileName)
	if err := report.RenderTopMakesChart(makes, makesChart); err != nil {
		return err
	}
	state.SetArtifact("makes_chart", makesChart)

	writer := exporter.NewCSVWriter(cfg.Paths.ReportsDir)
	if err := report.ExportMonthCounts(writer, months, report.MonthCountsFileName); err != nil {
		return err
	}
	state.SetArtifact("month_counts", filepath.Join(cfg.Paths.ReportsDir, report.MonthCountsFileName))

	if err := report.ExportMakeCounts(writer, makes, report.MakeCountsFileName); err != nil {
		return err
	}
	state.SetArtifact("make_counts", filepath.Join(cfg.Paths.ReportsDir, report.MakeCountsFileName))

	logger.InfoContext(ctx, "reports rendered",
		slog.Int("months", len(months)),
		slog.Int("makes", len(makes)),
		slog.String("dir", cfg.Paths.ReportsDir))
	return nil
}

// PredictStep fits the precinct classifier and evaluates it on the
// held-out rows. It consumes the preparation statistics recorded by the
// prepare step and merges its artifact paths into the state.
type PredictStep struct{}

// NewPredictStep creates the prediction step
func NewPredictStep() *PredictStep {
	return &PredictStep{}
}

// ID returns the step identifier
func (s *PredictStep) ID() string { return StepIDPredict }

// Name returns the human-readable step name
func (s *PredictStep) Name() string { return "Fit and evaluate classifier" }

// Validate checks that the prepare step has run
func (s *PredictStep) Validate(ctx context.Context, state *State) error {
	if _, err := requireTable(state); err != nil {
		return err
	}
	if _, ok := state.Preparation(); !ok {
		return apperrors.NewInternalError(
			"no preparation statistics in the run state; the prepare step must run first", nil)
	}
	return nil
}

// Execute delegates to the prediction stage and records its outputs
func (s *PredictStep) Execute(ctx context.Context, state *State) error {
	df, err := requireTable(state)
	if err != nil {
		return err
	}
	prep, _ := state.Preparation()

	result, err := predict.Run(ctx, df, state.Config(), state.RunID(), prep, state.Artifacts())
	if err != nil {
		return err
	}

	state.SetReport(result.Report)
	for name, path := range result.Artifacts {
		state.SetArtifact(name, path)
	}
	return nil
}
