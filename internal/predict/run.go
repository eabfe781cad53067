package predict

import (
	"context"
	"log/slog"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-gota/gota/dataframe"

	"pvcli/internal/config"
	"pvcli/internal/exporter"
	"pvcli/internal/features"
	"pvcli/internal/forest"
	"pvcli/internal/infrastructure"
	"pvcli/pkg/contracts/domain"
)

// ClassMetricsFileName is the per-class breakdown written to the reports
// directory.
const ClassMetricsFileName = "per_class_metrics.csv"

// Result is what a prediction run produces: the full-precision
// evaluation report and the paths of every artifact written.
type Result struct {
	Report    domain.EvaluationReport
	Artifacts map[string]string
}

// Run executes the supervised stage against a prepared table: fit and
// persist the encoder schema, assemble the feature matrix, split, train
// the forest, evaluate on the held-out rows, and write the model,
// per-class metrics, and run manifest.
//
// priorArtifacts are paths written by earlier stages (charts, count
// CSVs); they are merged into the manifest so one file accounts for the
// whole run.
func Run(ctx context.Context, df dataframe.DataFrame, cfg *config.Config, runID string, prep features.PrepStats, priorArtifacts map[string]string) (Result, error) {
	logger := infrastructure.LoggerFromContext(ctx)

	selected, err := SelectColumns(df, cfg.Columns)
	if err != nil {
		return Result{}, err
	}
	targets := selected.Col(cfg.Columns.Precinct).Records()

	codec := features.NewLabelCodec()
	if err := codec.Fit(targets); err != nil {
		return Result{}, err
	}

	enc := features.NewEncoder(cfg.Columns.Categorical())
	if err := enc.Fit(selected); err != nil {
		return Result{}, err
	}

	artifacts := make(map[string]string, len(priorArtifacts)+4)
	for k, v := range priorArtifacts {
		artifacts[k] = v
	}

	schema := features.BuildSchema(enc, codec, cfg.Columns.Year, prep)
	schemaPath := filepath.Join(cfg.Paths.ArtifactsDir, domain.SchemaFileName)
	if err := features.SaveSchema(schemaPath, schema); err != nil {
		return Result{}, err
	}
	artifacts["schema"] = schemaPath
	logger.InfoContext(ctx, "persisted encoder schema",
		slog.String("path", schemaPath),
		slog.Int("feature_width", schema.FeatureWidth()),
		slog.Int("classes", codec.Classes()))

	x, err := BuildMatrix(selected, enc, cfg.Columns.Year)
	if err != nil {
		return Result{}, err
	}
	y, err := codec.Encode(targets)
	if err != nil {
		return Result{}, err
	}

	train, test, err := Split(selected.Nrow(), cfg.Pipeline.TestFraction, cfg.Pipeline.SplitSeed)
	if err != nil {
		return Result{}, err
	}
	logger.InfoContext(ctx, "partitioned table",
		slog.Int("train_rows", len(train)),
		slog.Int("test_rows", len(test)),
		slog.Int64("split_seed", cfg.Pipeline.SplitSeed))

	// the scaler saw every row, including the ones held out below
	logger.WarnContext(ctx, "scaler statistics were fitted on the full table before the split; held-out metrics are optimistically biased",
		slog.String("scaling", domain.ScalingFullTable))

	var report domain.EvaluationReport
	if codec.Classes() == 1 {
		logger.WarnContext(ctx, "table has a single target class; ensemble fit skipped",
			slog.String("class", codec.Labels()[0]))
		report = singleClassReport(codec.Labels()[0], len(train), len(test))
	} else {
		f := forest.New(
			forest.WithEstimators(cfg.Pipeline.Estimators),
			forest.WithMaxDepth(cfg.Pipeline.MaxDepth),
			forest.WithMinSamplesSplit(cfg.Pipeline.MinSamplesSplit),
			forest.WithSeed(cfg.Pipeline.ModelSeed),
			forest.WithWorkers(cfg.Pipeline.Workers),
		)
		if err := f.Fit(ctx, matrixRows(x, train), labelRows(y, train), codec.Classes()); err != nil {
			return Result{}, err
		}
		logger.InfoContext(ctx, "fitted ensemble",
			slog.Int("estimators", cfg.Pipeline.Estimators),
			slog.Int64("model_seed", cfg.Pipeline.ModelSeed))

		modelPath := filepath.Join(cfg.Paths.ArtifactsDir, domain.ModelFileName)
		if err := forest.SaveModel(modelPath, f); err != nil {
			return Result{}, err
		}
		artifacts["model"] = modelPath

		preds, err := f.Predict(matrixRows(x, test))
		if err != nil {
			return Result{}, err
		}
		report, err = forest.WeightedReport(labelRows(y, test), preds, codec.Labels())
		if err != nil {
			return Result{}, err
		}
		report.TrainRows = len(train)
	}

	if err := report.Validate(); err != nil {
		return Result{}, err
	}

	writer := exporter.NewCSVWriter(cfg.Paths.ReportsDir)
	if err := writeClassMetrics(writer, report); err != nil {
		return Result{}, err
	}
	artifacts["class_metrics"] = filepath.Join(cfg.Paths.ReportsDir, ClassMetricsFileName)

	manifest := domain.RunManifest{
		RunID:        runID,
		CreatedAt:    time.Now().UTC(),
		InputPath:    cfg.Input.Path,
		Rows:         df.Nrow(),
		SplitSeed:    cfg.Pipeline.SplitSeed,
		ModelSeed:    cfg.Pipeline.ModelSeed,
		Estimators:   cfg.Pipeline.Estimators,
		TestFraction: cfg.Pipeline.TestFraction,
		Scaling:      domain.ScalingFullTable,
		Artifacts:    artifacts,
		Metrics:      report,
	}
	manifestPath := filepath.Join(cfg.Paths.ArtifactsDir, domain.ManifestFileName)
	if err := WriteManifest(manifestPath, manifest); err != nil {
		return Result{}, err
	}
	artifacts["manifest"] = manifestPath

	logger.InfoContext(ctx, "evaluation complete",
		slog.Float64("accuracy", domain.Round2(report.Accuracy)),
		slog.Float64("precision", domain.Round2(report.Precision)),
		slog.Float64("recall", domain.Round2(report.Recall)),
		slog.Float64("f1", domain.Round2(report.F1)),
		slog.Bool("single_class", report.SingleClass))

	return Result{Report: report, Artifacts: artifacts}, nil
}

// singleClassReport is the degenerate result for a table whose target
// holds exactly one class: every test row is trivially predicted right.
func singleClassReport(label string, trainRows, testRows int) domain.EvaluationReport {
	return domain.EvaluationReport{
		Accuracy:    1,
		Precision:   1,
		Recall:      1,
		F1:          1,
		TrainRows:   trainRows,
		TestRows:    testRows,
		SingleClass: true,
		Classes: []domain.ClassMetrics{{
			Label:     label,
			Precision: 1,
			Recall:    1,
			F1:        1,
			Support:   testRows,
		}},
	}
}

// writeClassMetrics exports the per-class breakdown, two decimals per
// metric to match the displayed report.
func writeClassMetrics(w *exporter.CSVWriter, report domain.EvaluationReport) error {
	rounded := report.Rounded()
	records := make([][]string, len(rounded.Classes))
	for i, c := range rounded.Classes {
		records[i] = []string{
			c.Label,
			strconv.FormatFloat(c.Precision, 'f', 2, 64),
			strconv.FormatFloat(c.Recall, 'f', 2, 64),
			strconv.FormatFloat(c.F1, 'f', 2, 64),
			strconv.Itoa(c.Support),
		}
	}
	return w.WriteSimpleCSV(ClassMetricsFileName,
		[]string{"Class", "Precision", "Recall", "F1", "Support"}, records)
}
