package predict

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pvcli/internal/config"
	apperrors "pvcli/internal/errors"
	"pvcli/internal/features"
	"pvcli/pkg/contracts/domain"
)

// preparedTable builds a 20-row table in post-preparation shape: the
// year column already imputed and scaled. Rows alternate between two
// precincts whose categorical values never overlap, so the ensemble has
// a clean signal to learn.
func preparedTable(t *testing.T) dataframe.DataFrame {
	t.Helper()
	records := [][]string{
		{"Violation Precinct", "Violation Code", "Vehicle Body Type", "Vehicle Make", "Vehicle Year"},
	}
	for i := 0; i < 10; i++ {
		records = append(records,
			[]string{"A", "101", "SEDAN", "FORD", "-1"},
			[]string{"B", "102", "SUV", "HONDA", "1"},
		)
	}
	return newTable(t, records)
}

func testRunConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Input.Path = "violations.csv"
	cfg.Paths.ArtifactsDir = filepath.Join(t.TempDir(), "artifacts")
	cfg.Paths.ReportsDir = filepath.Join(t.TempDir(), "reports")
	cfg.Pipeline.Estimators = 50
	return cfg
}

func testPrepStats() features.PrepStats {
	return features.PrepStats{FillValue: 0, ScalerMean: 0, ScalerStd: 1}
}

func TestRun_EndToEnd(t *testing.T) {
	ctx := context.Background()
	df := preparedTable(t)
	cfg := testRunConfig(t)

	result, err := Run(ctx, df, cfg, "run-1", testPrepStats(), map[string]string{
		"month_chart": "/tmp/reports/violations_by_month.png",
	})
	require.NoError(t, err)

	report := result.Report
	assert.False(t, report.SingleClass)
	assert.Equal(t, 16, report.TrainRows)
	assert.Equal(t, 4, report.TestRows)
	require.NoError(t, report.Validate())

	// the two precincts are perfectly separable, so the vote is unanimous
	assert.Equal(t, 1.0, report.Accuracy)
	assert.Equal(t, 1.0, report.F1)

	for _, key := range []string{"schema", "model", "class_metrics", "manifest"} {
		path, ok := result.Artifacts[key]
		require.True(t, ok, "artifact %q missing from result", key)
		info, err := os.Stat(path)
		require.NoError(t, err, "artifact %q not on disk", key)
		assert.Greater(t, info.Size(), int64(0))
	}
	assert.Equal(t, "/tmp/reports/violations_by_month.png", result.Artifacts["month_chart"],
		"earlier-stage artifacts must survive the merge")
}

func TestRun_PersistsSchemaAndManifest(t *testing.T) {
	ctx := context.Background()
	df := preparedTable(t)
	cfg := testRunConfig(t)
	prep := features.PrepStats{FillValue: 2014.5, ScalerMean: 2014.5, ScalerStd: 2.25}

	result, err := Run(ctx, df, cfg, "run-2", prep, nil)
	require.NoError(t, err)

	schema, err := features.LoadSchema(result.Artifacts["schema"])
	require.NoError(t, err)
	require.Len(t, schema.Columns, 3)
	assert.Equal(t, features.ColumnMapping{
		Name:       "Violation Code",
		Categories: []string{"101", "102"},
	}, schema.Columns[0])
	assert.Equal(t, features.ColumnMapping{
		Name:       "Vehicle Body Type",
		Categories: []string{"SEDAN", "SUV"},
	}, schema.Columns[1])
	assert.Equal(t, features.ColumnMapping{
		Name:       "Vehicle Make",
		Categories: []string{"FORD", "HONDA"},
	}, schema.Columns[2])
	assert.Equal(t, []string{"A", "B"}, schema.Labels)
	assert.Equal(t, "Vehicle Year", schema.YearColumn)
	assert.Equal(t, prep, schema.Stats())

	manifest, err := ReadManifest(result.Artifacts["manifest"])
	require.NoError(t, err)
	assert.Equal(t, "run-2", manifest.RunID)
	assert.Equal(t, "violations.csv", manifest.InputPath)
	assert.Equal(t, 20, manifest.Rows)
	assert.Equal(t, cfg.Pipeline.SplitSeed, manifest.SplitSeed)
	assert.Equal(t, cfg.Pipeline.ModelSeed, manifest.ModelSeed)
	assert.Equal(t, cfg.Pipeline.Estimators, manifest.Estimators)
	assert.Equal(t, cfg.Pipeline.TestFraction, manifest.TestFraction)
	assert.Equal(t, domain.ScalingFullTable, manifest.Scaling)
	assert.Equal(t, result.Report.Accuracy, manifest.Metrics.Accuracy)
	assert.Contains(t, manifest.Artifacts, "schema")
	assert.Contains(t, manifest.Artifacts, "model")
	assert.Contains(t, manifest.Artifacts, "class_metrics")
}

func TestRun_SeedsReproduceTheReport(t *testing.T) {
	ctx := context.Background()
	df := preparedTable(t)

	first, err := Run(ctx, df, testRunConfig(t), "run-a", testPrepStats(), nil)
	require.NoError(t, err)
	second, err := Run(ctx, df, testRunConfig(t), "run-b", testPrepStats(), nil)
	require.NoError(t, err)

	assert.Equal(t, first.Report, second.Report,
		"identical seeds over the same table must yield identical metrics")
}

func TestRun_SingleClassSkipsTheEnsemble(t *testing.T) {
	ctx := context.Background()
	records := [][]string{
		{"Violation Precinct", "Violation Code", "Vehicle Body Type", "Vehicle Make", "Vehicle Year"},
	}
	for i := 0; i < 10; i++ {
		records = append(records, []string{"A", "101", "SEDAN", "FORD", "0"})
	}
	df := newTable(t, records)
	cfg := testRunConfig(t)

	result, err := Run(ctx, df, cfg, "run-degenerate", testPrepStats(), nil)
	require.NoError(t, err, "a single-class table is flagged, not rejected")

	report := result.Report
	assert.True(t, report.SingleClass)
	assert.Equal(t, 1.0, report.Accuracy)
	assert.Equal(t, 1.0, report.Precision)
	assert.Equal(t, 1.0, report.Recall)
	assert.Equal(t, 1.0, report.F1)
	assert.Equal(t, 8, report.TrainRows)
	assert.Equal(t, 2, report.TestRows)
	require.Len(t, report.Classes, 1)
	assert.Equal(t, "A", report.Classes[0].Label)
	assert.Equal(t, report.TestRows, report.Classes[0].Support)

	assert.NotContains(t, result.Artifacts, "model",
		"no ensemble is fitted for a single-class table")
	assert.Contains(t, result.Artifacts, "schema")
	assert.Contains(t, result.Artifacts, "manifest")

	manifest, err := ReadManifest(result.Artifacts["manifest"])
	require.NoError(t, err)
	assert.True(t, manifest.Metrics.SingleClass)
}

func TestRun_ClassMetricsExport(t *testing.T) {
	ctx := context.Background()
	df := preparedTable(t)
	cfg := testRunConfig(t)

	result, err := Run(ctx, df, cfg, "run-3", testPrepStats(), nil)
	require.NoError(t, err)

	raw, err := os.ReadFile(result.Artifacts["class_metrics"])
	require.NoError(t, err)
	content := strings.TrimPrefix(string(raw), "\uFEFF")
	lines := strings.Split(strings.TrimSpace(content), "\n")
	require.Len(t, lines, 3, "header plus one row per class")
	assert.Equal(t, "Class,Precision,Recall,F1,Support", strings.TrimSpace(lines[0]))
	assert.True(t, strings.HasPrefix(lines[1], "A,"))
	assert.True(t, strings.HasPrefix(lines[2], "B,"))
}

func TestRun_PropagatesColumnErrors(t *testing.T) {
	ctx := context.Background()
	df := newTable(t, [][]string{
		{"Violation Precinct", "Violation Code"},
		{"A", "101"},
	})

	_, err := Run(ctx, df, testRunConfig(t), "run-bad", testPrepStats(), nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConfiguration))
}
