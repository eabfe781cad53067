package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/go-gota/gota/dataframe"

	"pvcli/internal/config"
	"pvcli/internal/dataset"
	apperrors "pvcli/internal/errors"
	"pvcli/internal/exporter"
	"pvcli/internal/infrastructure"
	"pvcli/internal/predict"
	"pvcli/pkg/contracts"
)

func main() {
	input := flag.String("input", "", "path to the table to score (overrides config)")
	artifactsDir := flag.String("artifacts", "artifacts", "artifacts directory of a completed pipeline run")
	output := flag.String("output", "predictions.csv", "path for the predictions CSV")
	configPath := flag.String("config", "", "path to a YAML config file")
	logLevel := flag.String("log-level", "", "log level: debug, info, warn, error (overrides config)")
	showVersion := flag.Bool("version", false, "print version information and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(contracts.GetFullVersionString())
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "input":
			cfg.Input.Path = *input
		case "log-level":
			cfg.Logging.Level = *logLevel
		}
	})
	if cfg.Input.Path == "" {
		slog.Error("no input file; set -input or configure input.path")
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}

	ctx := infrastructure.EnsureRunID(context.Background())

	scorer, err := predict.NewScorer(*artifactsDir)
	if err != nil {
		if apperrors.IsType(err, apperrors.ErrTypeNotFound) {
			logger.ErrorContext(ctx, "no model artifacts found; run the pipeline first",
				slog.String("artifacts_dir", *artifactsDir),
				slog.String("error", err.Error()))
		} else {
			logger.ErrorContext(ctx, "failed to restore model artifacts",
				slog.String("error", err.Error()))
		}
		os.Exit(1)
	}

	df, err := loadTable(cfg)
	if err != nil {
		logger.ErrorContext(ctx, "failed to load input table", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// The score table needs the schema's feature columns; the precinct
	// column is what we are predicting and is not required.
	schema := scorer.Schema()
	required := make([]string, 0, len(schema.Columns)+1)
	for _, col := range schema.Columns {
		required = append(required, col.Name)
	}
	required = append(required, schema.YearColumn)
	if err := dataset.ValidateColumns(df, required); err != nil {
		logger.ErrorContext(ctx, "input table is missing feature columns", slog.String("error", err.Error()))
		os.Exit(1)
	}

	labels, err := scorer.Score(ctx, df)
	if err != nil {
		logger.ErrorContext(ctx, "scoring failed",
			slog.String("type", string(apperrors.TypeOf(err))),
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := writePredictions(*output, labels); err != nil {
		logger.ErrorContext(ctx, "failed to write predictions", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.InfoContext(ctx, "predictions written",
		slog.String("path", *output),
		slog.Int("rows", len(labels)))
	fmt.Printf("Scored %d rows; predictions written to %s\n", len(labels), *output)
}

// loadTable reads the input without requiring the target column
func loadTable(cfg *config.Config) (dataframe.DataFrame, error) {
	switch cfg.Input.Format {
	case "xlsx":
		return dataset.LoadXLSX(cfg.Input.Path, cfg.Input.Sheet)
	default:
		return dataset.LoadCSV(cfg.Input.Path, []rune(cfg.Input.Delimiter)[0])
	}
}

// writePredictions streams one row per scored table row
func writePredictions(path string, labels []string) error {
	writer := exporter.NewCSVWriter("")
	stream, err := writer.CreateStreamWriter(path, []string{"Row", "Predicted Precinct"})
	if err != nil {
		return err
	}

	for i, label := range labels {
		if err := stream.WriteRecord([]string{strconv.Itoa(i + 1), label}); err != nil {
			stream.Close()
			return err
		}
	}
	return stream.Close()
}
