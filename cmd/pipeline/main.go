package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"pvcli/internal/config"
	apperrors "pvcli/internal/errors"
	"pvcli/internal/infrastructure"
	"pvcli/internal/pipeline"
	"pvcli/pkg/contracts"
	"pvcli/pkg/contracts/domain"
)

func main() {
	input := flag.String("input", "", "path to the violations CSV or XLSX file (overrides config)")
	configPath := flag.String("config", "", "path to a YAML config file")
	artifactsDir := flag.String("artifacts", "", "directory for the model, schema, and manifest (overrides config)")
	reportsDir := flag.String("reports", "", "directory for charts and count CSVs (overrides config)")
	splitSeed := flag.Int64("split-seed", 0, "seed for the train/test split (overrides config)")
	modelSeed := flag.Int64("model-seed", 0, "seed for the ensemble fit (overrides config)")
	estimators := flag.Int("estimators", 0, "number of trees in the ensemble (overrides config)")
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

	// Flags override file and environment settings, but only when set
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "input":
			cfg.Input.Path = *input
		case "artifacts":
			cfg.Paths.ArtifactsDir = *artifactsDir
		case "reports":
			cfg.Paths.ReportsDir = *reportsDir
		case "split-seed":
			cfg.Pipeline.SplitSeed = *splitSeed
		case "model-seed":
			cfg.Pipeline.ModelSeed = *modelSeed
		case "estimators":
			cfg.Pipeline.Estimators = *estimators
		case "log-level":
			cfg.Logging.Level = *logLevel
		}
	})

	if cfg.Input.Path == "" {
		slog.Error("no input file; set -input or configure input.path")
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		slog.Error("failed to create output directories", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}

	ctx := infrastructure.EnsureRunID(context.Background())
	runID := infrastructure.GetRunID(ctx)

	logger.InfoContext(ctx, "starting violation analysis pipeline",
		slog.String("run_id", runID),
		slog.String("input", cfg.Input.Path),
		slog.Int64("split_seed", cfg.Pipeline.SplitSeed),
		slog.Int64("model_seed", cfg.Pipeline.ModelSeed),
		slog.Int("estimators", cfg.Pipeline.Estimators))

	state := pipeline.NewState(runID, cfg)
	if err := pipeline.NewRunner(logger).Run(ctx, state, pipeline.DefaultSteps()...); err != nil {
		logger.ErrorContext(ctx, "pipeline failed",
			slog.String("type", string(apperrors.TypeOf(err))),
			slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "pipeline failed: %v\n", err)
		os.Exit(1)
	}

	report, ok := state.Report()
	if !ok {
		logger.ErrorContext(ctx, "pipeline finished without an evaluation report")
		os.Exit(1)
	}

	printReport(os.Stdout, report)
	printArtifacts(os.Stdout, state.Artifacts())
}

// printReport writes the headline metrics, rounded to two decimals
func printReport(w io.Writer, report domain.EvaluationReport) {
	r := report.Rounded()
	fmt.Fprintf(w, "Accuracy:  %.2f\n", r.Accuracy)
	fmt.Fprintf(w, "Precision: %.2f\n", r.Precision)
	fmt.Fprintf(w, "Recall:    %.2f\n", r.Recall)
	fmt.Fprintf(w, "F1 score:  %.2f\n", r.F1)
	fmt.Fprintf(w, "Evaluated on %d test rows (%d train rows)\n", r.TestRows, r.TrainRows)
	if r.SingleClass {
		fmt.Fprintln(w, "Note: the table holds a single precinct; the classifier fit was skipped and the metrics are trivially perfect.")
	}
}

// printArtifacts lists the written artifact paths in a stable order
func printArtifacts(w io.Writer, artifacts map[string]string) {
	order := []string{
		"month_chart", "makes_chart", "month_counts", "make_counts",
		"schema", "model", "class_metrics", "manifest",
	}
	fmt.Fprintln(w, "\nArtifacts:")
	for _, key := range order {
		if path, ok := artifacts[key]; ok {
			fmt.Fprintf(w, "  %-13s %s\n", key, path)
		}
	}
}
