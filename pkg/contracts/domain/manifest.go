package domain

import "time"

// Artifact file names written into the artifacts directory. The scoring
// CLI resolves artifacts by these names, so they are part of the contract
// between a pipeline run and later consumers of its outputs.
const (
	// ModelFileName is the gob-encoded fitted forest
	ModelFileName = "model.gob"

	// SchemaFileName is the JSON category-to-column mapping fitted by the
	// encoder, together with the label codec, imputer fill value, and
	// scaler statistics needed to transform new data identically.
	SchemaFileName = "encoder_schema.json"

	// ManifestFileName ties a run's input, seeds, artifacts, and metrics
	// together.
	ManifestFileName = "manifest.json"
)

// ScalingFullTable documents that scaler statistics were computed over the
// whole table before the train/test split. Held-out metrics from such a
// run are optimistically biased; the manifest records it so the bias is
// never silent.
const ScalingFullTable = "full-table (pre-split)"

// RunManifest records everything needed to account for a pipeline run.
type RunManifest struct {
	RunID     string    `json:"run_id"`
	CreatedAt time.Time `json:"created_at"`

	// InputPath and Rows describe the table the run consumed
	InputPath string `json:"input_path"`
	Rows      int    `json:"rows"`

	// SplitSeed and ModelSeed are recorded separately so a run can be
	// reproduced partition-exactly, fit-exactly, or both.
	SplitSeed    int64   `json:"split_seed"`
	ModelSeed    int64   `json:"model_seed"`
	Estimators   int     `json:"estimators"`
	TestFraction float64 `json:"test_fraction"`

	// Scaling notes where the scaler statistics came from
	Scaling string `json:"scaling"`

	// Artifacts maps artifact kind ("model", "schema", ...) to file path
	Artifacts map[string]string `json:"artifacts"`

	// Metrics is the full-precision evaluation report
	Metrics EvaluationReport `json:"metrics"`
}
