package predict

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/go-gota/gota/dataframe"

	apperrors "pvcli/internal/errors"
	"pvcli/internal/features"
	"pvcli/internal/forest"
	"pvcli/internal/infrastructure"
	"pvcli/pkg/contracts/domain"
)

// Scorer applies a pipeline run's persisted artifacts to new tables.
// Every transformer is restored from the schema, never refitted, so a
// category or label the training run never saw fails instead of silently
// reshaping the matrix.
type Scorer struct {
	schema features.Schema
	enc    *features.Encoder
	codec  *features.LabelCodec
	imp    *features.MeanImputer
	sc     *features.StandardScaler
	model  *forest.Forest
}

// NewScorer loads the schema and model from a run's artifacts directory.
// Single-class runs write no model and cannot be scored.
func NewScorer(artifactsDir string) (*Scorer, error) {
	schema, err := features.LoadSchema(filepath.Join(artifactsDir, domain.SchemaFileName))
	if err != nil {
		return nil, err
	}
	model, err := forest.LoadModel(filepath.Join(artifactsDir, domain.ModelFileName))
	if err != nil {
		return nil, err
	}
	if model.Features() != schema.FeatureWidth() {
		return nil, apperrors.NewSchemaMismatchError(
			fmt.Sprintf("model expects %d features but schema describes %d",
				model.Features(), schema.FeatureWidth()), nil)
	}

	enc, err := features.NewEncoderFromMapping(schema.Columns)
	if err != nil {
		return nil, err
	}
	codec, err := features.NewLabelCodecFromLabels(schema.Labels)
	if err != nil {
		return nil, err
	}

	imp := features.NewMeanImputer(schema.YearColumn)
	imp.SetFillValue(schema.FillValue)
	sc := features.NewStandardScaler(schema.YearColumn)
	sc.SetStats(schema.ScalerMean, schema.ScalerStd)

	return &Scorer{
		schema: schema,
		enc:    enc,
		codec:  codec,
		imp:    imp,
		sc:     sc,
		model:  model,
	}, nil
}

// Score predicts a precinct label per row of a raw table. The table must
// carry the schema's feature columns; the target column is not needed.
func (s *Scorer) Score(ctx context.Context, df dataframe.DataFrame) ([]string, error) {
	logger := infrastructure.LoggerFromContext(ctx)

	prepared, err := s.imp.Transform(df)
	if err != nil {
		return nil, err
	}
	prepared, err = s.sc.Transform(prepared)
	if err != nil {
		return nil, err
	}

	x, err := BuildMatrix(prepared, s.enc, s.schema.YearColumn)
	if err != nil {
		return nil, err
	}

	classes, err := s.model.Predict(x)
	if err != nil {
		return nil, err
	}

	labels := make([]string, len(classes))
	for i, c := range classes {
		label, err := s.codec.Decode(c)
		if err != nil {
			return nil, err
		}
		labels[i] = label
	}

	logger.InfoContext(ctx, "scored table",
		slog.Int("rows", len(labels)),
		slog.Int("feature_width", s.schema.FeatureWidth()))
	return labels, nil
}

// Schema returns the loaded preparation schema
func (s *Scorer) Schema() features.Schema {
	return s.schema
}
