package features

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	apperrors "pvcli/internal/errors"
	"pvcli/pkg/contracts"
)

// PrepStats carries the fitted preparation statistics between stages:
// the imputer fill value and the scaler mean and std.
type PrepStats struct {
	FillValue  float64
	ScalerMean float64
	ScalerStd  float64
}

// Schema is the persisted preparation artifact. It pins every
// data-dependent piece of the transform pipeline so a scoring run
// reproduces exactly the layout the model was trained on: the one-hot
// mapping, the target labels, the imputer fill value, and the scaler
// statistics.
type Schema struct {
	Version    string          `json:"version"`
	Columns    []ColumnMapping `json:"columns"`
	Labels     []string        `json:"labels"`
	YearColumn string          `json:"year_column"`
	FillValue  float64         `json:"fill_value"`
	ScalerMean float64         `json:"scaler_mean"`
	ScalerStd  float64         `json:"scaler_std"`
}

// BuildSchema assembles the artifact from fitted components
func BuildSchema(enc *Encoder, codec *LabelCodec, yearColumn string, stats PrepStats) Schema {
	return Schema{
		Version:    contracts.SchemaFormatVersion,
		Columns:    enc.Mapping(),
		Labels:     codec.Labels(),
		YearColumn: yearColumn,
		FillValue:  stats.FillValue,
		ScalerMean: stats.ScalerMean,
		ScalerStd:  stats.ScalerStd,
	}
}

// Stats returns the preparation statistics stored in the schema
func (s Schema) Stats() PrepStats {
	return PrepStats{
		FillValue:  s.FillValue,
		ScalerMean: s.ScalerMean,
		ScalerStd:  s.ScalerStd,
	}
}

// Validate checks that the schema is complete enough to score with
func (s Schema) Validate() error {
	if s.Version != contracts.SchemaFormatVersion {
		return apperrors.NewSchemaMismatchError(
			fmt.Sprintf("unsupported schema version %q, want %q", s.Version, contracts.SchemaFormatVersion), nil)
	}
	if len(s.Columns) == 0 {
		return apperrors.NewSchemaMismatchError("schema has no encoded columns", nil)
	}
	for _, cm := range s.Columns {
		if cm.Name == "" || len(cm.Categories) == 0 {
			return apperrors.NewSchemaMismatchError(
				fmt.Sprintf("schema column %q has no categories", cm.Name), nil)
		}
	}
	if len(s.Labels) == 0 {
		return apperrors.NewSchemaMismatchError("schema has no target labels", nil)
	}
	if s.YearColumn == "" {
		return apperrors.NewSchemaMismatchError("schema has no year column", nil)
	}
	if s.ScalerStd == 0 {
		return apperrors.NewSchemaMismatchError("schema scaler std is zero", nil)
	}
	return nil
}

// FeatureWidth returns the model input width the schema implies: all
// indicator columns plus the scaled year column.
func (s Schema) FeatureWidth() int {
	n := 1
	for _, cm := range s.Columns {
		n += len(cm.Categories)
	}
	return n
}

// SaveSchema writes the schema as indented JSON, creating parent
// directories as needed.
func SaveSchema(path string, s Schema) error {
	if err := s.Validate(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return apperrors.NewInternalError("failed to marshal schema", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return apperrors.NewConfigurationError(
			fmt.Sprintf("failed to create schema directory for %s", path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return apperrors.NewConfigurationError(
			fmt.Sprintf("failed to write schema to %s", path), err)
	}
	return nil
}

// LoadSchema reads and validates a persisted schema
func LoadSchema(path string) (Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Schema{}, apperrors.NewNotFoundError(fmt.Sprintf("schema file %s", path))
		}
		return Schema{}, apperrors.NewConfigurationError(
			fmt.Sprintf("failed to read schema from %s", path), err)
	}
	var s Schema
	if err := json.Unmarshal(data, &s); err != nil {
		return Schema{}, apperrors.NewSchemaMismatchError(
			fmt.Sprintf("failed to decode schema from %s", path), err)
	}
	if err := s.Validate(); err != nil {
		return Schema{}, err
	}
	return s, nil
}
