package forest

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	apperrors "pvcli/internal/errors"
)

// persistedForest is the gob layout of a fitted ensemble
type persistedForest struct {
	Estimators      int
	MaxDepth        int
	MinSamplesSplit int
	MaxFeatures     int
	Seed            int64
	Classes         int
	Features        int
	Trees           []*treeNode
}

// SaveModel writes a fitted forest to path as gob, creating parent
// directories as needed.
func SaveModel(path string, f *Forest) error {
	if !f.Fitted() {
		return apperrors.NewInternalError("cannot save an unfitted forest", nil)
	}

	var buf bytes.Buffer
	p := persistedForest{
		Estimators:      f.estimators,
		MaxDepth:        f.maxDepth,
		MinSamplesSplit: f.minSamplesSplit,
		MaxFeatures:     f.maxFeatures,
		Seed:            f.seed,
		Classes:         f.classes,
		Features:        f.features,
		Trees:           f.trees,
	}
	if err := gob.NewEncoder(&buf).Encode(p); err != nil {
		return apperrors.NewInternalError("failed to encode model", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return apperrors.NewConfigurationError(
			fmt.Sprintf("failed to create model directory for %s", path), err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return apperrors.NewConfigurationError(
			fmt.Sprintf("failed to write model to %s", path), err)
	}
	return nil
}

// LoadModel reads a forest previously written by SaveModel
func LoadModel(path string) (*Forest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("model file %s", path))
		}
		return nil, apperrors.NewConfigurationError(
			fmt.Sprintf("failed to read model from %s", path), err)
	}

	var p persistedForest
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&p); err != nil {
		return nil, apperrors.NewSchemaMismatchError(
			fmt.Sprintf("failed to decode model from %s", path), err)
	}
	if len(p.Trees) == 0 || p.Classes < 1 || p.Features < 1 {
		return nil, apperrors.NewSchemaMismatchError(
			fmt.Sprintf("model file %s is incomplete", path), nil)
	}

	return &Forest{
		estimators:      p.Estimators,
		maxDepth:        p.MaxDepth,
		minSamplesSplit: p.MinSamplesSplit,
		maxFeatures:     p.MaxFeatures,
		seed:            p.Seed,
		workers:         0,
		trees:           p.Trees,
		classes:         p.Classes,
		features:        p.Features,
	}, nil
}
