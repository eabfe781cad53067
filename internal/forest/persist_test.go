package forest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "pvcli/internal/errors"
)

func TestSaveLoadModel_RoundTrip(t *testing.T) {
	x, y := separableData(t)
	f := New(WithEstimators(8), WithSeed(21), WithMaxDepth(4))
	require.NoError(t, f.Fit(context.Background(), x, y, 2))

	path := filepath.Join(t.TempDir(), "artifacts", "model.gob")
	require.NoError(t, SaveModel(path, f))

	loaded, err := LoadModel(path)
	require.NoError(t, err)
	assert.Equal(t, f.Classes(), loaded.Classes())
	assert.Equal(t, f.Features(), loaded.Features())
	assert.Equal(t, f.Estimators(), loaded.Estimators())

	want, err := f.Predict(x)
	require.NoError(t, err)
	got, err := loaded.Predict(x)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSaveModel_Unfitted(t *testing.T) {
	err := SaveModel(filepath.Join(t.TempDir(), "model.gob"), New())
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeInternal))
}

func TestLoadModel_Missing(t *testing.T) {
	_, err := LoadModel(filepath.Join(t.TempDir(), "model.gob"))
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound), "got %v", err)
}

func TestLoadModel_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.gob")
	require.NoError(t, os.WriteFile(path, []byte("not a gob stream"), 0o644))

	_, err := LoadModel(path)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeSchemaMismatch), "got %v", err)
}
