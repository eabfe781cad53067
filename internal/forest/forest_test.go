package forest

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	apperrors "pvcli/internal/errors"
)

// separableData builds rows with a clear two-class threshold pattern
func separableData(t *testing.T) (*mat.Dense, []int) {
	t.Helper()
	rnd := rand.New(rand.NewSource(7))
	n := 40
	data := make([]float64, 0, n*2)
	y := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if i%2 == 0 {
			data = append(data, -1-rnd.Float64(), rnd.Float64())
			y = append(y, 0)
		} else {
			data = append(data, 1+rnd.Float64(), rnd.Float64())
			y = append(y, 1)
		}
	}
	return mat.NewDense(n, 2, data), y
}

func TestForest_FitPredict(t *testing.T) {
	x, y := separableData(t)

	// all features per split, so every tree finds the separating column
	f := New(WithEstimators(25), WithSeed(42), WithMaxDepth(5), WithMaxFeatures(2))
	require.NoError(t, f.Fit(context.Background(), x, y, 2))
	require.True(t, f.Fitted())
	assert.Equal(t, 2, f.Classes())
	assert.Equal(t, 2, f.Features())

	preds, err := f.Predict(x)
	require.NoError(t, err)
	assert.Equal(t, y, preds)

	acc, err := Accuracy(y, preds)
	require.NoError(t, err)
	assert.Equal(t, 1.0, acc)
}

func TestForest_SeedDeterminesFitNotWorkers(t *testing.T) {
	x, y := separableData(t)

	fit := func(workers int) ([]int, *mat.Dense) {
		f := New(WithEstimators(15), WithSeed(99), WithMaxDepth(4), WithWorkers(workers))
		require.NoError(t, f.Fit(context.Background(), x, y, 2))
		preds, err := f.Predict(x)
		require.NoError(t, err)
		probas, err := f.PredictProba(x)
		require.NoError(t, err)
		return preds, probas
	}

	predsSerial, probasSerial := fit(1)
	predsParallel, probasParallel := fit(8)

	assert.Equal(t, predsSerial, predsParallel)
	assert.True(t, mat.Equal(probasSerial, probasParallel))
}

func TestForest_PredictProbaRowsSumToOne(t *testing.T) {
	x, y := separableData(t)

	f := New(WithEstimators(10), WithSeed(3))
	require.NoError(t, f.Fit(context.Background(), x, y, 2))

	probas, err := f.PredictProba(x)
	require.NoError(t, err)
	rows, cols := probas.Dims()
	assert.Equal(t, 2, cols)
	for i := 0; i < rows; i++ {
		sum := 0.0
		for j := 0; j < cols; j++ {
			p := probas.At(i, j)
			assert.GreaterOrEqual(t, p, 0.0)
			assert.LessOrEqual(t, p, 1.0)
			sum += p
		}
		assert.InDelta(t, 1.0, sum, 1e-9, "row %d", i)
	}
}

func TestForest_SingleClass(t *testing.T) {
	x := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	y := []int{0, 0, 0, 0}

	f := New(WithEstimators(5), WithSeed(1))
	require.NoError(t, f.Fit(context.Background(), x, y, 1))

	preds, err := f.Predict(x)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0, 0, 0}, preds)
}

func TestForest_FitErrors(t *testing.T) {
	valid := mat.NewDense(2, 1, []float64{1, 2})

	tests := []struct {
		name    string
		x       *mat.Dense
		y       []int
		classes int
	}{
		{name: "length mismatch", x: valid, y: []int{0}, classes: 2},
		{name: "no classes", x: valid, y: []int{0, 0}, classes: 0},
		{name: "label out of range", x: valid, y: []int{0, 5}, classes: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(WithEstimators(2)).Fit(context.Background(), tt.x, tt.y, tt.classes)
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, apperrors.ErrTypeInternal), "got %v", err)
		})
	}
}

func TestForest_PredictBeforeFit(t *testing.T) {
	_, err := New().Predict(mat.NewDense(1, 1, []float64{0}))
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeInternal))
}

func TestForest_PredictWidthMismatch(t *testing.T) {
	x, y := separableData(t)
	f := New(WithEstimators(3), WithSeed(5))
	require.NoError(t, f.Fit(context.Background(), x, y, 2))

	_, err := f.Predict(mat.NewDense(1, 3, []float64{0, 0, 0}))
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeSchemaMismatch), "got %v", err)
}

func TestForest_FitCancelled(t *testing.T) {
	x, y := separableData(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := New(WithEstimators(50)).Fit(ctx, x, y, 2)
	require.Error(t, err)
}
