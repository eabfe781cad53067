package forest

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	apperrors "pvcli/internal/errors"
)

// Forest is a bootstrap-aggregated ensemble of CART trees. Tree i is
// seeded with seed+i, so the fitted ensemble depends only on the seed
// and the data, never on the worker count.
type Forest struct {
	estimators      int
	maxDepth        int
	minSamplesSplit int
	maxFeatures     int
	seed            int64
	workers         int

	trees    []*treeNode
	classes  int
	features int
}

// Option configures a Forest
type Option func(*Forest)

// WithEstimators sets the tree count
func WithEstimators(n int) Option { return func(f *Forest) { f.estimators = n } }

// WithMaxDepth caps tree depth; 0 means unlimited
func WithMaxDepth(d int) Option { return func(f *Forest) { f.maxDepth = d } }

// WithMinSamplesSplit sets the minimum node size eligible for a split
func WithMinSamplesSplit(n int) Option { return func(f *Forest) { f.minSamplesSplit = n } }

// WithMaxFeatures sets the features tried per split; 0 means sqrt of the
// feature count.
func WithMaxFeatures(k int) Option { return func(f *Forest) { f.maxFeatures = k } }

// WithSeed sets the base seed for bootstrap and feature sampling
func WithSeed(seed int64) Option { return func(f *Forest) { f.seed = seed } }

// WithWorkers bounds concurrent tree fits; 0 means GOMAXPROCS
func WithWorkers(n int) Option { return func(f *Forest) { f.workers = n } }

// New returns a forest with the default hyperparameters
func New(opts ...Option) *Forest {
	f := &Forest{
		estimators:      100,
		maxDepth:        10,
		minSamplesSplit: 2,
		maxFeatures:     0,
		seed:            42,
		workers:         0,
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

// Fit trains the ensemble on X (n rows by p features) and y (dense class
// indexes in [0, classes)). Passing the class count explicitly keeps the
// probability vector width right even when a bootstrap or a small train
// split misses a class.
func (f *Forest) Fit(ctx context.Context, x *mat.Dense, y []int, classes int) error {
	n, p := x.Dims()
	if n == 0 || p == 0 {
		return apperrors.NewInternalError("forest fit on an empty matrix", nil)
	}
	if len(y) != n {
		return apperrors.NewInternalError(
			fmt.Sprintf("forest fit with %d rows but %d labels", n, len(y)), nil)
	}
	if classes < 1 {
		return apperrors.NewInternalError("forest fit needs at least one class", nil)
	}
	for i, c := range y {
		if c < 0 || c >= classes {
			return apperrors.NewInternalError(
				fmt.Sprintf("label %d at row %d outside [0,%d)", c, i, classes), nil)
		}
	}
	for i := 0; i < n; i++ {
		for j := 0; j < p; j++ {
			if math.IsNaN(x.At(i, j)) {
				return apperrors.NewInternalError(
					fmt.Sprintf("feature matrix has NaN at row %d column %d", i, j), nil)
			}
		}
	}
	if f.estimators < 1 {
		return apperrors.NewInternalError("forest needs at least one estimator", nil)
	}

	maxFeatures := f.maxFeatures
	if maxFeatures <= 0 {
		maxFeatures = int(math.Sqrt(float64(p)))
		if maxFeatures < 1 {
			maxFeatures = 1
		}
	}
	params := treeParams{
		maxDepth:        f.maxDepth,
		minSamplesSplit: f.minSamplesSplit,
		maxFeatures:     maxFeatures,
	}

	workers := f.workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	trees := make([]*treeNode, f.estimators)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < f.estimators; i++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rnd := rand.New(rand.NewSource(f.seed + int64(i)))
			sample := make([]int, n)
			for j := range sample {
				sample[j] = rnd.Intn(n)
			}
			b := &treeBuilder{x: x, y: y, classes: classes, params: params, rnd: rnd}
			trees[i] = b.grow(sample, 0)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return apperrors.NewInternalError("forest fit was cancelled", err)
	}

	f.trees = trees
	f.classes = classes
	f.features = p
	return nil
}

// Predict returns the majority-vote class index per row. Vote ties
// resolve to the lowest class index.
func (f *Forest) Predict(x *mat.Dense) ([]int, error) {
	if err := f.checkPredictInput(x); err != nil {
		return nil, err
	}

	n, _ := x.Dims()
	out := make([]int, n)
	votes := make([]int, f.classes)
	for i := 0; i < n; i++ {
		row := x.RawRowView(i)
		for c := range votes {
			votes[c] = 0
		}
		for _, t := range f.trees {
			votes[t.predict(row)]++
		}
		out[i] = argmaxCounts(votes)
	}
	return out, nil
}

// PredictProba returns the mean leaf distribution across trees, one row
// per input row and one column per class.
func (f *Forest) PredictProba(x *mat.Dense) (*mat.Dense, error) {
	if err := f.checkPredictInput(x); err != nil {
		return nil, err
	}

	n, _ := x.Dims()
	probas := mat.NewDense(n, f.classes, nil)
	for i := 0; i < n; i++ {
		row := x.RawRowView(i)
		acc := make([]float64, f.classes)
		for _, t := range f.trees {
			for c, p := range t.predictProba(row) {
				acc[c] += p
			}
		}
		for c := range acc {
			acc[c] /= float64(len(f.trees))
		}
		probas.SetRow(i, acc)
	}
	return probas, nil
}

// Estimators returns the configured tree count
func (f *Forest) Estimators() int { return f.estimators }

// Classes returns the class count the forest was fitted with
func (f *Forest) Classes() int { return f.classes }

// Features returns the feature width the forest was fitted with
func (f *Forest) Features() int { return f.features }

// Fitted reports whether Fit has completed
func (f *Forest) Fitted() bool { return len(f.trees) > 0 }

func (f *Forest) checkPredictInput(x *mat.Dense) error {
	if !f.Fitted() {
		return apperrors.NewInternalError("forest not fitted", nil)
	}
	_, p := x.Dims()
	if p != f.features {
		return apperrors.NewSchemaMismatchError(
			fmt.Sprintf("feature matrix has %d columns, model expects %d", p, f.features), nil)
	}
	return nil
}
