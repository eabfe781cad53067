package predict

import (
	"fmt"
	"math/rand"

	apperrors "pvcli/internal/errors"
)

// Split partitions the row indexes [0,n) into train and test sets using
// a shuffle seeded only by splitSeed: the first (1-testFraction) share of
// the permutation trains, the rest tests. Membership is reproducible for
// a fixed seed and row order, and at least one row lands on each side.
func Split(n int, testFraction float64, splitSeed int64) (train, test []int, err error) {
	if n < 2 {
		return nil, nil, apperrors.NewDataQualityError(
			fmt.Sprintf("cannot split %d rows into train and test", n), nil)
	}
	if testFraction <= 0 || testFraction >= 1 {
		return nil, nil, apperrors.NewInternalError(
			fmt.Sprintf("test fraction %v outside (0,1)", testFraction), nil)
	}

	nTest := int(float64(n) * testFraction)
	if nTest < 1 {
		nTest = 1
	}
	nTrain := n - nTest

	perm := rand.New(rand.NewSource(splitSeed)).Perm(n)
	return perm[:nTrain], perm[nTrain:], nil
}
