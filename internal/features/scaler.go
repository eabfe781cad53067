package features

import (
	"fmt"
	"math"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/stat"

	"pvcli/internal/dataset"
	apperrors "pvcli/internal/errors"
)

// StandardScaler centers one numeric column on zero mean and scales it to
// unit variance. The standard deviation is the population one (divide by
// n, not n-1). A constant column keeps std=1 so Transform degenerates to
// plain centering instead of dividing by zero.
type StandardScaler struct {
	column string
	mean   float64
	std    float64
	fitted bool
}

// NewStandardScaler creates a scaler for the given column
func NewStandardScaler(column string) *StandardScaler {
	return &StandardScaler{column: column}
}

// Fit computes the column mean and population standard deviation. The
// column must be fully populated and numeric; run the imputer first.
func (s *StandardScaler) Fit(df dataframe.DataFrame) error {
	values, err := s.columnValues(df)
	if err != nil {
		return err
	}

	s.mean = stat.Mean(values, nil)
	s.std = stat.PopStdDev(values, nil)
	if s.std == 0 {
		s.std = 1
	}
	s.fitted = true
	return nil
}

// Transform returns a new table with the column replaced by
// (x - mean) / std. The input table is not modified.
func (s *StandardScaler) Transform(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	if !s.fitted {
		return dataframe.DataFrame{}, apperrors.NewInternalError("scaler not fitted", nil)
	}
	values, err := s.columnValues(df)
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	scaled := make([]float64, len(values))
	for i, v := range values {
		scaled[i] = (v - s.mean) / s.std
	}

	out := df.Mutate(series.New(scaled, series.Float, s.column))
	if out.Error() != nil {
		return dataframe.DataFrame{}, apperrors.NewInternalError(
			fmt.Sprintf("failed to replace column %q", s.column), out.Error())
	}
	return out, nil
}

// FitTransform fits the scaler and transforms the same table
func (s *StandardScaler) FitTransform(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	if err := s.Fit(df); err != nil {
		return dataframe.DataFrame{}, err
	}
	return s.Transform(df)
}

// Mean returns the fitted mean
func (s *StandardScaler) Mean() float64 {
	return s.mean
}

// Std returns the fitted population standard deviation
func (s *StandardScaler) Std() float64 {
	return s.std
}

// Column returns the column this scaler operates on
func (s *StandardScaler) Column() string {
	return s.column
}

// SetStats restores previously fitted statistics, for scoring with a
// persisted schema.
func (s *StandardScaler) SetStats(mean, std float64) {
	s.mean = mean
	s.std = std
	if s.std == 0 {
		s.std = 1
	}
	s.fitted = true
}

func (s *StandardScaler) columnValues(df dataframe.DataFrame) ([]float64, error) {
	if err := dataset.ValidateColumns(df, []string{s.column}); err != nil {
		return nil, err
	}
	values := df.Col(s.column).Float()
	for i, v := range values {
		if math.IsNaN(v) {
			return nil, apperrors.NewDataQualityError(
				fmt.Sprintf("column %q has a missing or non-numeric value at row %d", s.column, i), nil)
		}
	}
	return values, nil
}
