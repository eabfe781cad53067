package predict

import (
	"fmt"
	"math"

	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/gonum/mat"

	"pvcli/internal/config"
	"pvcli/internal/dataset"
	apperrors "pvcli/internal/errors"
	"pvcli/internal/features"
)

// SelectColumns restricts the table to the target and the four feature
// columns, dropping everything else (including the chart-only calendar
// columns).
func SelectColumns(df dataframe.DataFrame, cols config.ColumnsConfig) (dataframe.DataFrame, error) {
	names := append([]string{cols.Precinct}, cols.Categorical()...)
	names = append(names, cols.Year)
	if err := dataset.ValidateColumns(df, names); err != nil {
		return dataframe.DataFrame{}, err
	}

	out := df.Select(names)
	if out.Error() != nil {
		return dataframe.DataFrame{}, apperrors.NewInternalError("failed to select model columns", out.Error())
	}
	return out, nil
}

// BuildMatrix assembles the model input: the encoder's indicator columns
// followed by the scaled vehicle year as the final numeric column.
func BuildMatrix(df dataframe.DataFrame, enc *features.Encoder, yearColumn string) (*mat.Dense, error) {
	if df.Nrow() < 1 {
		return nil, apperrors.NewDataQualityError("no rows to build a feature matrix from", nil)
	}
	if err := dataset.ValidateColumns(df, []string{yearColumn}); err != nil {
		return nil, err
	}

	indicators, err := enc.Transform(df)
	if err != nil {
		return nil, err
	}

	years := df.Col(yearColumn).Float()
	for i, v := range years {
		if math.IsNaN(v) {
			return nil, apperrors.NewDataQualityError(
				fmt.Sprintf("column %q has a missing or non-numeric value at row %d", yearColumn, i), nil)
		}
	}

	width := enc.Width() + 1
	x := mat.NewDense(df.Nrow(), width, nil)
	for i, row := range indicators {
		for j, v := range row {
			x.Set(i, j, v)
		}
		x.Set(i, width-1, years[i])
	}
	return x, nil
}

// matrixRows copies the given rows of x into a new matrix
func matrixRows(x *mat.Dense, rows []int) *mat.Dense {
	_, p := x.Dims()
	out := mat.NewDense(len(rows), p, nil)
	for i, r := range rows {
		out.SetRow(i, x.RawRowView(r))
	}
	return out
}

// labelRows copies the given positions of y into a new slice
func labelRows(y []int, rows []int) []int {
	out := make([]int, len(rows))
	for i, r := range rows {
		out[i] = y[r]
	}
	return out
}
