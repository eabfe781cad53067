package features

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-gota/gota/dataframe"

	"pvcli/internal/dataset"
	apperrors "pvcli/internal/errors"
)

// ColumnMapping fixes the indicator layout of one categorical column:
// the source column name and its categories in indicator order.
type ColumnMapping struct {
	Name       string   `json:"name"`
	Categories []string `json:"categories"`
}

// Encoder one-hot encodes a fixed set of categorical columns. The
// category to indicator-column mapping is built once at Fit time,
// sorted lexicographically so the layout does not depend on row order,
// and is the only thing Transform consults. A category missing from the
// mapping is a schema mismatch, never a silent extra column.
type Encoder struct {
	columns []string
	mapping []ColumnMapping
	index   map[string]map[string]int
	fitted  bool
}

// NewEncoder creates an encoder over the given columns, in order
func NewEncoder(columns []string) *Encoder {
	return &Encoder{columns: append([]string(nil), columns...)}
}

// NewEncoderFromMapping restores an encoder from a persisted mapping
func NewEncoderFromMapping(mapping []ColumnMapping) (*Encoder, error) {
	e := &Encoder{}
	for _, cm := range mapping {
		if cm.Name == "" || len(cm.Categories) == 0 {
			return nil, apperrors.NewSchemaMismatchError("encoder mapping has an empty column entry", nil)
		}
		e.columns = append(e.columns, cm.Name)
		e.mapping = append(e.mapping, ColumnMapping{
			Name:       cm.Name,
			Categories: append([]string(nil), cm.Categories...),
		})
	}
	e.buildIndex()
	e.fitted = true
	return e, nil
}

// Fit collects the distinct categories of every encoded column. Missing
// cells are not categories; they encode to an all-zero block.
func (e *Encoder) Fit(df dataframe.DataFrame) error {
	if err := dataset.ValidateColumns(df, e.columns); err != nil {
		return err
	}

	mapping := make([]ColumnMapping, 0, len(e.columns))
	for _, col := range e.columns {
		seen := make(map[string]bool)
		for _, v := range df.Col(col).Records() {
			if dataset.IsMissing(v) {
				continue
			}
			seen[strings.TrimSpace(v)] = true
		}
		if len(seen) == 0 {
			return apperrors.NewDataQualityError(
				fmt.Sprintf("column %q has no non-missing values to encode", col), nil)
		}
		categories := make([]string, 0, len(seen))
		for v := range seen {
			categories = append(categories, v)
		}
		sort.Strings(categories)
		mapping = append(mapping, ColumnMapping{Name: col, Categories: categories})
	}

	e.mapping = mapping
	e.buildIndex()
	e.fitted = true
	return nil
}

// Transform produces one indicator row per table row, using only the
// fitted mapping. Any category absent from the mapping aborts with a
// schema mismatch.
func (e *Encoder) Transform(df dataframe.DataFrame) ([][]float64, error) {
	if !e.fitted {
		return nil, apperrors.NewInternalError("encoder not fitted", nil)
	}
	if err := dataset.ValidateColumns(df, e.columns); err != nil {
		return nil, err
	}

	width := e.Width()
	rows := make([][]float64, df.Nrow())
	for i := range rows {
		rows[i] = make([]float64, width)
	}

	offset := 0
	for _, cm := range e.mapping {
		positions := e.index[cm.Name]
		for i, v := range df.Col(cm.Name).Records() {
			if dataset.IsMissing(v) {
				continue
			}
			pos, ok := positions[strings.TrimSpace(v)]
			if !ok {
				return nil, apperrors.NewSchemaMismatchError(
					fmt.Sprintf("column %q has unmapped category %q at row %d", cm.Name, v, i), nil).
					WithContext("column", cm.Name).
					WithContext("value", v).
					WithContext("row", i)
			}
			rows[i][offset+pos] = 1
		}
		offset += len(cm.Categories)
	}
	return rows, nil
}

// FitTransform fits the encoder and transforms the same table
func (e *Encoder) FitTransform(df dataframe.DataFrame) ([][]float64, error) {
	if err := e.Fit(df); err != nil {
		return nil, err
	}
	return e.Transform(df)
}

// Width returns the total indicator column count
func (e *Encoder) Width() int {
	n := 0
	for _, cm := range e.mapping {
		n += len(cm.Categories)
	}
	return n
}

// FeatureNames returns one name per indicator column, in matrix order,
// formatted as column=category.
func (e *Encoder) FeatureNames() []string {
	names := make([]string, 0, e.Width())
	for _, cm := range e.mapping {
		for _, cat := range cm.Categories {
			names = append(names, cm.Name+"="+cat)
		}
	}
	return names
}

// Mapping returns a copy of the fitted mapping for persistence
func (e *Encoder) Mapping() []ColumnMapping {
	out := make([]ColumnMapping, 0, len(e.mapping))
	for _, cm := range e.mapping {
		out = append(out, ColumnMapping{
			Name:       cm.Name,
			Categories: append([]string(nil), cm.Categories...),
		})
	}
	return out
}

// Columns returns the encoded source columns, in order
func (e *Encoder) Columns() []string {
	return append([]string(nil), e.columns...)
}

func (e *Encoder) buildIndex() {
	e.index = make(map[string]map[string]int, len(e.mapping))
	for _, cm := range e.mapping {
		positions := make(map[string]int, len(cm.Categories))
		for i, cat := range cm.Categories {
			positions[cat] = i
		}
		e.index[cm.Name] = positions
	}
}
