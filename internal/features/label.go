package features

import (
	"fmt"
	"sort"
	"strings"

	"pvcli/internal/dataset"
	apperrors "pvcli/internal/errors"
)

// LabelCodec maps target labels to the dense class indexes the
// classifier trains on, and back. Labels are sorted at Fit time so the
// index assignment is stable across runs and row orders.
type LabelCodec struct {
	labels []string
	index  map[string]int
	fitted bool
}

// NewLabelCodec creates an empty codec
func NewLabelCodec() *LabelCodec {
	return &LabelCodec{}
}

// NewLabelCodecFromLabels restores a codec from a persisted label list
func NewLabelCodecFromLabels(labels []string) (*LabelCodec, error) {
	if len(labels) == 0 {
		return nil, apperrors.NewSchemaMismatchError("label list is empty", nil)
	}
	c := &LabelCodec{labels: append([]string(nil), labels...)}
	c.buildIndex()
	c.fitted = true
	return c, nil
}

// Fit collects the distinct labels. Every row must carry a label; a
// missing target cell is a data quality failure, not a class.
func (c *LabelCodec) Fit(values []string) error {
	seen := make(map[string]bool)
	for i, v := range values {
		if dataset.IsMissing(v) {
			return apperrors.NewDataQualityError(
				fmt.Sprintf("target value is missing at row %d", i), nil)
		}
		seen[strings.TrimSpace(v)] = true
	}
	if len(seen) == 0 {
		return apperrors.NewDataQualityError("target column has no values", nil)
	}

	labels := make([]string, 0, len(seen))
	for v := range seen {
		labels = append(labels, v)
	}
	sort.Strings(labels)

	c.labels = labels
	c.buildIndex()
	c.fitted = true
	return nil
}

// Encode maps labels to class indexes. An unseen label is a schema
// mismatch.
func (c *LabelCodec) Encode(values []string) ([]int, error) {
	if !c.fitted {
		return nil, apperrors.NewInternalError("label codec not fitted", nil)
	}
	out := make([]int, len(values))
	for i, v := range values {
		idx, ok := c.index[strings.TrimSpace(v)]
		if !ok {
			return nil, apperrors.NewSchemaMismatchError(
				fmt.Sprintf("unmapped target label %q at row %d", v, i), nil).
				WithContext("value", v).
				WithContext("row", i)
		}
		out[i] = idx
	}
	return out, nil
}

// Decode returns the label for one class index
func (c *LabelCodec) Decode(class int) (string, error) {
	if class < 0 || class >= len(c.labels) {
		return "", apperrors.NewInternalError(
			fmt.Sprintf("class index %d out of range [0,%d)", class, len(c.labels)), nil)
	}
	return c.labels[class], nil
}

// Labels returns the label list in class-index order
func (c *LabelCodec) Labels() []string {
	return append([]string(nil), c.labels...)
}

// Classes returns the number of distinct labels
func (c *LabelCodec) Classes() int {
	return len(c.labels)
}

func (c *LabelCodec) buildIndex() {
	c.index = make(map[string]int, len(c.labels))
	for i, v := range c.labels {
		c.index[v] = i
	}
}
