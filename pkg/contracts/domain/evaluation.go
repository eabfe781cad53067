package domain

import (
	"fmt"
	"math"
)

// ClassMetrics holds per-class evaluation results on the test partition.
type ClassMetrics struct {
	// Label is the original class label (precinct identifier)
	Label string `json:"label"`

	// Precision is true positives over predicted positives for this class.
	// A class never predicted has precision 0.
	Precision float64 `json:"precision"`

	// Recall is true positives over actual positives for this class
	Recall float64 `json:"recall"`

	// F1 is the harmonic mean of precision and recall, 0 when both are 0
	F1 float64 `json:"f1"`

	// Support is the number of test rows whose true label is this class
	Support int `json:"support"`
}

// EvaluationReport is the prediction stage's output: accuracy plus
// support-weighted precision/recall/F1 over the held-out test partition.
//
// All four headline metrics lie in [0, 1]. Values are stored at full
// precision; two-decimal rounding is applied for display only, via
// Rounded().
type EvaluationReport struct {
	Accuracy  float64 `json:"accuracy"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`

	// Classes holds the per-class breakdown behind the weighted averages
	Classes []ClassMetrics `json:"classes,omitempty"`

	// TrainRows and TestRows record the partition sizes
	TrainRows int `json:"train_rows"`
	TestRows  int `json:"test_rows"`

	// SingleClass flags the degenerate case of a table with exactly one
	// distinct target class, where the ensemble fit is skipped and the
	// metrics are trivially perfect.
	SingleClass bool `json:"single_class,omitempty"`
}

// Round2 rounds v to two decimal places
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Rounded returns a copy of the report with every metric rounded to two
// decimal places for display. Per-class metrics are rounded as well.
func (r EvaluationReport) Rounded() EvaluationReport {
	out := r
	out.Accuracy = Round2(r.Accuracy)
	out.Precision = Round2(r.Precision)
	out.Recall = Round2(r.Recall)
	out.F1 = Round2(r.F1)
	out.Classes = make([]ClassMetrics, len(r.Classes))
	for i, c := range r.Classes {
		c.Precision = Round2(c.Precision)
		c.Recall = Round2(c.Recall)
		c.F1 = Round2(c.F1)
		out.Classes[i] = c
	}
	return out
}

// Validate checks that every metric lies in [0, 1] and the partition
// sizes are consistent.
func (r EvaluationReport) Validate() error {
	checks := []struct {
		name  string
		value float64
	}{
		{"accuracy", r.Accuracy},
		{"precision", r.Precision},
		{"recall", r.Recall},
		{"f1", r.F1},
	}
	for _, c := range checks {
		if math.IsNaN(c.value) || c.value < 0 || c.value > 1 {
			return fmt.Errorf("%s %v out of range [0, 1]", c.name, c.value)
		}
	}
	if r.TestRows < 0 || r.TrainRows < 0 {
		return fmt.Errorf("negative partition size: train=%d test=%d", r.TrainRows, r.TestRows)
	}
	return nil
}
