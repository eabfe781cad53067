package forest

import (
	"fmt"

	apperrors "pvcli/internal/errors"
	"pvcli/pkg/contracts/domain"
)

// Accuracy is the fraction of rows where prediction matches truth
func Accuracy(yTrue, yPred []int) (float64, error) {
	if err := checkPairs(yTrue, yPred); err != nil {
		return 0, err
	}
	correct := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(yTrue)), nil
}

// WeightedReport computes accuracy plus precision, recall and F1 per
// class, averaged with support weights. labels maps class indexes to
// display names and fixes the class count; classes absent from the test
// rows appear in the breakdown with zero support and do not move the
// averages. Zero denominators yield zero, never NaN.
func WeightedReport(yTrue, yPred []int, labels []string) (domain.EvaluationReport, error) {
	if err := checkPairs(yTrue, yPred); err != nil {
		return domain.EvaluationReport{}, err
	}
	if len(labels) == 0 {
		return domain.EvaluationReport{}, apperrors.NewInternalError("no class labels", nil)
	}

	classes := len(labels)
	tp := make([]int, classes)
	fp := make([]int, classes)
	fn := make([]int, classes)
	for i := range yTrue {
		t, p := yTrue[i], yPred[i]
		if t < 0 || t >= classes {
			return domain.EvaluationReport{}, apperrors.NewInternalError(
				fmt.Sprintf("true label %d at row %d outside [0,%d)", t, i, classes), nil)
		}
		if p < 0 || p >= classes {
			return domain.EvaluationReport{}, apperrors.NewInternalError(
				fmt.Sprintf("predicted label %d at row %d outside [0,%d)", p, i, classes), nil)
		}
		if t == p {
			tp[t]++
		} else {
			fn[t]++
			fp[p]++
		}
	}

	report := domain.EvaluationReport{
		TestRows: len(yTrue),
		Classes:  make([]domain.ClassMetrics, 0, classes),
	}

	total := float64(len(yTrue))
	for c := 0; c < classes; c++ {
		cm := domain.ClassMetrics{
			Label:   labels[c],
			Support: tp[c] + fn[c],
		}
		if tp[c]+fp[c] > 0 {
			cm.Precision = float64(tp[c]) / float64(tp[c]+fp[c])
		}
		if tp[c]+fn[c] > 0 {
			cm.Recall = float64(tp[c]) / float64(tp[c]+fn[c])
		}
		if cm.Precision+cm.Recall > 0 {
			cm.F1 = 2 * cm.Precision * cm.Recall / (cm.Precision + cm.Recall)
		}
		report.Classes = append(report.Classes, cm)

		weight := float64(cm.Support) / total
		report.Precision += weight * cm.Precision
		report.Recall += weight * cm.Recall
		report.F1 += weight * cm.F1
	}

	accuracy, err := Accuracy(yTrue, yPred)
	if err != nil {
		return domain.EvaluationReport{}, err
	}
	report.Accuracy = accuracy
	return report, nil
}

func checkPairs(yTrue, yPred []int) error {
	if len(yTrue) == 0 {
		return apperrors.NewInternalError("no rows to evaluate", nil)
	}
	if len(yTrue) != len(yPred) {
		return apperrors.NewInternalError(
			fmt.Sprintf("%d true labels but %d predictions", len(yTrue), len(yPred)), nil)
	}
	return nil
}
