// Package eval scores an aggregated layer against the gold label sequences
// carried by the corpus. Gold labels never feed back into aggregation; this
// package is the only reader.
package eval

import (
	"fmt"

	"labelforge.com/wsl/types"
)

// LabelMetrics holds the token-level scores for one label. Support is the
// number of gold occurrences.
type LabelMetrics struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	Support   int     `json:"support"`
}

// Report holds the scores of one layer over one corpus. Labels has a row for
// every non-abstention label of the alphabet; Macro averages the rows with
// nonzero support and sums their support.
type Report struct {
	Layer     string                  `json:"layer"`
	Documents int                     `json:"documents"`
	Tokens    int                     `json:"tokens"`
	Accuracy  float64                 `json:"accuracy"`
	Labels    map[string]LabelMetrics `json:"labels"`
	Macro     LabelMetrics            `json:"macro"`
}

// Evaluate compares the named layer of every document against its gold
// sequence. Every document must carry both; a missing layer is an error
// rather than an implicit all-abstain score, so a misspelled layer name
// cannot pass as a zero result. Accuracy counts exact matches over all
// tokens, abstention included. Precision and recall treat abstention as
// no prediction: an abstaining token never costs precision, only recall.
func Evaluate(docs []*types.Document, layerName string) (*Report, error) {
	if len(docs) == 0 {
		return nil, fmt.Errorf("no documents to evaluate")
	}

	report := &Report{
		Layer:  layerName,
		Labels: map[string]LabelMetrics{},
	}
	truePositive := map[string]int{}
	falsePositive := map[string]int{}
	falseNegative := map[string]int{}
	correct := 0

	for _, doc := range docs {
		if !doc.HasLayer(layerName) {
			return nil, fmt.Errorf("document %s has no layer %q to evaluate", doc.Uid, layerName)
		}
		if len(doc.Gold) != doc.Len() {
			return nil, fmt.Errorf("document %s has no gold labels", doc.Uid)
		}
		report.Documents++
		for t, row := range doc.LabelsAt([]string{layerName}) {
			predicted, gold := row[0], doc.Gold[t]
			report.Tokens++
			if predicted == gold {
				correct++
				if gold != types.Abstain {
					truePositive[gold]++
				}
				continue
			}
			if predicted != types.Abstain {
				falsePositive[predicted]++
			}
			if gold != types.Abstain {
				falseNegative[gold]++
			}
		}
	}
	report.Accuracy = ratio(correct, report.Tokens)

	scored := 0
	for _, label := range docs[0].Alphabet().Labels()[1:] {
		tp := truePositive[label]
		metrics := LabelMetrics{
			Precision: ratio(tp, tp+falsePositive[label]),
			Recall:    ratio(tp, tp+falseNegative[label]),
			Support:   tp + falseNegative[label],
		}
		metrics.F1 = harmonic(metrics.Precision, metrics.Recall)
		report.Labels[label] = metrics

		if metrics.Support > 0 {
			report.Macro.Precision += metrics.Precision
			report.Macro.Recall += metrics.Recall
			report.Macro.F1 += metrics.F1
			report.Macro.Support += metrics.Support
			scored++
		}
	}
	if scored > 0 {
		report.Macro.Precision /= float64(scored)
		report.Macro.Recall /= float64(scored)
		report.Macro.F1 /= float64(scored)
	}
	return report, nil
}

func ratio(numerator int, denominator int) float64 {
	if denominator == 0 {
		return 0
	}
	return float64(numerator) / float64(denominator)
}

func harmonic(precision float64, recall float64) float64 {
	if precision+recall == 0 {
		return 0
	}
	return 2 * precision * recall / (precision + recall)
}
