// Package analysis measures how the labeling sources behave over a corpus
// before aggregation: how much of it they cover and how often they disagree.
package analysis

import (
	"labelforge.com/wsl/types"
)

// Summary holds the per-corpus source statistics reported at the end of a
// batch run.
type Summary struct {
	Documents    int     `json:"documents"`
	Tokens       int     `json:"tokens"`
	Covered      int     `json:"covered"`
	Conflicting  int     `json:"conflicting"`
	Coverage     float64 `json:"coverage"`
	ConflictRate float64 `json:"conflict_rate"`
}

// Summarize computes coverage and conflict rate over the named source layers
// in one pass: the fraction of tokens at least one source labels, and the
// fraction where at least two sources disagree. Abstention never disagrees
// with anything. Zero documents or zero layers yield zero rates.
func Summarize(docs []*types.Document, sourceNames []string) Summary {
	summary := Summary{Documents: len(docs)}
	for _, doc := range docs {
		summary.Tokens += doc.Len()
		if len(sourceNames) == 0 {
			continue
		}
		for _, row := range doc.LabelsAt(sourceNames) {
			first := ""
			conflict := false
			for _, label := range row {
				if label == types.Abstain {
					continue
				}
				if first == "" {
					first = label
				} else if label != first {
					conflict = true
				}
			}
			if first != "" {
				summary.Covered++
			}
			if conflict {
				summary.Conflicting++
			}
		}
	}
	if summary.Tokens > 0 {
		summary.Coverage = float64(summary.Covered) / float64(summary.Tokens)
		summary.ConflictRate = float64(summary.Conflicting) / float64(summary.Tokens)
	}
	return summary
}

// Coverage returns the fraction of tokens with at least one non-abstaining
// value across the named source layers.
func Coverage(docs []*types.Document, sourceNames []string) float64 {
	return Summarize(docs, sourceNames).Coverage
}

// ConflictRate returns the fraction of tokens where at least two named
// layers emit different labels.
func ConflictRate(docs []*types.Document, sourceNames []string) float64 {
	return Summarize(docs, sourceNames).ConflictRate
}
