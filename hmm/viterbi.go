package hmm

import (
	"labelforge.com/wsl/types"
)

// Decode returns the most probable true-label sequence for the document's
// source observations under the model. Positions where every source
// abstains carry only the abstention emission mass, so the path through
// them is driven by the start and transition tables. Ties resolve to the
// lower label index, so decoding is deterministic.
func (model *Model) Decode(doc *types.Document) ([]string, error) {
	if err := model.validate(); err != nil {
		return nil, err
	}
	if err := model.checkAlphabet(doc.Alphabet()); err != nil {
		return nil, err
	}
	if doc.Len() == 0 {
		return []string{}, nil
	}

	obs := observations(doc, model.Sources, doc.Alphabet())
	e := emissionScores(model, obs)
	n := len(obs)
	labelCount := len(model.Labels)

	delta := make([][]float64, n)
	back := make([][]int, n)
	delta[0] = make([]float64, labelCount)
	for k := 0; k < labelCount; k++ {
		delta[0][k] = model.Start[k] + e[0][k]
	}
	for t := 1; t < n; t++ {
		delta[t] = make([]float64, labelCount)
		back[t] = make([]int, labelCount)
		for k := 0; k < labelCount; k++ {
			bestPrev, bestScore := 0, delta[t-1][0]+model.Trans[0][k]
			for j := 1; j < labelCount; j++ {
				if score := delta[t-1][j] + model.Trans[j][k]; score > bestScore {
					bestPrev, bestScore = j, score
				}
			}
			delta[t][k] = bestScore + e[t][k]
			back[t][k] = bestPrev
		}
	}

	best := 0
	for k := 1; k < labelCount; k++ {
		if delta[n-1][k] > delta[n-1][best] {
			best = k
		}
	}

	labels := make([]string, n)
	for t := n - 1; t >= 0; t-- {
		labels[t] = model.Labels[best]
		if t > 0 {
			best = back[t][best]
		}
	}
	return labels, nil
}

// Apply decodes the document and writes the result as the "hmm" layer,
// abstaining positions left uncovered.
func (model *Model) Apply(doc *types.Document) error {
	labels, err := model.Decode(doc)
	if err != nil {
		return err
	}
	return doc.ApplyLayer(OutputLayer, types.SpansFromLabels(labels))
}
