// Package vote implements the majority-vote aggregator: one consensus label
// per token by plurality over the configured source layers.
package vote

import (
	"sort"

	"labelforge.com/wsl/types"
)

const DefaultOutput = "majority_vote"

// Voter is strictly pointwise and stateless: it never looks at neighboring
// tokens and never reads gold labels. The same voter can be applied with
// different layer subsets by value-copying and adjusting Layers.
type Voter struct {
	Layers []string
	Prefer []string
	Output string
}

// Resolve returns one label per token: the most frequent non-abstaining
// label across the voter's layers, or abstention when every source
// abstains. Ties break deterministically: among the max-count labels the one
// appearing earliest in Prefer wins; labels absent from Prefer rank after
// all present ones, in lexical order. An empty Prefer list therefore means a
// purely lexical tie-break.
func (voter Voter) Resolve(doc *types.Document) []string {
	rows := doc.LabelsAt(voter.Layers)
	labels := make([]string, len(rows))
	for i, row := range rows {
		labels[i] = voter.resolveRow(row)
	}
	return labels
}

func (voter Voter) resolveRow(row []string) string {
	counts := map[string]int{}
	max := 0
	for _, label := range row {
		if label == types.Abstain {
			continue
		}
		counts[label]++
		if counts[label] > max {
			max = counts[label]
		}
	}
	if max == 0 {
		return types.Abstain
	}

	var tied []string
	for label, count := range counts {
		if count == max {
			tied = append(tied, label)
		}
	}
	sort.Slice(tied, func(i, j int) bool {
		ri, rj := voter.rank(tied[i]), voter.rank(tied[j])
		if ri != rj {
			return ri < rj
		}
		return tied[i] < tied[j]
	})
	return tied[0]
}

func (voter Voter) rank(label string) int {
	for i, preferred := range voter.Prefer {
		if preferred == label {
			return i
		}
	}
	return len(voter.Prefer)
}

// Apply writes the resolved sequence as the voter's output layer, default
// "majority_vote". Abstaining tokens stay uncovered.
func (voter Voter) Apply(doc *types.Document) error {
	output := voter.Output
	if output == "" {
		output = DefaultOutput
	}
	return doc.ApplyLayer(output, types.SpansFromLabels(voter.Resolve(doc)))
}
