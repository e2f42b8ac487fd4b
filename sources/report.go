package sources

import "labelforge.com/wsl/types"

// Report aggregates what one Apply pass did: spans written, per-source
// failure counts with their details, and per-source counts of filtered
// out-of-alphabet spans.
type Report struct {
	DocCount       int
	SpanCount      int
	Failures       map[string]int
	FailureDetails []*types.DetectorFailure
	Filtered       map[string]int
}

func NewReport() *Report {
	return &Report{
		Failures: map[string]int{},
		Filtered: map[string]int{},
	}
}

func (report *Report) addFailure(failure *types.DetectorFailure) {
	report.Failures[failure.Source]++
	report.FailureDetails = append(report.FailureDetails, failure)
}

func (report *Report) Merge(other *Report) {
	report.DocCount += other.DocCount
	report.SpanCount += other.SpanCount
	for source, count := range other.Failures {
		report.Failures[source] += count
	}
	report.FailureDetails = append(report.FailureDetails, other.FailureDetails...)
	for source, count := range other.Filtered {
		report.Filtered[source] += count
	}
}
