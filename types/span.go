package types

// Span labels the half-open token range [Start, End) of a document.
type Span struct {
	Start int32  `json:"start"`
	End   int32  `json:"end"`
	Label string `json:"label"`
}

func (span Span) Overlaps(other Span) bool {
	return span.Start < other.End && other.Start < span.End
}

type Spans []Span

func (spans Spans) Len() int {
	return len(spans)
}

func (spans Spans) Less(i int, j int) bool {
	if spans[i].Start == spans[j].Start {
		return spans[i].End < spans[j].End
	}
	return spans[i].Start < spans[j].Start
}

func (spans Spans) Swap(i int, j int) {
	spans[i], spans[j] = spans[j], spans[i]
}

// SpansFromLabels converts a per-token label sequence into spans, merging
// runs of the same label and skipping abstentions.
func SpansFromLabels(labels []string) []Span {
	var spans []Span
	for i := 0; i < len(labels); {
		if labels[i] == Abstain {
			i++
			continue
		}
		j := i + 1
		for j < len(labels) && labels[j] == labels[i] {
			j++
		}
		spans = append(spans, Span{Start: int32(i), End: int32(j), Label: labels[i]})
		i = j
	}
	return spans
}
