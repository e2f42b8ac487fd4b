package sources

import (
	"labelforge.com/wsl/types"
)

// NewContext returns a detector firing the label on tokens whose previous
// token carries one of the trigger labels in the given layers, provided the
// token itself is uncovered there. It reads prior layers through the shared
// projection, so it must be registered after the sources it consumes.
func NewContext(layers []string, triggers []string, label string) Detector {
	triggerSet := make(map[string]bool, len(triggers))
	for _, trigger := range triggers {
		triggerSet[trigger] = true
	}

	return DetectorFunc(func(doc *types.Document) ([]types.Span, error) {
		rows := doc.LabelsAt(layers)
		var spans []types.Span
		for i := 1; i < len(rows); i++ {
			if !anyTrigger(rows[i-1], triggerSet) {
				continue
			}
			if covered(rows[i]) {
				continue
			}
			spans = append(spans, types.Span{
				Start: int32(i),
				End:   int32(i + 1),
				Label: label,
			})
		}
		return spans, nil
	})
}

func anyTrigger(row []string, triggers map[string]bool) bool {
	for _, label := range row {
		if triggers[label] {
			return true
		}
	}
	return false
}

func covered(row []string) bool {
	for _, label := range row {
		if label != types.Abstain {
			return true
		}
	}
	return false
}
