package types

// Abstain is the reserved "no label" symbol. It always sits at index 0 of
// every alphabet and marks tokens a labeling source says nothing about.
const Abstain = "O"

// Alphabet is the fixed label set of a corpus. Immutable after construction.
type Alphabet struct {
	labels  []string
	indices map[string]int
}

// NewAlphabet builds an alphabet from the given labels, deduplicating while
// preserving first-seen order. The abstention symbol is always present at
// index 0 whether or not it was passed in.
func NewAlphabet(labels []string) *Alphabet {
	alphabet := &Alphabet{
		labels:  []string{Abstain},
		indices: map[string]int{Abstain: 0},
	}
	for _, label := range labels {
		if _, ok := alphabet.indices[label]; ok {
			continue
		}
		alphabet.indices[label] = len(alphabet.labels)
		alphabet.labels = append(alphabet.labels, label)
	}
	return alphabet
}

func (alphabet *Alphabet) Size() int {
	return len(alphabet.labels)
}

func (alphabet *Alphabet) Labels() []string {
	labels := make([]string, len(alphabet.labels))
	copy(labels, alphabet.labels)
	return labels
}

func (alphabet *Alphabet) Has(label string) bool {
	_, ok := alphabet.indices[label]
	return ok
}

// Index returns the position of the label, or -1 when it is not in the
// alphabet.
func (alphabet *Alphabet) Index(label string) int {
	index, ok := alphabet.indices[label]
	if !ok {
		return -1
	}
	return index
}
