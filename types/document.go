package types

import (
	"fmt"
	"sort"
)

// Document is a tokenized text carrying named annotation layers. Layers are
// write-once: a labeling source or aggregator claims its layer in a single
// ApplyLayer call and nothing may touch it afterwards.
type Document struct {
	Uid    string
	Tokens []*Token

	// Gold holds one reference label per token when the corpus provides
	// them, with the abstention symbol standing in for tags outside the
	// alphabet. Empty for unlabeled documents.
	Gold []string

	alphabet *Alphabet
	layers   map[string][]Span
	order    []string
}

func NewDocument(uid string, tokens []*Token, alphabet *Alphabet) *Document {
	return &Document{
		Uid:      uid,
		Tokens:   tokens,
		alphabet: alphabet,
		layers:   map[string][]Span{},
	}
}

func (doc *Document) Alphabet() *Alphabet {
	return doc.alphabet
}

func (doc *Document) Len() int {
	return len(doc.Tokens)
}

// ApplyLayer registers the named layer with the given spans. The spans are
// validated against the document before anything is stored: bounds must fit
// the token range, labels must come from the alphabet, and no two spans may
// overlap. An empty span set still claims the layer name.
func (doc *Document) ApplyLayer(name string, spans []Span) error {
	if name == "" {
		return fmt.Errorf("layer name must not be empty")
	}
	if _, ok := doc.layers[name]; ok {
		return fmt.Errorf("layer %q already applied to document %q", name, doc.Uid)
	}

	sorted := make(Spans, len(spans))
	copy(sorted, spans)
	sort.Sort(sorted)

	size := int32(len(doc.Tokens))
	for i, span := range sorted {
		if span.Start < 0 || span.End > size || span.Start >= span.End {
			return fmt.Errorf(
				"layer %q: span [%d,%d) out of range for %d token(s)",
				name, span.Start, span.End, size,
			)
		}
		if !doc.alphabet.Has(span.Label) {
			return &AlphabetMismatchError{Layer: name, Label: span.Label}
		}
		if i > 0 && sorted[i-1].Overlaps(span) {
			return &ConflictError{Layer: name, First: sorted[i-1], Second: span}
		}
	}

	doc.layers[name] = sorted
	doc.order = append(doc.order, name)
	return nil
}

// Layer returns the spans of the named layer, empty when the layer was never
// applied.
func (doc *Document) Layer(name string) []Span {
	return doc.layers[name]
}

func (doc *Document) HasLayer(name string) bool {
	_, ok := doc.layers[name]
	return ok
}

// LayerNames returns the layer names in application order.
func (doc *Document) LayerNames() []string {
	names := make([]string, len(doc.order))
	copy(names, doc.order)
	return names
}

// LabelsAt projects the named layers onto the token sequence: one row per
// token, one column per requested layer, the abstention symbol wherever a
// layer does not cover a token. Unknown layer names project as all-abstain
// columns.
func (doc *Document) LabelsAt(names []string) [][]string {
	rows := make([][]string, len(doc.Tokens))
	for i := range rows {
		row := make([]string, len(names))
		for j := range row {
			row[j] = Abstain
		}
		rows[i] = row
	}
	for j, name := range names {
		for _, span := range doc.layers[name] {
			for t := span.Start; t < span.End; t++ {
				rows[t][j] = span.Label
			}
		}
	}
	return rows
}
