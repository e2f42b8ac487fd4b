package sources

import (
	"fmt"

	"labelforge.com/wsl/types"
)

// TagFunc produces one tag per token text. External part-of-speech models
// plug into a configuration through this shape.
type TagFunc func(tokens []string) []string

// NewTagger adapts an external tagging function. A tag count misaligned with
// the token count is an error; tags outside the alphabet are left for the
// registry filter to count.
func NewTagger(tag TagFunc) Detector {
	return DetectorFunc(func(doc *types.Document) ([]types.Span, error) {
		words := make([]string, len(doc.Tokens))
		for i, token := range doc.Tokens {
			words[i] = token.Text
		}
		tags := tag(words)
		if len(tags) != len(words) {
			return nil, fmt.Errorf("tagger returned %d tag(s) for %d token(s)", len(tags), len(words))
		}
		return types.SpansFromLabels(tags), nil
	})
}
