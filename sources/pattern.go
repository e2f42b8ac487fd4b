package sources

import (
	"fmt"
	"strings"

	"labelforge.com/wsl/types"
)

// Condition is a per-token predicate. Pattern sources bind one condition to
// one label.
type Condition func(doc *types.Document, index int) bool

func NewNumberCondition() Condition {
	return func(doc *types.Document, index int) bool {
		return doc.Tokens[index].IsNumber
	}
}

func NewPunctuationCondition() Condition {
	return func(doc *types.Document, index int) bool {
		return doc.Tokens[index].IsPunct
	}
}

// NewProperCaseCondition fires on capitalized words that do not open the
// document, where capitalization carries no signal.
func NewProperCaseCondition() Condition {
	return func(doc *types.Document, index int) bool {
		if index == 0 {
			return false
		}
		token := doc.Tokens[index]
		return token.IsWord && strings.HasPrefix(token.Shape, "X")
	}
}

const (
	PatternNumber      = "number"
	PatternPunctuation = "punctuation"
	PatternProperCase  = "propercase"
)

// NewPattern binds a named condition to a label. The label must be part of
// the alphabet; patterns are declared in configuration files and a typo
// there should fail the build, not silently annotate nothing.
func NewPattern(pattern string, label string, alphabet *types.Alphabet) (Detector, error) {
	if !alphabet.Has(label) {
		return nil, &types.AlphabetMismatchError{Layer: pattern, Label: label}
	}

	var condition Condition
	switch pattern {
	case PatternNumber:
		condition = NewNumberCondition()
	case PatternPunctuation:
		condition = NewPunctuationCondition()
	case PatternProperCase:
		condition = NewProperCaseCondition()
	default:
		return nil, fmt.Errorf("unknown pattern %q", pattern)
	}

	return DetectorFunc(func(doc *types.Document) ([]types.Span, error) {
		var spans []types.Span
		for i := range doc.Tokens {
			if !condition(doc, i) {
				continue
			}
			spans = append(spans, types.Span{
				Start: int32(i),
				End:   int32(i + 1),
				Label: label,
			})
		}
		return spans, nil
	}), nil
}
