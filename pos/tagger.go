package pos

import "labelforge.com/wsl/types"

// NewTagger returns a tagging closure over plain token texts, the shape the
// labeling sources accept as an external tagger. An empty result signals a
// failed search.
func NewTagger(model Model) func(tokens []string) []string {
	search := NewBeamSearch(model, 3)
	ctx := NewContextGenerator()
	validator := NewSequenceValidator()

	return func(tokens []string) []string {
		seq := make([]*types.Token, len(tokens))
		for i, text := range tokens {
			seq[i] = types.NewToken(int32(i), text)
		}
		res, isOk := search(seq, ctx, validator)
		if !isOk {
			return []string{}
		}
		return res.Outcomes
	}
}
