package sources

import (
	"labelforge.com/wsl/logger"
	"labelforge.com/wsl/types"
	"labelforge.com/wsl/utils"
)

const defaultSuffixMinLength = 4

// NewSuffix loads a suffix|TAG map and returns a detector labeling word
// tokens by their longest matching suffix. Tokens shorter than minLength
// runes never fire; a minLength of zero means the default of 4. Entries with
// tags outside the alphabet are dropped at load time.
func NewSuffix(name string, mapPath string, minLength int, alphabet *types.Alphabet) (Detector, error) {
	srcLogger := logger.NewLogger("Suffix loader").With().
		Str("source", name).
		Str("path", mapPath).Logger()

	raw, err := utils.ReadMap(mapPath)
	if err != nil {
		return nil, err
	}
	suffixes := make(map[string]string, len(raw))
	longest := 0
	for suffix, tag := range raw {
		if !alphabet.Has(tag) {
			srcLogger.Warn().Str("suffix", suffix).Str("tag", tag).Msg("Dropping entry outside the alphabet")
			continue
		}
		suffixes[suffix] = tag
		if n := len([]rune(suffix)); n > longest {
			longest = n
		}
	}
	srcLogger.Info().Msgf("%d suffixes were loaded", len(suffixes))

	if minLength <= 0 {
		minLength = defaultSuffixMinLength
	}

	return DetectorFunc(func(doc *types.Document) ([]types.Span, error) {
		var spans []types.Span
		for i, token := range doc.Tokens {
			if !token.IsWord {
				continue
			}
			runes := []rune(token.Text)
			if len(runes) < minLength {
				continue
			}
			// longest suffix wins, the whole word never counts as one
			max := longest
			if max > len(runes)-1 {
				max = len(runes) - 1
			}
			for l := max; l > 0; l-- {
				tag, ok := suffixes[string(runes[len(runes)-l:])]
				if !ok {
					continue
				}
				spans = append(spans, types.Span{
					Start: int32(i),
					End:   int32(i + 1),
					Label: tag,
				})
				break
			}
		}
		return spans, nil
	}), nil
}
