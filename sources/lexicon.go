package sources

import (
	"strings"

	"labelforge.com/wsl/corpus"
	"labelforge.com/wsl/logger"
	"labelforge.com/wsl/types"
	"labelforge.com/wsl/utils"
)

// SchemePTB marks a lexicon whose tags are Penn Treebank and need mapping to
// the universal set at load time.
const SchemePTB = "ptb"

// NewLexicon loads a bar-separated term file (term|TAG, multi-token terms
// allowed) and returns a detector scanning documents left to right, longest
// match first. Matching is case-insensitive. Terms whose tag falls outside
// the alphabet are dropped at load time.
func NewLexicon(name string, bsvPath string, scheme string, alphabet *types.Alphabet) (Detector, error) {
	srcLogger := logger.NewLogger("Lexicon loader").With().
		Str("source", name).
		Str("path", bsvPath).Logger()
	srcLogger.Info().Msg("Started loading")

	getHash := func(columns []string) uint64 {
		return utils.HashString(strings.Join(columns, "|"))
	}
	reader, err := utils.NewBSVReader(bsvPath, getHash)
	if err != nil {
		return nil, err
	}

	store := utils.GlobalStringStore()
	tree := &utils.StringPrefixTree{}
	loaded, dropped := 0, 0
	for columns := range reader {
		if len(columns) < 2 {
			continue
		}
		term := strings.TrimSpace(columns[0])
		tag := strings.TrimSpace(columns[1])
		if scheme == SchemePTB {
			tag = corpus.MapPennToUniversal(tag)
		}
		if !alphabet.Has(tag) {
			dropped++
			continue
		}

		tokens := strings.Fields(strings.ToLower(term))
		if len(tokens) == 0 {
			continue
		}
		for i, token := range tokens {
			tokens[i] = *store.GetPointer(token)
		}
		tree.Add(tokens, tag)
		loaded++
	}
	srcLogger.Info().Msgf("%d terms were loaded, %d dropped", loaded, dropped)

	return DetectorFunc(func(doc *types.Document) ([]types.Span, error) {
		lowered := make([]string, len(doc.Tokens))
		for i, token := range doc.Tokens {
			lowered[i] = strings.ToLower(token.Text)
		}

		var spans []types.Span
		for i := 0; i < len(lowered); {
			matched, tag := tree.Match(lowered[i:])
			if matched == 0 {
				i++
				continue
			}
			spans = append(spans, types.Span{
				Start: int32(i),
				End:   int32(i + matched),
				Label: tag,
			})
			i += matched
		}
		return spans, nil
	}), nil
}
