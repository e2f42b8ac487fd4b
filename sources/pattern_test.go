package sources

import (
	"io/ioutil"
	"path"
	"testing"

	"github.com/stretchr/testify/require"

	"labelforge.com/wsl/types"
)

func TestPatternNumber(t *testing.T) {
	detector, err := NewPattern(PatternNumber, "NUM", testAlphabet())
	require.NoError(t, err)

	spans, err := detector.Detect(testDocument("a", "chapter", "42", "3.14", "A4"))
	require.NoError(t, err)
	require.Equal(t, []types.Span{
		{Start: 1, End: 2, Label: "NUM"},
		{Start: 2, End: 3, Label: "NUM"},
	}, spans)
}

func TestPatternPunctuation(t *testing.T) {
	detector, err := NewPattern(PatternPunctuation, "PUNCT", testAlphabet())
	require.NoError(t, err)

	spans, err := detector.Detect(testDocument("a", "wait", ",", "stop", "..."))
	require.NoError(t, err)
	require.Equal(t, []types.Span{
		{Start: 1, End: 2, Label: "PUNCT"},
		{Start: 3, End: 4, Label: "PUNCT"},
	}, spans)
}

func TestPatternProperCase(t *testing.T) {
	detector, err := NewPattern(PatternProperCase, "PROPN", testAlphabet())
	require.NoError(t, err)

	// document-initial capitalization carries no signal
	spans, err := detector.Detect(testDocument("a", "Yesterday", "Alice", "met", "bob"))
	require.NoError(t, err)
	require.Equal(t, []types.Span{{Start: 1, End: 2, Label: "PROPN"}}, spans)
}

func TestPatternValidation(t *testing.T) {
	_, err := NewPattern("nosuchpattern", "NUM", testAlphabet())
	require.Error(t, err)

	_, err = NewPattern(PatternNumber, "NOTALABEL", testAlphabet())
	require.Error(t, err)
}

func TestContext(t *testing.T) {
	doc := testDocument("a", "the", "dog", "the", "big", "dog")
	require.NoError(t, doc.ApplyLayer("det_lexicon", []types.Span{
		{Start: 0, End: 1, Label: "DET"},
		{Start: 2, End: 3, Label: "DET"},
	}))
	require.NoError(t, doc.ApplyLayer("noun_lexicon", []types.Span{
		{Start: 1, End: 2, Label: "NOUN"},
	}))

	detector := NewContext([]string{"det_lexicon", "noun_lexicon"}, []string{"DET"}, "NOUN")
	spans, err := detector.Detect(doc)
	require.NoError(t, err)

	// token 1 follows a DET but is already covered, token 3 follows a DET
	// and is uncovered
	require.Equal(t, []types.Span{{Start: 3, End: 4, Label: "NOUN"}}, spans)
}

func TestTagger(t *testing.T) {
	detector := NewTagger(func(tokens []string) []string {
		tags := make([]string, len(tokens))
		for i, token := range tokens {
			switch token {
			case "the":
				tags[i] = "DET"
			case "dog":
				tags[i] = "NOUN"
			default:
				tags[i] = types.Abstain
			}
		}
		return tags
	})

	spans, err := detector.Detect(testDocument("a", "the", "dog", "barks"))
	require.NoError(t, err)
	require.Equal(t, []types.Span{
		{Start: 0, End: 1, Label: "DET"},
		{Start: 1, End: 2, Label: "NOUN"},
	}, spans)
}

func TestTaggerMisaligned(t *testing.T) {
	detector := NewTagger(func(tokens []string) []string {
		return []string{"DET"}
	})
	_, err := detector.Detect(testDocument("a", "the", "dog"))
	require.Error(t, err)
}

func TestBuild(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, ioutil.WriteFile(path.Join(dir, "det.bsv"), []byte("the|DET\na|DET\n"), 0644))
	require.NoError(t, ioutil.WriteFile(path.Join(dir, "suffix.map"), []byte("ing|VERB\n"), 0644))

	cfg := types.Configuration{
		Name:   "test",
		Labels: []string{"NOUN", "VERB", "DET", "NUM"},
		Sources: []types.SourceSpec{
			{Name: "det_lexicon", Variant: VariantLexicon, Path: "det.bsv"},
			{Name: "verb_suffix", Variant: VariantSuffix, Path: "suffix.map"},
			{Name: "number_pattern", Variant: VariantPattern, Pattern: PatternNumber, Label: "NUM"},
			{Name: "after_det", Variant: VariantContext, Layers: []string{"det_lexicon"}, Triggers: []string{"DET"}, Label: "NOUN"},
			{Name: "external", Variant: VariantTagger, Model: "pos_en"},
		},
	}
	alphabet := types.NewAlphabet(cfg.Labels)
	taggers := map[string]TagFunc{
		"pos_en": func(tokens []string) []string {
			return make([]string, len(tokens))
		},
	}

	reg, err := Build(cfg, alphabet, dir, taggers)
	require.NoError(t, err)
	require.Equal(t, []string{
		"det_lexicon", "verb_suffix", "number_pattern", "after_det", "external",
	}, reg.Names())
}

func TestBuildUnknownVariant(t *testing.T) {
	cfg := types.Configuration{
		Sources: []types.SourceSpec{{Name: "x", Variant: "nosuch"}},
	}
	_, err := Build(cfg, testAlphabet(), "", nil)
	require.Error(t, err)
}

func TestBuildMissingTagger(t *testing.T) {
	cfg := types.Configuration{
		Sources: []types.SourceSpec{{Name: "x", Variant: VariantTagger, Model: "absent"}},
	}
	_, err := Build(cfg, testAlphabet(), "", nil)
	require.Error(t, err)
}
