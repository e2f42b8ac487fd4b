package sources

import (
	"fmt"
	"path"

	"labelforge.com/wsl/types"
)

// source variants
const (
	VariantLexicon = "lexicon"
	VariantSuffix  = "suffix"
	VariantPattern = "pattern"
	VariantContext = "context"
	VariantTagger  = "tagger"
)

// Build constructs the registry a configuration declares. Resource paths in
// the specs resolve relative to resourcesDir; external taggers are matched
// by the spec's model name.
func Build(
	cfg types.Configuration,
	alphabet *types.Alphabet,
	resourcesDir string,
	taggers map[string]TagFunc,
) (*Registry, error) {
	reg := NewRegistry(alphabet)
	for _, spec := range cfg.Sources {
		detector, err := buildDetector(spec, alphabet, resourcesDir, taggers)
		if err != nil {
			return nil, fmt.Errorf("source %q: %w", spec.Name, err)
		}
		if err := reg.Register(spec.Name, detector); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

func buildDetector(
	spec types.SourceSpec,
	alphabet *types.Alphabet,
	resourcesDir string,
	taggers map[string]TagFunc,
) (Detector, error) {
	switch spec.Variant {
	case VariantLexicon:
		return NewLexicon(spec.Name, path.Join(resourcesDir, spec.Path), spec.Scheme, alphabet)
	case VariantSuffix:
		return NewSuffix(spec.Name, path.Join(resourcesDir, spec.Path), spec.MinLength, alphabet)
	case VariantPattern:
		return NewPattern(spec.Pattern, spec.Label, alphabet)
	case VariantContext:
		if !alphabet.Has(spec.Label) {
			return nil, &types.AlphabetMismatchError{Layer: spec.Name, Label: spec.Label}
		}
		return NewContext(spec.Layers, spec.Triggers, spec.Label), nil
	case VariantTagger:
		tag, ok := taggers[spec.Model]
		if !ok {
			return nil, fmt.Errorf("no external tagger %q", spec.Model)
		}
		return NewTagger(tag), nil
	}
	return nil, fmt.Errorf("unknown source variant %q", spec.Variant)
}
