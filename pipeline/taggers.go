package pipeline

import (
	"fmt"
	"path"

	"labelforge.com/wsl/pos"
	"labelforge.com/wsl/sources"
	"labelforge.com/wsl/types"
)

// LoadTaggers fills params.Taggers with one tagging closure per distinct
// model named by the configurations' tagger sources. Entries already present
// are kept, so callers can inject replacements up front.
func LoadTaggers(params *AggregationParams) error {
	if params.Taggers == nil {
		params.Taggers = make(map[string]sources.TagFunc)
	}
	for _, cfg := range params.Configurations {
		if cfg.Pipeline != types.AggregationPipeline {
			continue
		}
		for _, spec := range cfg.Sources {
			if spec.Variant != sources.VariantTagger {
				continue
			}
			if _, ok := params.Taggers[spec.Model]; ok {
				continue
			}
			model, err := pos.LoadModelFromFile(path.Join(params.ResourceFolder, spec.Model))
			if err != nil {
				return fmt.Errorf("tagger model %q: %w", spec.Model, err)
			}
			params.Taggers[spec.Model] = pos.NewTagger(model)
		}
	}
	return nil
}
