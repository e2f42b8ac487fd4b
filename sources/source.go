// Package sources holds the labeling-source registry and the built-in
// detector variants. Every registered source writes the annotation layer
// carrying its own name.
package sources

import (
	"fmt"
	"sync"

	"labelforge.com/wsl/logger"
	"labelforge.com/wsl/types"
	"labelforge.com/wsl/utils"
)

// Detector is one labeling source: a single stateless pass over a document
// producing label spans. Implementations must be safe for concurrent use
// across documents.
type Detector interface {
	Detect(doc *types.Document) ([]types.Span, error)
}

// DetectorFunc adapts a plain function to the Detector interface.
type DetectorFunc func(doc *types.Document) ([]types.Span, error)

func (f DetectorFunc) Detect(doc *types.Document) ([]types.Span, error) {
	return f(doc)
}

type registered struct {
	name     string
	detector Detector
}

// Registry holds named labeling sources in registration order. Sources run
// in that order per document, so a source consuming prior layers must be
// registered after the sources it reads.
type Registry struct {
	alphabet *types.Alphabet
	entries  []registered
	names    map[string]bool
}

func NewRegistry(alphabet *types.Alphabet) *Registry {
	return &Registry{
		alphabet: alphabet,
		names:    map[string]bool{},
	}
}

func (reg *Registry) Register(name string, detector Detector) error {
	if name == "" {
		return fmt.Errorf("source name must not be empty")
	}
	if reg.names[name] {
		return fmt.Errorf("source %q already registered", name)
	}
	if detector == nil {
		return fmt.Errorf("source %q has no detector", name)
	}
	reg.names[name] = true
	reg.entries = append(reg.entries, registered{name: name, detector: detector})
	return nil
}

// Names returns the source names in registration order.
func (reg *Registry) Names() []string {
	names := make([]string, len(reg.entries))
	for i, ent := range reg.entries {
		names[i] = ent.name
	}
	return names
}

// Apply runs every source over every document, one goroutine per document.
// A failing or panicking source is isolated: the failure lands in the report
// and every other source still writes its layer. Span labels outside the
// alphabet are filtered, never coerced, and counted per source.
func (reg *Registry) Apply(docs []*types.Document) *Report {
	srcLogger := logger.NewLogger("Labeling sources")

	reports := make(chan *Report, len(docs))
	var wg sync.WaitGroup
	for _, doc := range docs {
		wg.Add(1)
		go func(doc *types.Document) {
			defer wg.Done()
			reports <- reg.applyOne(doc)
		}(doc)
	}
	wg.Wait()
	close(reports)

	total := NewReport()
	for report := range reports {
		total.Merge(report)
	}
	total.DocCount = len(docs)

	srcLogger.Info().
		Int("documents", total.DocCount).
		Int("spans", total.SpanCount).
		Int("failures", len(total.FailureDetails)).
		Msg("Applied labeling sources")
	return total
}

func (reg *Registry) applyOne(doc *types.Document) *Report {
	report := NewReport()
	for _, ent := range reg.entries {
		spans, err := detect(ent.detector, doc)
		if err != nil {
			report.addFailure(&types.DetectorFailure{Source: ent.name, DocUid: doc.Uid, Err: err})
			continue
		}

		kept := make([]types.Span, 0, len(spans))
		for _, span := range spans {
			if !reg.alphabet.Has(span.Label) {
				report.Filtered[ent.name]++
				continue
			}
			kept = append(kept, span)
		}

		if err := doc.ApplyLayer(ent.name, kept); err != nil {
			report.addFailure(&types.DetectorFailure{Source: ent.name, DocUid: doc.Uid, Err: err})
			continue
		}
		report.SpanCount += len(kept)
	}
	return report
}

func detect(detector Detector, doc *types.Document) (spans []types.Span, err error) {
	defer utils.RecoverWithError(&err)
	return detector.Detect(doc)
}
