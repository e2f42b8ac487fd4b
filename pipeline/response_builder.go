package pipeline

import (
	"labelforge.com/wsl/analysis"
	"labelforge.com/wsl/eval"
	"labelforge.com/wsl/hmm"
	"labelforge.com/wsl/logger"
	"labelforge.com/wsl/sources"
	"labelforge.com/wsl/types"
)

type Result struct {
	ConfigName string
	Data       interface{}
}

// ResolvedDocument carries one aggregator's output for one document: the
// per-token labels and the merged spans of the layer it wrote.
type ResolvedDocument struct {
	Uid    string       `json:"uid"`
	Labels []string     `json:"labels"`
	Spans  []types.Span `json:"spans"`
}

// SourceReport is the serialized form of one registry pass over the chunk.
type SourceReport struct {
	Spans          int            `json:"spans"`
	Failures       map[string]int `json:"failures,omitempty"`
	FailureDetails []string       `json:"failure_details,omitempty"`
	Filtered       map[string]int `json:"filtered,omitempty"`
}

// AggregationResponse is one configuration's fragment of the batch
// response. Aggregator outputs appear only when the configuration enables
// the feature; Error carries the first failure that cut the branch short.
type AggregationResponse struct {
	DocId        string                  `json:"doc_id"`
	Analysis     analysis.Summary        `json:"analysis"`
	Sources      SourceReport            `json:"sources"`
	MajorityVote []ResolvedDocument      `json:"majority_vote,omitempty"`
	Hmm          []ResolvedDocument      `json:"hmm,omitempty"`
	TrainInfo    *hmm.TrainInfo          `json:"train_info,omitempty"`
	Model        *hmm.Model              `json:"model,omitempty"`
	Evaluation   map[string]*eval.Report `json:"evaluation,omitempty"`
	Error        string                  `json:"error,omitempty"`
}

func NewAggregationResult() func(br branch, request Request) <-chan Result {
	resLogger := logger.NewLogger("Aggregation result")

	return func(br branch, request Request) <-chan Result {
		out := make(chan Result)
		go func() {
			defer close(out)
			cfgLogger := resLogger.With().
				Str("config_name", br.cfg.Name).
				Str("tid", request.Tid).
				Logger()

			response := AggregationResponse{DocId: request.Tid}

			docs, err := readCorpus(request, br.alphabet)
			if err != nil {
				cfgLogger.Err(err).Msg("Failed to read corpus")
				response.Error = err.Error()
				out <- Result{ConfigName: br.cfg.Name, Data: response}
				return
			}

			response.Sources = newSourceReport(br.registry.Apply(docs))
			response.Analysis = analysis.Summarize(docs, br.registry.Names())

			if br.cfg.CheckFeature(types.MajorityVoteFeature) {
				for _, doc := range docs {
					if err := br.voter.Apply(doc); err != nil {
						cfgLogger.Err(err).
							Str("doc_uid", doc.Uid).
							Msg("Failed to write majority vote layer")
					}
				}
				response.MajorityVote = resolvedDocuments(docs, br.voter.Output)
			}

			if br.cfg.CheckFeature(types.HMMFeature) {
				model, info, err := br.trainer.Train(docs, br.alphabet, br.registry.Names())
				if err != nil {
					cfgLogger.Err(err).Msg("Failed to train sequence model")
					response.Error = err.Error()
				} else {
					for _, doc := range docs {
						if err := model.Apply(doc); err != nil {
							cfgLogger.Err(err).
								Str("doc_uid", doc.Uid).
								Msg("Failed to write decoded layer")
						}
					}
					response.Hmm = resolvedDocuments(docs, hmm.OutputLayer)
					response.TrainInfo = &info
					response.Model = model
				}
			}

			if br.cfg.CheckFeature(types.EvaluationFeature) {
				response.Evaluation = map[string]*eval.Report{}
				var layerNames []string
				if response.MajorityVote != nil {
					layerNames = append(layerNames, br.voter.Output)
				}
				if response.Hmm != nil {
					layerNames = append(layerNames, hmm.OutputLayer)
				}
				for _, layerName := range layerNames {
					report, err := eval.Evaluate(docs, layerName)
					if err != nil {
						cfgLogger.Warn().Err(err).
							Str("layer", layerName).
							Msg("Skipping evaluation")
						continue
					}
					response.Evaluation[layerName] = report
				}
			}

			out <- Result{ConfigName: br.cfg.Name, Data: response}
		}()
		return out
	}
}

func newSourceReport(report *sources.Report) SourceReport {
	out := SourceReport{
		Spans:    report.SpanCount,
		Failures: report.Failures,
		Filtered: report.Filtered,
	}
	for _, failure := range report.FailureDetails {
		out.FailureDetails = append(out.FailureDetails, failure.Error())
	}
	return out
}

func resolvedDocuments(docs []*types.Document, layerName string) []ResolvedDocument {
	out := make([]ResolvedDocument, len(docs))
	for i, doc := range docs {
		labels := make([]string, doc.Len())
		for t, row := range doc.LabelsAt([]string{layerName}) {
			labels[t] = row[0]
		}
		out[i] = ResolvedDocument{
			Uid:    doc.Uid,
			Labels: labels,
			Spans:  doc.Layer(layerName),
		}
	}
	return out
}
