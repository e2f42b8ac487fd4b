package pipeline

import (
	"encoding/json"
	"path"

	"labelforge.com/wsl/hmm"
	"labelforge.com/wsl/logger"
	"labelforge.com/wsl/sources"
	"labelforge.com/wsl/types"
	"labelforge.com/wsl/vote"
)

type AggregationParams struct {
	ResourceFolder string                     `json:"resource_folder"`
	Configurations []types.Configuration      `json:"configurations"`
	Taggers        map[string]sources.TagFunc `json:"-"`
}

func GetAggregationParams(filePath string, cfgs []types.Configuration) AggregationParams {
	return AggregationParams{
		ResourceFolder: path.Join(filePath, "resources"),
		Configurations: cfgs,
	}
}

// branch is one configuration's aggregation machinery, built once per
// pipeline and shared across requests. Everything in it is read-only after
// construction.
type branch struct {
	cfg      types.Configuration
	alphabet *types.Alphabet
	registry *sources.Registry
	voter    vote.Voter
	trainer  *hmm.Trainer
}

func Aggregation(params AggregationParams) (Pipeline, error) {
	wslLogger := logger.NewLogger("Aggregation pipeline")
	errLogger := wslLogger.With().Caller().Logger()
	wslLogger.Info().
		Interface("params", params).
		Msg("Starting aggregation pipeline (see parameters in 'params' field)")

	branches := make([]branch, 0, len(params.Configurations))
	for _, cfg := range params.Configurations {
		if cfg.Pipeline != types.AggregationPipeline {
			continue
		}

		alphabet := types.NewAlphabet(cfg.Labels)
		registry, err := sources.Build(cfg, alphabet, params.ResourceFolder, params.Taggers)
		if err != nil {
			errLogger.Err(err).
				Str("config_name", cfg.Name).
				Str("resource_folder", params.ResourceFolder).
				Msg("Failed to build labeling sources")
			return nil, err
		}

		branches = append(branches, branch{
			cfg:      cfg,
			alphabet: alphabet,
			registry: registry,
			voter: vote.Voter{
				Layers: registry.Names(),
				Prefer: cfg.Prefer,
				Output: vote.DefaultOutput,
			},
			trainer: hmm.NewTrainer(cfg.HMM),
		})
	}

	aggregate := NewAggregationResult()

	return func(request Request) <-chan string {
		responseChan := make(chan string)
		pplnLog := wslLogger.With().Str("tid", request.Tid).Logger()
		pplnLog.Info().Msg("Started aggregation pipeline")
		reqErrLogger := pplnLog.With().Caller().Logger()

		go func() {
			resultChannel := make(chan Result)
			defer close(resultChannel)

			for _, br := range branches {
				connect(aggregate(br, request), resultChannel)
			}

			response := make(map[string]interface{})
			for i := 0; i < len(branches); i++ {
				res := <-resultChannel
				pplnLog.Info().
					Str("config_name", res.ConfigName).
					Msg("Finished pipeline for configuration")
				response[res.ConfigName] = res.Data
			}

			buf, err := json.Marshal(response)
			if err != nil {
				reqErrLogger.Err(err).Str("tid", request.Tid).Msg("Failed to marshall response")
			}
			pplnLog.Info().Msg("Finished aggregation pipeline")
			responseChan <- string(buf)
		}()

		return responseChan
	}, nil
}

func connect(from <-chan Result, to chan<- Result) {
	go func() {
		for v := range from {
			to <- v
		}
	}()
}
