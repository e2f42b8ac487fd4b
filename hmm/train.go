package hmm

import (
	"fmt"
	"math"
	"runtime"
	"sync"

	"labelforge.com/wsl/logger"
	"labelforge.com/wsl/types"
)

const (
	DefaultMaxIterations = 10
	DefaultTolerance     = 1e-4
	DefaultSmoothing     = 0.1
	DefaultSeedLayer     = "majority_vote"
)

// TrainInfo reports how a training run went.
type TrainInfo struct {
	Iterations    int     `json:"iterations"`
	LogLikelihood float64 `json:"log_likelihood"`
	Converged     bool    `json:"converged"`
}

type Trainer struct {
	params types.TrainParams
}

// NewTrainer fills unset params with the defaults: 10 iterations, tolerance
// 1e-4, smoothing 0.1, one worker per CPU, seeded from the majority-vote
// layer.
func NewTrainer(params types.TrainParams) *Trainer {
	if params.MaxIterations <= 0 {
		params.MaxIterations = DefaultMaxIterations
	}
	if params.Tolerance <= 0 {
		params.Tolerance = DefaultTolerance
	}
	if params.Smoothing <= 0 {
		params.Smoothing = DefaultSmoothing
	}
	if params.Workers <= 0 {
		params.Workers = runtime.NumCPU()
	}
	if params.SeedLayer == "" {
		params.SeedLayer = DefaultSeedLayer
	}
	return &Trainer{params: params}
}

// Train fits the model on the source observations of the corpus. Gold labels
// are never read. Training fails with DegenerateModelError when an alphabet
// label is never emitted by any source anywhere in the corpus; abstention is
// exempt since every uncovered token emits it.
//
// Initialization harvests counts from each document's seed layer (the
// majority-vote output by default, uniform when absent), smoothed so no
// probability starts at zero. Each EM iteration fans the forward-backward
// passes out over a bounded worker pool and merges the expected counts at
// the barrier; the loop stops when the relative log-likelihood improvement
// drops below the tolerance or the iteration budget runs out.
func (trainer *Trainer) Train(
	docs []*types.Document,
	alphabet *types.Alphabet,
	sourceNames []string,
) (*Model, TrainInfo, error) {
	info := TrainInfo{}
	if len(docs) == 0 {
		return nil, info, fmt.Errorf("training corpus is empty")
	}
	if len(sourceNames) == 0 {
		return nil, info, fmt.Errorf("no source layers to train on")
	}

	trainLogger := logger.NewLogger("HMM trainer")
	trainLogger.Info().
		Int("documents", len(docs)).
		Int("labels", alphabet.Size()).
		Int("sources", len(sourceNames)).
		Msg("Started training")

	obs := make([][][]int, len(docs))
	for i, doc := range docs {
		obs[i] = observations(doc, sourceNames, alphabet)
	}

	if err := checkDegenerate(alphabet, obs); err != nil {
		return nil, info, err
	}

	model := trainer.mstep(trainer.seedCounts(docs, alphabet, sourceNames, obs), alphabet, sourceNames)

	prevLogLik := math.Inf(-1)
	for iter := 1; iter <= trainer.params.MaxIterations; iter++ {
		counts := trainer.estep(model, obs)
		info.Iterations = iter
		info.LogLikelihood = counts.logLik

		trainLogger.Debug().
			Int("iteration", iter).
			Float64("log_likelihood", counts.logLik).
			Msg("EM iteration finished")

		if iter > 1 {
			improvement := math.Abs(counts.logLik-prevLogLik) / math.Max(math.Abs(prevLogLik), 1)
			if improvement < trainer.params.Tolerance {
				info.Converged = true
				break
			}
		}
		prevLogLik = counts.logLik
		if iter < trainer.params.MaxIterations {
			model = trainer.mstep(counts, alphabet, sourceNames)
		}
	}

	trainLogger.Info().
		Int("iterations", info.Iterations).
		Float64("log_likelihood", info.LogLikelihood).
		Bool("converged", info.Converged).
		Msg("Finished training")
	return model, info, nil
}

// estep fans the forward-backward passes out over the worker pool, one
// local accumulator per worker, merged after the pool drains.
func (trainer *Trainer) estep(model *Model, obs [][][]int) *accumulator {
	workers := trainer.params.Workers
	if workers > len(obs) {
		workers = len(obs)
	}

	jobs := make(chan int)
	locals := make(chan *accumulator, workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := newAccumulator(len(model.Labels), len(model.Sources))
			for i := range jobs {
				local.absorb(model, obs[i])
			}
			locals <- local
		}()
	}

	for i := range obs {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	close(locals)

	total := newAccumulator(len(model.Labels), len(model.Sources))
	for local := range locals {
		total.merge(local)
	}
	return total
}

// mstep normalizes the smoothed counts into a new model.
func (trainer *Trainer) mstep(counts *accumulator, alphabet *types.Alphabet, sourceNames []string) *Model {
	labels := alphabet.Labels()
	sources := make([]string, len(sourceNames))
	copy(sources, sourceNames)

	model := &Model{
		Labels:      labels,
		Sources:     sources,
		Fingerprint: ModelFingerprint(labels, sources),
		Start:       normalizeLog(counts.start, trainer.params.Smoothing),
		Trans:       make([][]float64, len(labels)),
		Emit:        make([][][]float64, len(sources)),
	}
	for j := range model.Trans {
		model.Trans[j] = normalizeLog(counts.trans[j], trainer.params.Smoothing)
	}
	for s := range model.Emit {
		model.Emit[s] = make([][]float64, len(labels))
		for k := range model.Emit[s] {
			model.Emit[s][k] = normalizeLog(counts.emit[s][k], trainer.params.Smoothing)
		}
	}
	return model
}

// seedCounts harvests start, transition and emission counts against each
// document's seed layer. Documents without the layer contribute nothing;
// when no document carries it the smoothed counts come out uniform.
func (trainer *Trainer) seedCounts(
	docs []*types.Document,
	alphabet *types.Alphabet,
	sourceNames []string,
	obs [][][]int,
) *accumulator {
	acc := newAccumulator(alphabet.Size(), len(sourceNames))
	for i, doc := range docs {
		if !doc.HasLayer(trainer.params.SeedLayer) {
			continue
		}
		prev := -1
		for t, row := range doc.LabelsAt([]string{trainer.params.SeedLayer}) {
			k := alphabet.Index(row[0])
			if k < 0 {
				k = 0
			}
			if t == 0 {
				acc.start[k]++
			} else {
				acc.trans[prev][k]++
			}
			for s := range sourceNames {
				acc.emit[s][k][obs[i][t][s]]++
			}
			prev = k
		}
	}
	return acc
}

func checkDegenerate(alphabet *types.Alphabet, obs [][][]int) error {
	seen := make([]bool, alphabet.Size())
	for _, docObs := range obs {
		for _, row := range docObs {
			for _, o := range row {
				seen[o] = true
			}
		}
	}
	var missing []string
	labels := alphabet.Labels()
	for k := 1; k < len(seen); k++ {
		if !seen[k] {
			missing = append(missing, labels[k])
		}
	}
	if len(missing) > 0 {
		return &types.DegenerateModelError{Labels: missing}
	}
	return nil
}

func normalizeLog(counts []float64, smoothing float64) []float64 {
	total := 0.0
	for _, count := range counts {
		total += count + smoothing
	}
	out := make([]float64, len(counts))
	for i, count := range counts {
		out[i] = math.Log((count + smoothing) / total)
	}
	return out
}
