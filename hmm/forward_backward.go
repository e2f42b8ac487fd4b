package hmm

import "math"

// accumulator collects expected counts over a set of documents. Every
// E-step worker owns one and they merge at the iteration barrier.
type accumulator struct {
	start  []float64
	trans  [][]float64
	emit   [][][]float64
	logLik float64
}

func newAccumulator(labelCount int, sourceCount int) *accumulator {
	acc := &accumulator{
		start: make([]float64, labelCount),
		trans: make([][]float64, labelCount),
		emit:  make([][][]float64, sourceCount),
	}
	for j := range acc.trans {
		acc.trans[j] = make([]float64, labelCount)
	}
	for s := range acc.emit {
		acc.emit[s] = make([][]float64, labelCount)
		for k := range acc.emit[s] {
			acc.emit[s][k] = make([]float64, labelCount)
		}
	}
	return acc
}

func (acc *accumulator) merge(other *accumulator) {
	for k := range acc.start {
		acc.start[k] += other.start[k]
	}
	for j := range acc.trans {
		for k := range acc.trans[j] {
			acc.trans[j][k] += other.trans[j][k]
		}
	}
	for s := range acc.emit {
		for k := range acc.emit[s] {
			for o := range acc.emit[s][k] {
				acc.emit[s][k][o] += other.emit[s][k][o]
			}
		}
	}
	acc.logLik += other.logLik
}

// absorb runs one forward-backward pass over a document's observations and
// adds the expected state, transition and emission counts.
func (acc *accumulator) absorb(model *Model, obs [][]int) {
	n := len(obs)
	if n == 0 {
		return
	}
	labelCount := len(model.Labels)
	sourceCount := len(model.Sources)

	e := emissionScores(model, obs)

	alpha := make([][]float64, n)
	alpha[0] = make([]float64, labelCount)
	for k := 0; k < labelCount; k++ {
		alpha[0][k] = model.Start[k] + e[0][k]
	}
	buf := make([]float64, labelCount)
	for t := 1; t < n; t++ {
		alpha[t] = make([]float64, labelCount)
		for k := 0; k < labelCount; k++ {
			for j := 0; j < labelCount; j++ {
				buf[j] = alpha[t-1][j] + model.Trans[j][k]
			}
			alpha[t][k] = logSumExp(buf) + e[t][k]
		}
	}

	beta := make([][]float64, n)
	beta[n-1] = make([]float64, labelCount)
	for t := n - 2; t >= 0; t-- {
		beta[t] = make([]float64, labelCount)
		for j := 0; j < labelCount; j++ {
			for k := 0; k < labelCount; k++ {
				buf[k] = model.Trans[j][k] + e[t+1][k] + beta[t+1][k]
			}
			beta[t][j] = logSumExp(buf)
		}
	}

	logLik := logSumExp(alpha[n-1])
	acc.logLik += logLik

	for t := 0; t < n; t++ {
		for k := 0; k < labelCount; k++ {
			gamma := math.Exp(alpha[t][k] + beta[t][k] - logLik)
			if t == 0 {
				acc.start[k] += gamma
			}
			for s := 0; s < sourceCount; s++ {
				acc.emit[s][k][obs[t][s]] += gamma
			}
		}
	}

	for t := 0; t < n-1; t++ {
		for j := 0; j < labelCount; j++ {
			for k := 0; k < labelCount; k++ {
				acc.trans[j][k] += math.Exp(
					alpha[t][j] + model.Trans[j][k] + e[t+1][k] + beta[t+1][k] - logLik,
				)
			}
		}
	}
}

// emissionScores sums the per-source log emission probabilities of the
// observed vector for every position and candidate state.
func emissionScores(model *Model, obs [][]int) [][]float64 {
	labelCount := len(model.Labels)
	e := make([][]float64, len(obs))
	for t, row := range obs {
		e[t] = make([]float64, labelCount)
		for k := 0; k < labelCount; k++ {
			score := 0.0
			for s, o := range row {
				score += model.Emit[s][k][o]
			}
			e[t][k] = score
		}
	}
	return e
}

func logSumExp(xs []float64) float64 {
	max := math.Inf(-1)
	for _, x := range xs {
		if x > max {
			max = x
		}
	}
	if math.IsInf(max, -1) {
		return max
	}
	sum := 0.0
	for _, x := range xs {
		sum += math.Exp(x - max)
	}
	return max + math.Log(sum)
}
