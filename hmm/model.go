// Package hmm implements the sequence-model aggregator: a hidden Markov
// model over the latent true-label sequence, with every labeling source
// treated as an independent noisy emission channel. Training is unsupervised
// expectation-maximization over the weakly labeled corpus; decoding is
// log-space Viterbi.
package hmm

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"strings"

	"labelforge.com/wsl/types"
	"labelforge.com/wsl/utils"
)

// OutputLayer is the layer name the decoder writes.
const OutputLayer = "hmm"

// Model holds the trained tables in log space. Labels is the full alphabet
// with abstention at index 0; abstention is a genuine latent state and a
// valid observation symbol of every source. Emit[s][k][o] is the log
// probability that source s emits observation o when the true label is k.
// A model is immutable once trained; re-training builds a new value.
type Model struct {
	Labels      []string      `json:"labels"`
	Sources     []string      `json:"sources"`
	Start       []float64     `json:"start"`
	Trans       [][]float64   `json:"transitions"`
	Emit        [][][]float64 `json:"emissions"`
	Fingerprint uint64        `json:"fingerprint"`
}

// ModelFingerprint hashes the alphabet and source set a model was trained
// for. A persisted model only decodes documents of a compatible
// configuration.
func ModelFingerprint(labels []string, sources []string) uint64 {
	return utils.HashBytes(
		[]byte(strings.Join(labels, "|")),
		[]byte(strings.Join(sources, "|")),
	)
}

func (model *Model) validate() error {
	k, s := len(model.Labels), len(model.Sources)
	if k == 0 {
		return fmt.Errorf("model has no labels")
	}
	if model.Labels[0] != types.Abstain {
		return fmt.Errorf("model alphabet must start with the abstention symbol")
	}
	if s == 0 {
		return fmt.Errorf("model has no sources")
	}
	if len(model.Start) != k || len(model.Trans) != k {
		return fmt.Errorf("model tables do not match %d label(s)", k)
	}
	for _, row := range model.Trans {
		if len(row) != k {
			return fmt.Errorf("model transition table is not %dx%d", k, k)
		}
	}
	if len(model.Emit) != s {
		return fmt.Errorf("model emission tables do not match %d source(s)", s)
	}
	for _, table := range model.Emit {
		if len(table) != k {
			return fmt.Errorf("model emission table is not %dx%dx%d", s, k, k)
		}
		for _, row := range table {
			if len(row) != k {
				return fmt.Errorf("model emission table is not %dx%dx%d", s, k, k)
			}
		}
	}
	if model.Fingerprint != ModelFingerprint(model.Labels, model.Sources) {
		return fmt.Errorf("model fingerprint does not match its labels and sources")
	}
	return nil
}

func (model *Model) SaveToFile(modelFilePath string) error {
	data, err := json.Marshal(model)
	if err != nil {
		return err
	}
	return ioutil.WriteFile(modelFilePath, data, 0644)
}

func LoadModelFromFile(modelFilePath string) (*Model, error) {
	buf, err := ioutil.ReadFile(modelFilePath)
	if err != nil {
		return nil, err
	}

	var model Model
	if err = json.Unmarshal(buf, &model); err != nil {
		return nil, err
	}
	if err = model.validate(); err != nil {
		return nil, err
	}
	return &model, nil
}

// observations projects the source layers of a document onto alphabet
// indices: one row per token, one column per source, index 0 where a source
// abstains.
func observations(doc *types.Document, sources []string, alphabet *types.Alphabet) [][]int {
	rows := doc.LabelsAt(sources)
	obs := make([][]int, len(rows))
	for t, row := range rows {
		obs[t] = make([]int, len(row))
		for s, label := range row {
			index := alphabet.Index(label)
			if index < 0 {
				index = 0
			}
			obs[t][s] = index
		}
	}
	return obs
}

func (model *Model) checkAlphabet(alphabet *types.Alphabet) error {
	labels := alphabet.Labels()
	if len(labels) != len(model.Labels) {
		return fmt.Errorf(
			"model trained on %d label(s), document alphabet has %d",
			len(model.Labels), len(labels),
		)
	}
	for i, label := range model.Labels {
		if labels[i] != label {
			return fmt.Errorf("model alphabet differs from document alphabet at %q", label)
		}
	}
	return nil
}
