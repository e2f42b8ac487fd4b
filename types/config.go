package types

import (
	"errors"
	"io/ioutil"
	"os"
	"path"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"labelforge.com/wsl/logger"
)

const (
	// pipeline type
	AggregationPipeline = "aggregation"

	// features
	MajorityVoteFeature = "majority_vote"
	HMMFeature          = "hmm"
	EvaluationFeature   = "evaluation"
)

// SourceSpec declares one labeling source of a configuration. Variant picks
// the implementation; the other fields apply per variant.
type SourceSpec struct {
	Name    string `yaml:"name" json:"name"`
	Variant string `yaml:"variant" json:"variant"`

	// lexicon and suffix variants
	Path      string `yaml:"path" json:"path"`
	Scheme    string `yaml:"scheme" json:"scheme"`
	MinLength int    `yaml:"min_length" json:"min_length"`

	// pattern variant
	Pattern string `yaml:"pattern" json:"pattern"`
	Label   string `yaml:"label" json:"label"`

	// context variant
	Layers   []string `yaml:"layers" json:"layers"`
	Triggers []string `yaml:"triggers" json:"triggers"`

	// tagger variant
	Model string `yaml:"model" json:"model"`
}

// TrainParams carries the sequence-model training knobs of a configuration.
// Zero values fall back to the trainer defaults.
type TrainParams struct {
	MaxIterations int     `yaml:"max_iterations" json:"max_iterations"`
	Tolerance     float64 `yaml:"tolerance" json:"tolerance"`
	Smoothing     float64 `yaml:"smoothing" json:"smoothing"`
	Workers       int     `yaml:"workers" json:"workers"`
	SeedLayer     string  `yaml:"seed_layer" json:"seed_layer"`
}

type Configuration struct {
	Name     string       `json:"name"`
	FilePath string       `json:"file_path"`
	Pipeline string       `yaml:"pipeline" json:"pipeline"`
	Labels   []string     `yaml:"labels" json:"labels"`
	Sources  []SourceSpec `yaml:"sources" json:"sources"`
	Prefer   []string     `yaml:"prefer" json:"prefer"`
	HMM      TrainParams  `yaml:"hmm" json:"hmm"`
	Features []string     `yaml:"features" json:"features"`
}

func (cfg Configuration) CheckFeature(featureName string) bool {
	for _, feat := range cfg.Features {
		if feat == featureName {
			return true
		}
	}

	return false
}

func LoadConfigurations(dirPath string) ([]Configuration, error) {
	wslLogger := logger.NewLogger("LoadConfigurations")

	files, err := ioutil.ReadDir(dirPath)
	if err != nil {
		return nil, err
	}

	var wg sync.WaitGroup
	configChan := make(chan Configuration, len(files))
	for _, f := range files {
		// Skip dirs and non-yaml files
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".yaml") {
			continue
		}

		wg.Add(1)
		go func(file os.FileInfo) {
			defer wg.Done()
			cfg := Configuration{
				Name:     strings.Split(file.Name(), ".yaml")[0],
				FilePath: path.Join(dirPath, file.Name()),
			}
			buf, err := ioutil.ReadFile(cfg.FilePath)
			if err != nil {
				wslLogger.Err(err)
				return
			}
			if err := yaml.Unmarshal(buf, &cfg); err != nil {
				wslLogger.Err(err)
				return
			}

			// check pipeline type
			if cfg.Pipeline != AggregationPipeline {
				wslLogger.Err(errors.New("wrong pipeline type"))
				return
			}
			if len(cfg.Labels) == 0 {
				wslLogger.Err(errors.New("configuration declares no labels"))
				return
			}

			configChan <- cfg
		}(f)
	}

	go func() {
		wg.Wait()
		close(configChan)
	}()

	configs := make([]Configuration, 0, len(configChan))
	for cfg := range configChan {
		configs = append(configs, cfg)
	}
	return configs, nil
}
