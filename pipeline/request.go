package pipeline

import (
	"labelforge.com/wsl/corpus"
	"labelforge.com/wsl/types"
)

// Pipeline runs one batch request and delivers the marshalled response on
// the returned channel.
type Pipeline func(request Request) <-chan string

// Request describes one corpus chunk. Corpus carries the chunk payload the
// worker fetched for the redis key; alternatively CorpusDir and Split point
// at an on-disk CoNLL-U split, with Limit capping how many documents the
// split contributes.
type Request struct {
	Corpus string `json:"redis_key"`
	Tid    string `json:"tid"`

	CorpusDir string `json:"corpus_dir,omitempty"`
	Split     string `json:"split,omitempty"`
	Limit     int    `json:"limit,omitempty"`
}

func readCorpus(request Request, alphabet *types.Alphabet) ([]*types.Document, error) {
	if request.Split != "" {
		return corpus.LoadSplit(request.CorpusDir, request.Split, alphabet, request.Limit)
	}
	return corpus.ParseDocuments([]byte(request.Corpus), alphabet)
}
