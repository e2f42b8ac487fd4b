package api

import (
	"encoding/json"
	"io/ioutil"
	"net/http"

	"labelforge.com/wsl/pipeline"
)

type Request struct {
	Pipeline pipeline.Pipeline
}

func (req *Request) ProcessCorpus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	logger := makeRequestLogger(r)

	if r.Method != "POST" {
		logger.Err(nil).Int("status", http.StatusMethodNotAllowed).Msg("Only 'POST' method is allowed here")
		http.Error(w, "", http.StatusMethodNotAllowed)
		return
	}

	msg, err := ioutil.ReadAll(r.Body)
	if err != nil {
		logger.Err(err).Int("status", http.StatusBadRequest).Msg("Could not read request body")
		http.Error(w, "", http.StatusBadRequest)
		return
	}

	request := buildRequest(msg)
	logger.Info().Str("tid", request.Tid).Msg("Starting pipeline for request from API")
	resp := <-req.Pipeline(request)
	_, _ = w.Write([]byte(resp))
	logger.Info().Int("status", http.StatusOK).Msg("Finished processing request")
}

// buildRequest treats the body as a corpus chunk payload unless it names an
// on-disk split to load instead.
func buildRequest(msg []byte) pipeline.Request {
	var request pipeline.Request
	if err := json.Unmarshal(msg, &request); err == nil && request.Split != "" {
		request.Tid = "test_api"
		request.Corpus = ""
		return request
	}
	return pipeline.Request{
		Tid:    "test_api",
		Corpus: string(msg),
	}
}
