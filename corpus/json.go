package corpus

import (
	"encoding/json"
	"fmt"

	"labelforge.com/wsl/types"
)

type DocumentPayload struct {
	Uid    string   `json:"uid"`
	Tokens []string `json:"tokens"`
	Gold   []string `json:"gold,omitempty"`
}

type CorpusPayload struct {
	Documents []DocumentPayload `json:"documents"`
}

// ParseDocuments decodes a JSON corpus chunk. Gold tags are optional per
// document; when present they must align with the tokens, and tags outside
// the alphabet are recorded as the abstention symbol.
func ParseDocuments(data []byte, alphabet *types.Alphabet) ([]*types.Document, error) {
	var payload CorpusPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, err
	}

	docs := make([]*types.Document, 0, len(payload.Documents))
	for i, docPayload := range payload.Documents {
		uid := docPayload.Uid
		if uid == "" {
			uid = fmt.Sprintf("doc-%04d", i)
		}
		if len(docPayload.Gold) > 0 && len(docPayload.Gold) != len(docPayload.Tokens) {
			return nil, fmt.Errorf(
				"document %q: %d gold tag(s) for %d token(s)",
				uid, len(docPayload.Gold), len(docPayload.Tokens),
			)
		}

		tokens := make([]*types.Token, len(docPayload.Tokens))
		for j, text := range docPayload.Tokens {
			tokens[j] = types.NewToken(int32(j), text)
		}
		doc := types.NewDocument(uid, tokens, alphabet)
		if len(docPayload.Gold) > 0 {
			gold := make([]string, len(docPayload.Gold))
			for j, tag := range docPayload.Gold {
				if !alphabet.Has(tag) {
					tag = types.Abstain
				}
				gold[j] = tag
			}
			doc.Gold = gold
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// MarshalDocuments encodes documents back into the chunk format.
func MarshalDocuments(docs []*types.Document) ([]byte, error) {
	payload := CorpusPayload{Documents: make([]DocumentPayload, len(docs))}
	for i, doc := range docs {
		tokens := make([]string, len(doc.Tokens))
		for j, token := range doc.Tokens {
			tokens[j] = token.Text
		}
		payload.Documents[i] = DocumentPayload{
			Uid:    doc.Uid,
			Tokens: tokens,
			Gold:   doc.Gold,
		}
	}
	return json.Marshal(payload)
}
