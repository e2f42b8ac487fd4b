// Package corpus loads tokenized documents into the store: CoNLL-U splits
// from disk and the JSON chunk format used on the wire. Canonical
// tokenization happens upstream; the loaders only reconcile gold tags with
// the configured alphabet.
package corpus

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"labelforge.com/wsl/types"
)

const conlluColumns = 10

// LoadSplit reads <split>.conllu from dirPath, one document per sentence.
// Gold tags outside the alphabet are recorded as the abstention symbol. A
// limit above zero caps the number of documents.
func LoadSplit(dirPath string, split string, alphabet *types.Alphabet, limit int) ([]*types.Document, error) {
	f, err := os.Open(path.Join(dirPath, split+".conllu"))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readSplit(f, split, alphabet, limit)
}

func readSplit(r io.Reader, split string, alphabet *types.Alphabet, limit int) ([]*types.Document, error) {
	var docs []*types.Document
	var tokens []*types.Token
	var gold []string

	flush := func() {
		if len(tokens) == 0 {
			return
		}
		doc := types.NewDocument(fmt.Sprintf("%s-%04d", split, len(docs)), tokens, alphabet)
		doc.Gold = gold
		docs = append(docs, doc)
		tokens, gold = nil, nil
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if len(line) == 0 {
			flush()
			if limit > 0 && len(docs) >= limit {
				return docs, nil
			}
			continue
		}
		if strings.HasPrefix(line, "#") {
			continue
		}
		columns := strings.Split(line, "\t")
		if len(columns) < conlluColumns {
			return nil, fmt.Errorf("%s.conllu line %d: %d column(s)", split, lineNo, len(columns))
		}
		// multiword ranges ("1-2") and empty nodes ("1.1") carry no tag
		if strings.ContainsAny(columns[0], "-.") {
			continue
		}
		// forms keep their original case, shapes depend on it
		form := columns[1]
		tag := columns[3]
		if !alphabet.Has(tag) {
			tag = types.Abstain
		}
		tokens = append(tokens, types.NewToken(int32(len(tokens)), form))
		gold = append(gold, tag)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	flush()
	return docs, nil
}
