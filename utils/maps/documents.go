package maps

import (
	"encoding/json"
	"reflect"

	"labelforge.com/wsl/utils"
)

// PartialDocument is a typed view over a shared JSON document. Implementations
// embed BaseDocument and declare only the fields they own.
type PartialDocument interface {
	getRaw() *map[string]interface{}
	setRaw(*map[string]interface{})
	MarshalJSON() ([]byte, error)
}

type BaseDocument struct {
	rawMap *map[string]interface{}
}

func (doc *BaseDocument) getRaw() *map[string]interface{} {
	return doc.rawMap
}

func (doc *BaseDocument) setRaw(raw *map[string]interface{}) {
	doc.rawMap = raw
}

func (doc *BaseDocument) MarshalJSON() ([]byte, error) {
	return json.Marshal(doc.getRaw())
}

// FillFromMap populates the typed fields of doc from the raw map and keeps
// the map attached so unknown keys survive the next marshal.
func FillFromMap(doc PartialDocument, from *map[string]interface{}) error {
	err := decodeStruct(from, doc)
	if err != nil {
		return err
	}
	doc.setRaw(from)
	return nil
}

// CopyValues transfers the typed fields of one document view into another,
// giving the target its own raw map.
func CopyValues(from PartialDocument, to PartialDocument) error {
	raw := from.getRaw()
	err := decodeStruct(raw, to)
	if err != nil {
		return err
	}
	cachedMap := map[string]interface{}{}
	err = encodeStruct(&cachedMap, to)
	if err != nil {
		return err
	}
	to.setRaw(&cachedMap)
	return nil
}

// ApplyUpdates calls updateFunc with the document and folds the modified
// typed fields back into the raw map. updateFunc must be a func taking the
// concrete document pointer.
func ApplyUpdates(doc PartialDocument, updateFunc interface{}) (err error) {
	if updateFunc == nil {
		return nil
	}
	defer utils.RecoverWithError(&err)
	funcValue := reflect.ValueOf(updateFunc)
	docValue := reflect.ValueOf(doc)
	funcValue.Call([]reflect.Value{docValue})
	err = encodeStruct(doc.getRaw(), doc)
	return
}
