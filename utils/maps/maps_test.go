package maps

import (
	"encoding/json"
	"fmt"
	"reflect"
	"testing"
)

type testStatusInner struct {
	State    string `json:"state"`
	Attempts int    `json:"attempts"`
}

type testTaskView struct {
	DocumentID string                     `json:"document_id"`
	Statuses   map[string]testStatusInner `json:"task_statuses"`
	Operations []string                   `json:"operations"`
	Results    *testStatusInner           `json:"results"`
}

type testPrimitivesStruct struct {
	StrField   string  `json:"str_field"`
	IntField   int     `json:"int_field"`
	FloatField float64 `json:"float_field"`
	BoolField  bool    `json:"bool_field"`
}

type testCorruptedPrimitiveStruct struct {
	StrField   int     `json:"str_field"`
	IntField   int     `json:"int_field"`
	FloatField float64 `json:"float_field"`
	BoolField  bool    `json:"bool_field"`
}

type testSlicesStruct struct {
	StrSliceField     []string           `json:"str_slice"`
	StructSliceField  []testStatusInner  `json:"structs_slice"`
	PointerSliceField []*testStatusInner `json:"pointers_slice"`
	StrPointerSlice   []*string          `json:"string_pointers_slice"`
}

type testMapsStruct struct {
	StrMapField     map[string]string           `json:"str_map"`
	StructMapField  map[string]testStatusInner  `json:"structs_map"`
	PointerMapField map[string]*testStatusInner `json:"pointers_map"`
	StrPointerMap   map[string]*string          `json:"string_pointers_map"`
}

type testNestedStruct struct {
	Inner testTaskView `json:"inner"`
}

type testNestedPtrStruct struct {
	Inner *testTaskView `json:"inner"`
}

func preparePrimitives() *testPrimitivesStruct {
	return &testPrimitivesStruct{
		StrField:   "str value",
		IntField:   1243,
		FloatField: 434,
		BoolField:  false,
	}
}

func prepareTaskView() *testTaskView {
	return &testTaskView{
		DocumentID: "doc-0001",
		Statuses: map[string]testStatusInner{
			"wsl": {State: "processing", Attempts: 2},
		},
		Operations: []string{"annotate", "aggregate"},
		Results:    &testStatusInner{State: "completed", Attempts: 1},
	}
}

func prepareSlices() *testSlicesStruct {
	var s1, s2, s3 = "hi", "there", "world"
	return &testSlicesStruct{
		StrSliceField: []string{"Hello", "world"},
		StructSliceField: []testStatusInner{
			{State: "submitted"},
		},
		PointerSliceField: []*testStatusInner{
			{State: "completed", Attempts: 1},
			{State: "failed", Attempts: 3},
			nil,
		},
		StrPointerSlice: []*string{
			&s1, nil, &s2, &s3,
		},
	}
}

func prepareMaps() *testMapsStruct {
	var s1, s2, s3 = "hi", "there", "world"
	return &testMapsStruct{
		StrMapField: map[string]string{"1": "Hello", "2": "world"},
		StructMapField: map[string]testStatusInner{
			"1": {State: "submitted"},
		},
		PointerMapField: map[string]*testStatusInner{
			"1": {State: "completed", Attempts: 1},
			"2": {State: "failed"},
			"3": nil,
		},
		StrPointerMap: map[string]*string{
			"1": &s1, "2": nil, "3": &s2, "4": &s3,
		},
	}
}

var preparedStructs = map[string]interface{}{
	"primitives":  preparePrimitives(),
	"task view":   prepareTaskView(),
	"slices":      prepareSlices(),
	"maps":        prepareMaps(),
	"nested":      &testNestedStruct{Inner: *prepareTaskView()},
	"nil pointer": &testNestedPtrStruct{},
	"pointer":     &testNestedPtrStruct{Inner: prepareTaskView()},
}

func TestDecodeStruct(t *testing.T) {
	for name, prepared := range preparedStructs {
		t.Run(fmt.Sprintf("Correct %s", name), testDecodeRoundTrip(prepared))
	}
	t.Run("Corrupted primitive", testCorruptedPrimitives)
	t.Run("Struct into pointer field", testStructToPointer)
}

func TestEncodeStruct(t *testing.T) {
	for name, prepared := range preparedStructs {
		t.Run(fmt.Sprintf("Correct %s", name), testEncodeMatchesJSON(prepared))
	}
}

func testDecodeRoundTrip(prepared interface{}) func(t *testing.T) {
	return func(t *testing.T) {
		b, err := json.Marshal(prepared)
		if err != nil {
			t.Error("Failed to marshal prepared struct", prepared, err)
			return
		}
		structType := reflect.ValueOf(prepared).Elem().Type()
		newPtr := reflect.New(structType).Interface()

		var raw map[string]interface{}
		err = json.Unmarshal(b, &raw)
		if err != nil {
			t.Error("Failed to unmarshal prepared struct", prepared, err)
			return
		}
		err = decodeStruct(&raw, newPtr)
		if err != nil {
			t.Error("Failed to fill from map", prepared, err)
			return
		}
		if !reflect.DeepEqual(prepared, newPtr) {
			t.Error("Got unequal structs after parsing", prepared, newPtr)
		}
	}
}

func testCorruptedPrimitives(t *testing.T) {
	correct := preparePrimitives()
	var corrupt testCorruptedPrimitiveStruct

	b, err := json.Marshal(correct)
	if err != nil {
		t.Error("Failed to marshal correct struct", correct, err)
		return
	}
	var raw map[string]interface{}
	err = json.Unmarshal(b, &raw)
	if err != nil {
		t.Error("Failed to unmarshal correct struct", correct, err)
		return
	}
	err = decodeStruct(&raw, &corrupt)
	if err == nil {
		t.Error("decodeStruct should return error when types could not be converted")
	}
}

func testEncodeMatchesJSON(prepared interface{}) func(t *testing.T) {
	return func(t *testing.T) {
		encodedMap := make(map[string]interface{})
		err := encodeStruct(&encodedMap, prepared)
		if err != nil {
			t.Error("Failed to encode struct", prepared, err)
		}
		preparedBytes, err := json.Marshal(prepared)
		if err != nil {
			t.Error("Failed to marshal prepared struct", prepared, err)
		}
		var preparedMap map[string]interface{}
		err = json.Unmarshal(preparedBytes, &preparedMap)
		if err != nil {
			t.Error("Failed to unmarshal prepared bytes", prepared, err)
		}
		preparedMapBytes, err := json.Marshal(preparedMap)
		if err != nil {
			t.Error("Failed to marshal prepared map", prepared, err)
		}
		encodedMapBytes, err := json.Marshal(encodedMap)
		if err != nil {
			t.Error("Failed to marshal encoded map", encodedMap, err)
		}
		if string(preparedMapBytes) != string(encodedMapBytes) {
			t.Error(
				"encodeStruct should create correct copy of object",
				string(preparedMapBytes),
				string(encodedMapBytes),
			)
		}
	}
}

func testStructToPointer(t *testing.T) {
	plain := &testNestedStruct{Inner: *prepareTaskView()}
	var ptrStruct testNestedPtrStruct

	b, err := json.Marshal(plain)
	if err != nil {
		t.Error("Failed to marshal primary struct", plain, err)
		return
	}
	var raw map[string]interface{}
	err = json.Unmarshal(b, &raw)
	if err != nil {
		t.Error("Failed to unmarshal primary struct", plain, err)
		return
	}
	err = decodeStruct(&raw, &ptrStruct)
	if err != nil {
		t.Error("Failed to fill from map", err)
	}
	if ptrStruct.Inner == nil {
		t.Fatal("Expected pointer field to be allocated")
	}
	if !reflect.DeepEqual(plain.Inner, *ptrStruct.Inner) {
		t.Error("Got unequal structs after parsing", plain, ptrStruct)
	}
}

func TestPartialDocumentKeepsUnknownKeys(t *testing.T) {
	type statusView struct {
		BaseDocument
		Statuses map[string]testStatusInner `json:"task_statuses"`
	}

	raw := map[string]interface{}{
		"document_id": "doc-0002",
		"task_statuses": map[string]interface{}{
			"wsl": map[string]interface{}{"state": "submitted", "attempts": float64(0)},
		},
		"owned_elsewhere": []interface{}{"keep", "me"},
	}

	var view statusView
	if err := FillFromMap(&view, &raw); err != nil {
		t.Fatal("Failed to fill view", err)
	}
	if view.Statuses["wsl"].State != "submitted" {
		t.Error("Expected typed field to be populated, got", view.Statuses)
	}

	err := ApplyUpdates(&view, func(doc *statusView) {
		status := doc.Statuses["wsl"]
		status.State = "processing"
		status.Attempts++
		doc.Statuses["wsl"] = status
	})
	if err != nil {
		t.Fatal("Failed to apply updates", err)
	}

	b, err := json.Marshal(&view)
	if err != nil {
		t.Fatal("Failed to marshal view", err)
	}
	var result map[string]interface{}
	if err := json.Unmarshal(b, &result); err != nil {
		t.Fatal("Failed to unmarshal result", err)
	}
	if _, ok := result["owned_elsewhere"]; !ok {
		t.Error("Expected unowned key to survive the round trip", result)
	}
	statuses, ok := result["task_statuses"].(map[string]interface{})
	if !ok {
		t.Fatal("Expected task_statuses map, got", result["task_statuses"])
	}
	inner, ok := statuses["wsl"].(map[string]interface{})
	if !ok {
		t.Fatal("Expected wsl status map, got", statuses["wsl"])
	}
	if inner["state"] != "processing" {
		t.Error("Expected updated state, got", inner)
	}
}
