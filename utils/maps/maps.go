// Package maps converts between map[string]interface{} payloads and typed
// structs without discarding unknown keys. Task documents in Redis are
// written by several services, each owning a subset of fields, so a reader
// must round-trip keys it does not model.
package maps

import (
	"fmt"
	"reflect"

	"labelforge.com/wsl/utils"
)

func decodeStruct(from *map[string]interface{}, toPtr interface{}) error {
	value := reflect.ValueOf(toPtr)
	if value.Kind() != reflect.Ptr {
		return fmt.Errorf("%v is not a pointer", toPtr)
	}
	value = value.Elem()
	if value.Kind() != reflect.Struct {
		return fmt.Errorf("%v is not a struct pointer", toPtr)
	}
	valueType := value.Type()
	for i := 0; i < value.NumField(); i++ {
		field := value.Field(i)
		info := valueType.Field(i)
		key, ok := info.Tag.Lookup("json")
		if !ok {
			continue
		}
		raw, ok := (*from)[key]
		if !ok {
			continue
		}
		if err := decodeValue(&raw, field); err != nil {
			return fmt.Errorf("got error at field %s: %w", info.Name, err)
		}
	}
	return nil
}

func decodeValue(raw *interface{}, field reflect.Value) error {
	switch field.Kind() {
	case reflect.Struct:
		innerMap, ok := (*raw).(map[string]interface{})
		if !ok {
			return nil
		}
		return decodeStruct(&innerMap, structPointer(field))
	case reflect.Slice:
		return decodeSlice(raw, field)
	case reflect.Map:
		return decodeMap(raw, field)
	case reflect.Ptr:
		if *raw == nil {
			return nil
		}
		field.Set(reflect.New(field.Type().Elem()))
		return decodeValue(raw, field.Elem())
	default:
		return decodePrimitive(raw, field)
	}
}

func decodePrimitive(raw *interface{}, field reflect.Value) (err error) {
	defer utils.RecoverWithError(&err)
	if raw == nil || *raw == nil {
		return nil
	}
	field.Set(reflect.ValueOf(*raw).Convert(field.Type()))
	return nil
}

func decodeSlice(raw *interface{}, field reflect.Value) error {
	items, ok := (*raw).([]interface{})
	if !ok {
		return fmt.Errorf("expected slice, got %v type", reflect.TypeOf(*raw))
	}
	elemType := field.Type().Elem()
	values := make([]reflect.Value, len(items))
	for index, item := range items {
		item := item
		elem := reflect.New(elemType).Elem()
		if err := decodeValue(&item, elem); err != nil {
			return err
		}
		values[index] = elem
	}
	field.Set(reflect.Append(field, values...))
	return nil
}

func decodeMap(raw *interface{}, field reflect.Value) error {
	items, ok := (*raw).(map[string]interface{})
	if !ok {
		return fmt.Errorf("expected map, got %v type", reflect.TypeOf(*raw))
	}
	// field is a nil map at this point
	mv := reflect.MakeMap(field.Type())
	elemType := field.Type().Elem()
	for key, item := range items {
		item := item
		elem := reflect.New(elemType).Elem()
		if err := decodeValue(&item, elem); err != nil {
			return err
		}
		mv.SetMapIndex(reflect.ValueOf(key), elem)
	}
	field.Set(mv)
	return nil
}

// encodeStruct merges the tagged fields of a struct into an existing map,
// overwriting only the keys the struct declares.
func encodeStruct(mapToUpdate *map[string]interface{}, v interface{}) error {
	value := reflect.ValueOf(v)
	if value.Kind() != reflect.Ptr {
		return fmt.Errorf("%v is not a pointer", v)
	}
	value = value.Elem()
	if value.Kind() != reflect.Struct {
		return fmt.Errorf("%v is not a struct pointer", v)
	}
	valueType := value.Type()
	for i := 0; i < value.NumField(); i++ {
		field := value.Field(i)
		info := valueType.Field(i)
		key, ok := info.Tag.Lookup("json")
		if !ok {
			continue
		}
		current := (*mapToUpdate)[key]
		encoded, err := encodeValue(&current, field)
		if err != nil {
			return fmt.Errorf("got error at field %s: %w", info.Name, err)
		}
		if encoded != nil {
			(*mapToUpdate)[key] = *encoded
		} else {
			(*mapToUpdate)[key] = nil
		}
	}
	return nil
}

func encodeValue(current *interface{}, v reflect.Value) (*interface{}, error) {
	switch v.Kind() {
	case reflect.Struct:
		return encodeInnerStruct(current, v)
	case reflect.Ptr:
		if v.IsNil() {
			return nil, nil
		}
		return encodeValue(current, v.Elem())
	case reflect.Slice:
		slice, err := encodeSlice(v)
		if err != nil {
			return nil, err
		}
		r := interface{}(slice)
		return &r, nil
	case reflect.Map:
		m, err := encodeMap(v)
		if err != nil {
			return nil, err
		}
		r := interface{}(m)
		return &r, nil
	default:
		r := v.Interface()
		return &r, nil
	}
}

func encodeInnerStruct(current *interface{}, v reflect.Value) (*interface{}, error) {
	var innerMap map[string]interface{}
	if current == nil || *current == nil {
		innerMap = map[string]interface{}{}
	} else if m, ok := (*current).(map[string]interface{}); ok {
		innerMap = m
	} else {
		return nil, fmt.Errorf(
			"expected inner structure to be map, got %v",
			reflect.TypeOf(*current),
		)
	}
	if err := encodeStruct(&innerMap, structPointer(v)); err != nil {
		return nil, err
	}
	r := interface{}(innerMap)
	return &r, nil
}

func encodeSlice(sliceField reflect.Value) ([]interface{}, error) {
	slice := make([]interface{}, sliceField.Len())
	for index := 0; index < sliceField.Len(); index++ {
		encoded, err := encodeValue(nil, sliceField.Index(index))
		if err != nil {
			return nil, err
		}
		if encoded == nil {
			slice[index] = nil
			continue
		}
		slice[index] = *encoded
	}
	return slice, nil
}

func encodeMap(mapField reflect.Value) (map[string]interface{}, error) {
	m := map[string]interface{}{}
	iter := mapField.MapRange()
	for iter.Next() {
		key, elem := iter.Key(), iter.Value()
		// values returned by MapRange are not addressable, so struct
		// elements need a copy before encodeValue can take a pointer
		copied := reflect.New(elem.Type()).Elem()
		copied.Set(elem)
		encoded, err := encodeValue(nil, copied)
		if err != nil {
			return nil, err
		}
		if encoded == nil {
			m[key.String()] = nil
			continue
		}
		m[key.String()] = *encoded
	}
	return m, nil
}

func structPointer(v reflect.Value) interface{} {
	if v.CanAddr() {
		return v.Addr().Interface()
	}
	copied := reflect.New(v.Type())
	copied.Elem().Set(v)
	return copied.Interface()
}
