// Package output renders the analysis result into deterministic artifacts:
// documentation pages, a drift report, a machine-readable JSON serialization
// and an optional SCIP index. Unchanged input yields byte-identical output.
package output

import (
	"bytes"
	"encoding/json"
	"math"
	"reflect"
	"sort"
)

// DeterministicEncode produces byte-identical indented JSON:
// stable key ordering, floats rounded to 6 decimal places, nil pointers
// encoded as null.
func DeterministicEncode(v interface{}) ([]byte, error) {
	normalized := normalizeValue(reflect.ValueOf(v))

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(normalized); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RoundFloat rounds to 6 decimal places so float noise never changes output.
func RoundFloat(f float64) float64 {
	multiplier := math.Pow(10, 6)
	return math.Round(f*multiplier) / multiplier
}

func normalizeValue(val reflect.Value) interface{} {
	if !val.IsValid() {
		return nil
	}
	for val.Kind() == reflect.Ptr || val.Kind() == reflect.Interface {
		if val.IsNil() {
			return nil
		}
		val = val.Elem()
	}

	switch val.Kind() {
	case reflect.Map:
		return normalizeMap(val)
	case reflect.Slice, reflect.Array:
		return normalizeSlice(val)
	case reflect.Struct:
		return normalizeStruct(val)
	case reflect.Float32, reflect.Float64:
		return RoundFloat(val.Float())
	default:
		return val.Interface()
	}
}

// normalizeMap converts a string-keyed map into an ordered key/value view so
// the encoder emits keys in sorted order regardless of map iteration.
func normalizeMap(val reflect.Value) interface{} {
	keys := make([]string, 0, val.Len())
	byKey := make(map[string]reflect.Value, val.Len())
	for _, k := range val.MapKeys() {
		ks := k.String()
		keys = append(keys, ks)
		byKey[ks] = val.MapIndex(k)
	}
	sort.Strings(keys)

	out := orderedMap{keys: keys, values: make(map[string]interface{}, len(keys))}
	for _, k := range keys {
		out.values[k] = normalizeValue(byKey[k])
	}
	return out
}

func normalizeSlice(val reflect.Value) interface{} {
	if val.Kind() == reflect.Slice && val.IsNil() {
		return []interface{}{}
	}
	out := make([]interface{}, val.Len())
	for i := 0; i < val.Len(); i++ {
		out[i] = normalizeValue(val.Index(i))
	}
	return out
}

func normalizeStruct(val reflect.Value) interface{} {
	t := val.Type()
	if t.String() == "time.Time" {
		// Times marshal themselves; RFC 3339 is already stable.
		return val.Interface()
	}
	keys := make([]string, 0, t.NumField())
	values := make(map[string]interface{}, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.PkgPath != "" {
			continue
		}
		name, omitEmpty := jsonName(field)
		if name == "-" {
			continue
		}
		fv := val.Field(i)
		if omitEmpty && fv.IsZero() {
			continue
		}
		keys = append(keys, name)
		values[name] = normalizeValue(fv)
	}
	sort.Strings(keys)
	return orderedMap{keys: keys, values: values}
}

func jsonName(field reflect.StructField) (name string, omitEmpty bool) {
	name = field.Name
	tag, ok := field.Tag.Lookup("json")
	if !ok {
		return name, false
	}
	parts := bytes.Split([]byte(tag), []byte(","))
	if len(parts[0]) > 0 {
		name = string(parts[0])
	}
	for _, p := range parts[1:] {
		if string(p) == "omitempty" {
			omitEmpty = true
		}
	}
	return name, omitEmpty
}

// orderedMap emits its entries in key order.
type orderedMap struct {
	keys   []string
	values map[string]interface{}
}

func (m orderedMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(m.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
