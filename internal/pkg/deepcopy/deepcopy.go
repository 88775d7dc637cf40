// Package deepcopy copies decoded JSON-like values so that nested maps and
// slices are never shared between the original and the copy.
package deepcopy

import (
	"reflect"
)

// Map returns a deep copy of m. A nil map yields an empty, non-nil map.
func Map(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for key, value := range m {
		out[key] = Value(value)
	}
	return out
}

// Value returns a deep copy of v. Maps and slices of any element type are
// copied recursively, everything else (including pointers and structs) is
// copied by value.
func Value(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case map[string]any:
		return Map(t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = Value(item)
		}
		return out
	case string, bool, float64, int, int64:
		return v
	}

	return copyValue(reflect.ValueOf(v)).Interface()
}

func copyValue(v reflect.Value) reflect.Value {
	switch v.Kind() {
	case reflect.Interface:
		if v.IsNil() {
			return v
		}
		out := reflect.New(v.Type()).Elem()
		out.Set(copyValue(v.Elem()))
		return out
	case reflect.Map:
		if v.IsNil() {
			return v
		}
		out := reflect.MakeMapWithSize(v.Type(), v.Len())
		iter := v.MapRange()
		for iter.Next() {
			out.SetMapIndex(iter.Key(), copyValue(iter.Value()))
		}
		return out
	case reflect.Slice:
		if v.IsNil() {
			return v
		}
		out := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			out.Index(i).Set(copyValue(v.Index(i)))
		}
		return out
	default:
		return v
	}
}
