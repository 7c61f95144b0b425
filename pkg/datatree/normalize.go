package datatree

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
)

// Contexter is implemented by values that expose themselves as a tree, such
// as shaped view models.
type Contexter interface {
	Context() *Map
}

// Normalize converts arbitrary Go values into tree values. Plain Go maps are
// ordered by sorted key; structs go through their JSON encoding so field order
// and json tags are honoured.
func Normalize(value any) any {
	switch v := value.(type) {
	case nil:
		return nil
	case *Map:
		return v
	case Contexter:
		return v.Context()
	case string, bool, int64, float64:
		return v
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case uint:
		return int64(v)
	case float32:
		return float64(v)
	case json.Number:
		return numberValue(v)
	case Value:
		return Normalize(v.raw)
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = Normalize(item)
		}
		return out
	case []string:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = item
		}
		return out
	case map[string]any:
		return normalizeStringMap(v)
	}

	return normalizeReflect(reflect.ValueOf(value))
}

func normalizeStringMap(in map[string]any) *Map {
	keys := make([]string, 0, len(in))
	for key := range in {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	m := NewMap()
	for _, key := range keys {
		m.Set(key, Normalize(in[key]))
	}
	return m
}

func normalizeReflect(rv reflect.Value) any {
	switch rv.Kind() {
	case reflect.Invalid:
		return nil
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		if rv.Kind() == reflect.Pointer && rv.Elem().Kind() != reflect.Struct {
			return Normalize(rv.Elem().Interface())
		}
	case reflect.Bool:
		return rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	case reflect.String:
		return rv.String()
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return nil
		}
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = Normalize(rv.Index(i).Interface())
		}
		return out
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			plain := make(map[string]any, rv.Len())
			iter := rv.MapRange()
			for iter.Next() {
				plain[iter.Key().String()] = iter.Value().Interface()
			}
			return normalizeStringMap(plain)
		}
	}

	encoded, err := json.Marshal(rv.Interface())
	if err != nil {
		return fmt.Sprint(rv.Interface())
	}
	decoded, err := DecodeJSON(encoded)
	if err != nil {
		return fmt.Sprint(rv.Interface())
	}
	return decoded
}
