package datatree

import (
	"math"
	"strconv"
	"strings"
)

// Value is the outcome of a path lookup: either a found value (which may be
// nil when the document holds an explicit null) or Absent.
type Value struct {
	raw   any
	found bool
}

// Absent is the lookup result for paths that do not resolve.
var Absent = Value{}

// Found wraps a resolved value.
func Found(v any) Value {
	return Value{raw: v, found: true}
}

// Present reports whether the lookup resolved.
func (v Value) Present() bool {
	return v.found
}

// Get returns the raw value and whether it was found.
func (v Value) Get() (any, bool) {
	return v.raw, v.found
}

// Raw returns the resolved value, or nil when absent.
func (v Value) Raw() any {
	return v.raw
}

// IsNull reports whether the value is absent or an explicit null.
func (v Value) IsNull() bool {
	return !v.found || v.raw == nil
}

// Map returns the value as an ordered mapping.
func (v Value) Map() (*Map, bool) {
	m, ok := v.raw.(*Map)
	return m, ok && m != nil
}

// Slice returns the value as a sequence.
func (v Value) Slice() ([]any, bool) {
	s, ok := v.raw.([]any)
	return s, ok
}

// Text returns the value when it is a string.
func (v Value) Text() (string, bool) {
	s, ok := v.raw.(string)
	return s, ok
}

// Number returns the value as a float64 when it is numeric.
func (v Value) Number() (float64, bool) {
	switch n := v.raw.(type) {
	case int64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

// String stringifies the value; absent and null values become "".
func (v Value) String() string {
	if !v.found {
		return ""
	}
	return Stringify(v.raw)
}

// Truthy reports whether the value counts as set for conditional blocks.
func (v Value) Truthy() bool {
	return Truthy(v)
}

// Lookup resolves a dotted path against root. Resolution stops with Absent at
// the first missing key or non-mapping intermediate value.
func Lookup(root any, path string) Value {
	if path == "" {
		return Absent
	}
	current := root
	for _, key := range strings.Split(path, ".") {
		if key == "" {
			return Absent
		}
		next, ok := child(current, key)
		if !ok {
			return Absent
		}
		current = next
	}
	return Found(current)
}

// Get resolves a single key on a mapping value.
func Get(node any, key string) Value {
	value, ok := child(node, key)
	if !ok {
		return Absent
	}
	return Found(value)
}

func child(node any, key string) (any, bool) {
	switch m := node.(type) {
	case *Map:
		return m.Get(key)
	case map[string]any:
		value, ok := m[key]
		return value, ok
	default:
		return nil, false
	}
}

// Truthy applies the conditional-block rules: absent, null, false, numeric
// zero, NaN, the empty string and empty sequences are falsy; everything else,
// including empty mappings, is truthy.
func Truthy(v Value) bool {
	if !v.found {
		return false
	}
	switch t := v.raw.(type) {
	case nil:
		return false
	case bool:
		return t
	case int64:
		return t != 0
	case int:
		return t != 0
	case float64:
		return t != 0 && !math.IsNaN(t)
	case string:
		return t != ""
	case []any:
		return len(t) > 0
	case *Map:
		return t != nil
	default:
		return true
	}
}

// Stringify converts a tree value into its display form. Mappings have no
// display form and render as "".
func Stringify(value any) string {
	switch t := value.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		if t {
			return "true"
		}
		return "false"
	case int64:
		return strconv.FormatInt(t, 10)
	case int:
		return strconv.Itoa(t)
	case float64:
		return formatFloat(t)
	case []any:
		parts := make([]string, len(t))
		for i, item := range t {
			parts[i] = Stringify(item)
		}
		return strings.Join(parts, ",")
	case *Map:
		return ""
	default:
		return Stringify(Normalize(t))
	}
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	case math.Abs(f) >= 1e21:
		return strconv.FormatFloat(f, 'g', -1, 64)
	default:
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
}
