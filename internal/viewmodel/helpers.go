package viewmodel

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/goliatone/go-proposal/pkg/datatree"
)

// or returns the first truthy value, or the last candidate when none is.
func or(values ...datatree.Value) datatree.Value {
	for _, v := range values {
		if v.Truthy() {
			return v
		}
	}
	if len(values) == 0 {
		return datatree.Absent
	}
	return values[len(values)-1]
}

// textOr stringifies v when it is truthy and returns fallback otherwise.
func textOr(v datatree.Value, fallback string) string {
	if v.Truthy() {
		return v.String()
	}
	return fallback
}

// joinOr joins sequences with sep and passes other values through.
func joinOr(v datatree.Value, sep string) datatree.Value {
	items, ok := v.Slice()
	if !ok {
		return v
	}
	return datatree.Found(joinValues(items, sep))
}

func joinValues(items []any, sep string) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = datatree.Stringify(item)
	}
	return strings.Join(parts, sep)
}

func names(items []any) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, datatree.Get(item, "name").String())
	}
	return out
}

func capitalizeFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// mapping resolves path to a mapping. ok is false when the value is absent
// or null; malformed is true when it is present with another shape.
func mapping(root any, path string) (m *datatree.Map, ok bool, malformed bool) {
	v := datatree.Lookup(root, path)
	if v.IsNull() {
		return nil, false, false
	}
	m, ok = v.Map()
	return m, ok, !ok
}
