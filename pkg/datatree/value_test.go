package datatree_test

import (
	"math"
	"testing"

	"github.com/goliatone/go-proposal/pkg/datatree"
)

func TestLookup_ResolvesDottedPaths(t *testing.T) {
	root := datatree.NewMap().
		Set("a", true).
		Set("b", datatree.NewMap().Set("c", "hi").Set("n", nil))

	if got := datatree.Lookup(root, "b.c"); !got.Present() || got.String() != "hi" {
		t.Fatalf("expected b.c to resolve to hi, got %#v", got)
	}
	if got := datatree.Lookup(root, "b.n"); !got.Present() || !got.IsNull() {
		t.Fatalf("expected explicit null to be present and null, got %#v", got)
	}
}

func TestLookup_AbsentNeverPanics(t *testing.T) {
	root := datatree.NewMap().
		Set("s", "text").
		Set("list", []any{"x"}).
		Set("m", datatree.NewMap())

	paths := []string{"", ".", "missing", "s.length", "list.0", "m.x.y", "a..b", "m."}
	for _, path := range paths {
		if got := datatree.Lookup(root, path); got.Present() {
			t.Fatalf("path %q: expected absent, got %#v", path, got)
		}
	}

	if got := datatree.Lookup(nil, "anything"); got.Present() {
		t.Fatalf("lookup on nil root should be absent")
	}
}

func TestTruthy(t *testing.T) {
	cases := []struct {
		name  string
		value datatree.Value
		want  bool
	}{
		{"absent", datatree.Absent, false},
		{"null", datatree.Found(nil), false},
		{"false", datatree.Found(false), false},
		{"zero int", datatree.Found(int64(0)), false},
		{"zero float", datatree.Found(0.0), false},
		{"nan", datatree.Found(math.NaN()), false},
		{"empty string", datatree.Found(""), false},
		{"empty list", datatree.Found([]any{}), false},
		{"true", datatree.Found(true), true},
		{"one", datatree.Found(int64(1)), true},
		{"text", datatree.Found("x"), true},
		{"list", datatree.Found([]any{int64(1)}), true},
		{"empty map", datatree.Found(datatree.NewMap()), true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := datatree.Truthy(tc.value); got != tc.want {
				t.Fatalf("Truthy(%v) = %v, want %v", tc.value.Raw(), got, tc.want)
			}
		})
	}
}

func TestStringify(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"plain", "plain"},
		{true, "true"},
		{int64(1500), "1500"},
		{2.5, "2.5"},
		{3.0, "3"},
		{math.Copysign(0, -1), "0"},
		{[]any{"a", int64(2), nil}, "a,2,"},
		{datatree.NewMap().Set("k", "v"), ""},
		{7, "7"},
	}

	for _, tc := range cases {
		if got := datatree.Stringify(tc.in); got != tc.want {
			t.Fatalf("Stringify(%#v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
