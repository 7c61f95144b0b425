package viewmodel

import (
	"testing"

	"github.com/goliatone/go-proposal/pkg/datatree"
)

func TestDestinationEmoji(t *testing.T) {
	cases := map[string]string{
		"Portugal":               "🇵🇹",
		"the greek islands":      "🇬🇷",
		"Mexico City and Oaxaca": "🇲🇽",
		"Maui, HAWAII":           "🌺",
		"Patagonia":              defaultEmoji,
		"":                       defaultEmoji,
	}
	for destination, want := range cases {
		if got := destinationEmoji(DefaultEmoji, destination); got != want {
			t.Errorf("%q: want %q got %q", destination, want, got)
		}
	}
}

func TestCapitalizeFirst(t *testing.T) {
	cases := map[string]string{
		"lisbon": "Lisbon",
		"évora":  "Évora",
		"":       "",
		"Porto":  "Porto",
	}
	for in, want := range cases {
		if got := capitalizeFirst(in); got != want {
			t.Errorf("%q: want %q got %q", in, want, got)
		}
	}
}

func TestOrFallsThroughFalsyValues(t *testing.T) {
	got := or(datatree.Found(""), datatree.Absent, datatree.Found("tip"))
	if got.String() != "tip" {
		t.Fatalf("expected first truthy value, got %q", got.String())
	}
	last := or(datatree.Found("x"), datatree.Found(int64(0)))
	if last.String() != "x" {
		t.Fatalf("expected x, got %q", last.String())
	}
	zero := or(datatree.Absent, datatree.Found(int64(0)))
	if raw, ok := zero.Get(); !ok || raw != int64(0) {
		t.Fatalf("expected the last candidate when none is truthy, got %#v", raw)
	}
}
