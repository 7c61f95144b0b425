package format_test

import (
	"math"
	"testing"
	"time"

	"github.com/goliatone/go-proposal/pkg/format"
)

func TestMoney(t *testing.T) {
	cases := []struct {
		name  string
		value any
		want  string
	}{
		{name: "nil", value: nil, want: "$0"},
		{name: "zero", value: int64(0), want: "$0"},
		{name: "zero float", value: 0.0, want: "$0"},
		{name: "nan", value: math.NaN(), want: "$0"},
		{name: "empty string", value: "", want: "$0"},
		{name: "small", value: int64(500), want: "~$500"},
		{name: "grouped", value: int64(12400), want: "~$12,400"},
		{name: "millions", value: int64(1250000), want: "~$1,250,000"},
		{name: "rounded float", value: 1999.6, want: "~$2,000"},
		{name: "numeric string", value: "3200", want: "~$3,200"},
		{name: "free text", value: "varies", want: "~$varies"},
		{name: "boolean", value: true, want: "$0"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := format.Money(tc.value); got != tc.want {
				t.Fatalf("money(%v): want %q got %q", tc.value, tc.want, got)
			}
		})
	}
}

func TestDates(t *testing.T) {
	if got := format.MonthDay("2026-03-15"); got != "March 15" {
		t.Fatalf("month day: got %q", got)
	}
	if got := format.WeekdayMonthDay("2026-03-15"); got != "Sunday, March 15" {
		t.Fatalf("weekday: got %q", got)
	}
	if got := format.WeekdayMonthDay("2026-03-15T23:30:00-08:00"); got != "Sunday, March 15" {
		t.Fatalf("expected wall clock date to be kept, got %q", got)
	}
	if got := format.MonthDay("sometime in spring"); got != "sometime in spring" {
		t.Fatalf("expected passthrough, got %q", got)
	}
	if got := format.LongDate(time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC)); got != "January 5, 2026" {
		t.Fatalf("long date: got %q", got)
	}
}

func TestSeason(t *testing.T) {
	if got := format.Season("March 14-24, 2026"); got != "March" {
		t.Fatalf("season: got %q", got)
	}
	if got := format.Season("2026-03-14"); got != "" {
		t.Fatalf("expected empty season, got %q", got)
	}
}
