// Package format holds the display helpers shared by the view-model shaper
// and the template filters: money amounts and calendar dates.
package format

import (
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ZeroMoney is the display form of a missing or zero amount.
const ZeroMoney = "$0"

var printer = message.NewPrinter(language.English)

// Group renders n with thousands separators ("12,400").
func Group(n int64) string {
	return printer.Sprintf("%d", n)
}

// Money renders an amount as "~$" plus the thousands-grouped integer, or
// ZeroMoney for nil, zero, NaN and empty values. Numeric strings are parsed;
// other strings are shown verbatim after the prefix.
func Money(value any) string {
	amount, ok := Amount(value)
	if ok {
		if amount == 0 {
			return ZeroMoney
		}
		return "~$" + Group(int64(math.Round(amount)))
	}
	if s, isString := value.(string); isString && strings.TrimSpace(s) != "" {
		return "~$" + strings.TrimSpace(s)
	}
	return ZeroMoney
}

// Amount extracts a finite numeric value from number-like inputs.
func Amount(value any) (float64, bool) {
	var f float64
	switch v := value.(type) {
	case int64:
		f = float64(v)
	case int:
		f = float64(v)
	case float64:
		f = v
	case string:
		parsed, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(v), ",", ""), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"January 2, 2006",
	"Jan 2, 2006",
	"2006/01/02",
}

// ParseDate parses s with the calendar layouts trip documents use. Times keep
// the wall clock of the source so day names never shift across time zones.
func ParseDate(s string) (time.Time, bool) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// MonthDay formats s as "March 15". Unparseable input is returned unchanged.
func MonthDay(s string) string {
	return reformat(s, "January 2")
}

// WeekdayMonthDay formats s as "Sunday, March 15". Unparseable input is
// returned unchanged.
func WeekdayMonthDay(s string) string {
	return reformat(s, "Monday, January 2")
}

// LongDate formats t as "March 15, 2026".
func LongDate(t time.Time) string {
	return t.Format("January 2, 2006")
}

func reformat(s, layout string) string {
	t, ok := ParseDate(s)
	if !ok {
		return s
	}
	return t.Format(layout)
}

var months = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// Season returns the first full month name contained in s, or "".
func Season(s string) string {
	for _, month := range months {
		if strings.Contains(s, month) {
			return month
		}
	}
	return ""
}
