package viewmodel

import (
	"fmt"
	"math"
	"strings"

	"github.com/goliatone/go-proposal/pkg/datatree"
	"github.com/goliatone/go-proposal/pkg/format"
)

const tbd = "TBD"

func (s *Shaper) flights(root any, destination string) *Flights {
	src, ok, malformed := mapping(root, "flights")
	if malformed {
		s.report("flights", "expected a mapping")
	}
	if !ok {
		return nil
	}

	origin := tbd
	if recommended, isText := datatree.Lookup(src, "routing.recommended").Text(); isText {
		if first := strings.Split(recommended, " → ")[0]; first != "" {
			origin = first
		}
	}

	return &Flights{
		Airline: textOr(datatree.Lookup(src, "outbound.airline"), tbd),
		Route:   origin + " to " + destination,
		Outbound: FlightLeg{
			Date:  flightDate(datatree.Lookup(src, "outbound.date")),
			Route: textOr(datatree.Lookup(src, "outbound.route"), tbd),
			Notes: textOr(datatree.Lookup(src, "outbound.notes"), ""),
		},
		Return: FlightLeg{
			Date:  flightDate(datatree.Lookup(src, "return.date")),
			Route: textOr(datatree.Lookup(src, "return.route"), tbd),
			Notes: textOr(datatree.Lookup(src, "return.departure"), ""),
		},
		EstimatedTotal: textOr(datatree.Lookup(src, "estimatedTotal.range"), tbd),
		Note:           textOr(datatree.Get(src, "source"), ""),
	}
}

func flightDate(v datatree.Value) string {
	if !v.Truthy() {
		return tbd
	}
	return format.MonthDay(v.String())
}

func (s *Shaper) lodging(root any) *Lodging {
	src, ok, malformed := mapping(root, "lodging")
	if malformed {
		s.report("lodging", "expected a mapping")
	}
	if !ok {
		return nil
	}

	list := or(datatree.Get(src, "premium"), datatree.Get(src, "properties"))
	var items []any
	if list.Truthy() {
		seq, isSeq := list.Slice()
		if !isSeq {
			s.report("lodging", "properties must be a sequence")
			return nil
		}
		items = seq
	}

	out := &Lodging{Properties: []Property{}}
	var total, nights float64
	for i, item := range items {
		if _, isMap := item.(*datatree.Map); !isMap {
			s.report("lodging", "property %d is not a mapping", i)
			continue
		}
		out.Properties = append(out.Properties, Property{
			Property:    datatree.Get(item, "property"),
			Location:    datatree.Get(item, "location"),
			Nights:      datatree.Get(item, "nights"),
			Dates:       textOr(datatree.Get(item, "dates"), ""),
			PriceRange:  datatree.Get(item, "priceRange"),
			Description: textOr(datatree.Get(item, "description"), ""),
			Perks:       joinOr(datatree.Get(item, "perks"), ", "),
			URL:         datatree.Get(item, "url"),
		})
		if amount, isNum := format.Amount(datatree.Get(item, "total").Raw()); isNum {
			total += amount
		}
		if n, isNum := format.Amount(datatree.Get(item, "nights").Raw()); isNum {
			nights += n
		}
	}

	if total > 0 {
		out.TotalEstimate = fmt.Sprintf("~$%s for %s nights", format.Group(int64(math.Round(total))), datatree.Stringify(nights))
	}
	return out
}

func (s *Shaper) itinerary(root any) *Itinerary {
	v := datatree.Lookup(root, "itinerary.days")
	if v.IsNull() {
		return nil
	}
	days, ok := v.Slice()
	if !ok {
		s.report("itinerary", "days must be a sequence")
		return nil
	}

	out := &Itinerary{Days: []Day{}}
	for i, item := range days {
		if _, isMap := item.(*datatree.Map); !isMap {
			s.report("itinerary", "day %d is not a mapping", i)
			continue
		}
		dateFormatted := ""
		if date := datatree.Get(item, "date"); date.Truthy() {
			dateFormatted = format.WeekdayMonthDay(date.String())
		}
		highlight := datatree.Get(item, "highlight")
		if !highlight.Truthy() {
			highlight = datatree.Absent
		}
		out.Days = append(out.Days, Day{
			Day:           datatree.Get(item, "day"),
			Title:         datatree.Get(item, "title"),
			DateFormatted: dateFormatted,
			Content:       dayContent(item),
			Highlight:     highlight,
		})
	}
	return out
}

func dayContent(day any) string {
	var b strings.Builder
	if activities, ok := datatree.Get(day, "activities").Slice(); ok {
		for _, activity := range activities {
			b.WriteString("<p>")
			b.WriteString(datatree.Stringify(activity))
			b.WriteString("</p>")
		}
	}
	if dining := datatree.Get(day, "dining"); dining.Truthy() {
		b.WriteString("<p><strong>Dining:</strong> ")
		b.WriteString(dining.String())
		b.WriteString("</p>")
	}
	return sanitizeContent(b.String())
}
