package viewmodel

import (
	"encoding/json"

	"github.com/goliatone/go-proposal/pkg/datatree"
)

// Context converts the view model into the tree templates are rendered
// against. Absent sections and absent passthrough values are omitted.
func (vm ViewModel) Context() *datatree.Map {
	out := datatree.NewMap()
	setMap(out, "meta", vm.Meta)
	setMap(out, "travelers", vm.Travelers)
	out.Set("hero", datatree.NewMap().
		Set("emoji", vm.Hero.Emoji).
		Set("duration", vm.Hero.Duration).
		Set("tagline", vm.Hero.Tagline))
	out.Set("overview", vm.Overview.context())
	out.Set("generatedDate", vm.GeneratedDate)

	if vm.Flights != nil {
		out.Set("flights", vm.Flights.context())
	}
	if vm.Lodging != nil {
		out.Set("lodging", vm.Lodging.context())
	}
	if vm.Itinerary != nil {
		days := make([]any, 0, len(vm.Itinerary.Days))
		for _, day := range vm.Itinerary.Days {
			days = append(days, day.context())
		}
		out.Set("itinerary", datatree.NewMap().Set("days", days))
	}
	if len(vm.Tours) > 0 {
		tours := make([]any, 0, len(vm.Tours))
		for _, tour := range vm.Tours {
			tours = append(tours, tour.context())
		}
		out.Set("tours", tours)
	}
	setString(out, "toursTotal", vm.ToursTotal)
	if len(vm.Dining) > 0 {
		groups := make([]any, 0, len(vm.Dining))
		var picks []any
		for _, group := range vm.Dining {
			groups = append(groups, group.context())
			for _, r := range group.Restaurants {
				picks = append(picks, r.context().Set("city", group.City))
			}
		}
		out.Set("dining", groups)
		// Flattened so templates without nested loops can list every pick.
		if len(picks) > 0 {
			out.Set("restaurants", picks)
		}
	}
	setValue(out, "kimsGem", vm.KimsGem)
	if vm.Extras != nil {
		out.Set("extras", vm.Extras.context())
	}
	if vm.Pricing != nil {
		out.Set("pricing", vm.Pricing.context())
	}
	notIncluded := make([]any, 0, len(vm.NotIncluded))
	for _, text := range vm.NotIncluded {
		notIncluded = append(notIncluded, datatree.NewMap().Set("text", text))
	}
	out.Set("notIncluded", notIncluded)
	if vm.PackingGuide != nil {
		guide := datatree.NewMap().Set("season", vm.PackingGuide.Season)
		setValue(guide, "weather", vm.PackingGuide.Weather)
		setValue(guide, "essentials", vm.PackingGuide.Essentials)
		setValue(guide, "style", vm.PackingGuide.Style)
		out.Set("packingGuide", guide)
	}
	if vm.Site != nil {
		out.Set("site", datatree.NewMap().
			Set("head", vm.Site.Head).
			Set("body", vm.Site.Body).
			Set("config", vm.Site.Config))
	}
	return out
}

// MarshalJSON encodes the view model in its template-facing shape.
func (vm ViewModel) MarshalJSON() ([]byte, error) {
	return json.Marshal(vm.Context())
}

func (o Overview) context() *datatree.Map {
	items := make([]any, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, datatree.NewMap().Set("label", item.Label).Set("value", item.Value))
	}
	out := datatree.NewMap().
		Set("icon", o.Icon).
		Set("items", items).
		Set("description", o.Description)
	setValue(out, "purpose", o.Purpose)
	return out.Set("purposeIcon", o.PurposeIcon)
}

func (f *Flights) context() *datatree.Map {
	return datatree.NewMap().
		Set("airline", f.Airline).
		Set("route", f.Route).
		Set("outbound", f.Outbound.context()).
		Set("return", f.Return.context()).
		Set("estimatedTotal", f.EstimatedTotal).
		Set("note", f.Note)
}

func (l FlightLeg) context() *datatree.Map {
	return datatree.NewMap().
		Set("date", l.Date).
		Set("route", l.Route).
		Set("notes", l.Notes)
}

func (l *Lodging) context() *datatree.Map {
	properties := make([]any, 0, len(l.Properties))
	for _, p := range l.Properties {
		m := datatree.NewMap()
		setValue(m, "property", p.Property)
		setValue(m, "location", p.Location)
		setValue(m, "nights", p.Nights)
		m.Set("dates", p.Dates)
		setValue(m, "priceRange", p.PriceRange)
		m.Set("description", p.Description)
		setValue(m, "perks", p.Perks)
		setValue(m, "url", p.URL)
		properties = append(properties, m)
	}
	out := datatree.NewMap().Set("properties", properties)
	setString(out, "totalEstimate", l.TotalEstimate)
	return out
}

func (d Day) context() *datatree.Map {
	m := datatree.NewMap()
	setValue(m, "day", d.Day)
	setValue(m, "title", d.Title)
	m.Set("dateFormatted", d.DateFormatted)
	m.Set("content", d.Content)
	setValue(m, "highlight", d.Highlight)
	return m
}

func (t Tour) context() *datatree.Map {
	m := datatree.NewMap()
	setValue(m, "name", t.Name)
	setValue(m, "day", t.Day)
	m.Set("duration", t.Duration)
	m.Set("description", t.Description)
	setValue(m, "price", t.Price)
	setValue(m, "note", t.Note)
	setValue(m, "url", t.URL)
	return m.
		Set("provider", t.Provider).
		Set("bookable", t.Bookable).
		Set("badge", t.Badge).
		Set("badgeClass", t.BadgeClass)
}

func (g DiningGroup) context() *datatree.Map {
	restaurants := make([]any, 0, len(g.Restaurants))
	for _, r := range g.Restaurants {
		restaurants = append(restaurants, r.context())
	}
	return datatree.NewMap().Set("city", g.City).Set("restaurants", restaurants)
}

func (r Restaurant) context() *datatree.Map {
	m := datatree.NewMap()
	setValue(m, "name", r.Name)
	setValue(m, "url", r.URL)
	setValue(m, "type", r.Type)
	setValue(m, "price", r.Price)
	setValue(m, "note", r.Note)
	return m
}

func (e *Extras) context() *datatree.Map {
	out := datatree.NewMap()
	if e.HiddenGems != nil {
		gems := make([]any, 0, len(e.HiddenGems))
		for _, g := range e.HiddenGems {
			m := datatree.NewMap()
			setValue(m, "name", g.Name)
			setValue(m, "location", g.Location)
			setValue(m, "description", g.Description)
			setValue(m, "tip", g.Tip)
			gems = append(gems, m)
		}
		out.Set("hiddenGems", gems)
	}
	if e.PhotoOps != nil {
		ops := make([]any, 0, len(e.PhotoOps))
		for _, p := range e.PhotoOps {
			m := datatree.NewMap()
			setValue(m, "name", p.Name)
			setValue(m, "tip", p.Tip)
			ops = append(ops, m)
		}
		out.Set("photoOps", ops)
	}
	return out
}

func (p *Pricing) context() *datatree.Map {
	items := make([]any, 0, len(p.LineItems))
	for _, item := range p.LineItems {
		items = append(items, datatree.NewMap().Set("label", item.Label).Set("amount", item.Amount))
	}
	out := datatree.NewMap().Set("packageName", p.PackageName)
	setValue(out, "travelers", p.Travelers)
	return out.
		Set("lineItems", items).
		Set("total", p.Total).
		Set("perPerson", p.PerPerson).
		Set("insuranceNote", p.InsuranceNote)
}

func setMap(m *datatree.Map, key string, value *datatree.Map) {
	if value != nil {
		m.Set(key, value)
	}
}

func setString(m *datatree.Map, key, value string) {
	if value != "" {
		m.Set(key, value)
	}
}

func setValue(m *datatree.Map, key string, value datatree.Value) {
	if raw, ok := value.Get(); ok {
		m.Set(key, raw)
	}
}
