package viewmodel

import (
	"github.com/goliatone/go-proposal/pkg/datatree"
	"github.com/goliatone/go-proposal/pkg/format"
)

var lineItemSources = []struct {
	label string
	key   string
}{
	{label: "Flights", key: "flights"},
	{label: "Accommodations", key: "lodging"},
	{label: "Tours & Activities", key: "tours"},
	{label: "Transportation", key: "transport"},
	{label: "Meals (estimate)", key: "meals"},
}

func (s *Shaper) pricing(root any) *Pricing {
	src, ok, malformed := mapping(root, "pricing")
	if malformed {
		s.report("pricing", "expected a mapping")
	}
	if !ok {
		return nil
	}

	pkg := datatree.Get(src, "premium")
	if !pkg.Truthy() {
		pkg = datatree.Absent
		if keys := src.Keys(); len(keys) > 0 {
			pkg = datatree.Get(src, keys[0])
		}
	}
	pkgMap, isMap := pkg.Map()
	if !isMap {
		if pkg.Present() {
			s.report("pricing", "package must be a mapping")
		}
		return nil
	}

	items := make([]LineItem, 0, len(lineItemSources))
	for _, source := range lineItemSources {
		amount := format.Money(datatree.Get(pkgMap, source.key).Raw())
		if amount == format.ZeroMoney {
			continue
		}
		items = append(items, LineItem{Label: source.label, Amount: amount})
	}

	return &Pricing{
		PackageName:   s.opts.PackageName,
		Travelers:     datatree.Lookup(root, "travelers.count"),
		LineItems:     items,
		Total:         format.Money(datatree.Get(pkgMap, "total").Raw()),
		PerPerson:     format.Money(datatree.Get(pkgMap, "perPerson").Raw()),
		InsuranceNote: s.opts.InsuranceNote,
	}
}

func (s *Shaper) packingGuide(root any) *PackingGuide {
	src, ok, malformed := mapping(root, "packingGuide")
	if malformed {
		s.report("packingGuide", "expected a mapping")
	}
	if !ok {
		return nil
	}

	return &PackingGuide{
		Season:     format.Season(datatree.Lookup(root, "meta.dates").String()),
		Weather:    datatree.Get(src, "weather"),
		Essentials: datatree.Get(src, "essentials"),
		Style:      datatree.Get(src, "style"),
	}
}
