package viewmodel

import (
	"strings"

	"github.com/goliatone/go-proposal/pkg/datatree"
	"github.com/goliatone/go-proposal/pkg/format"
)

const maxRestaurantsPerCity = 4

func (s *Shaper) tours(root any) []Tour {
	cities, ok, malformed := mapping(root, "tours")
	if malformed {
		s.report("tours", "expected a mapping of city to tours")
	}
	if !ok {
		return nil
	}

	var out []Tour
	cities.Range(func(city string, value any) bool {
		list, isSeq := value.([]any)
		if !isSeq {
			s.report("tours", "tours for %q must be a sequence", city)
			return true
		}
		for _, item := range list {
			if _, isMap := item.(*datatree.Map); !isMap {
				s.report("tours", "tour in %q is not a mapping", city)
				continue
			}
			out = append(out, buildTour(item))
		}
		return true
	})
	if len(out) == 0 {
		return nil
	}
	return out
}

func buildTour(item any) Tour {
	url := datatree.Get(item, "url")
	bookable := url.Truthy()

	description := textOr(datatree.Get(item, "description"), "")
	if description == "" {
		if includes, ok := datatree.Get(item, "includes").Slice(); ok {
			description = joinValues(includes, ", ")
		}
	}

	tour := Tour{
		Name:        datatree.Get(item, "name"),
		Day:         datatree.Get(item, "day"),
		Duration:    textOr(datatree.Get(item, "duration"), ""),
		Description: description,
		Price:       or(datatree.Get(item, "totalFor2"), datatree.Get(item, "price")),
		Note:        or(datatree.Get(item, "note"), datatree.Get(item, "alcoholNote")),
		URL:         url,
		Provider:    tourProvider(url),
		Bookable:    bookable,
		Badge:       "DIY",
		BadgeClass:  "free",
	}
	if bookable {
		tour.Badge = "Viator"
		tour.BadgeClass = "tour"
	}
	return tour
}

func tourProvider(url datatree.Value) string {
	link, _ := url.Text()
	switch {
	case strings.Contains(link, "viator"):
		return "Viator"
	case strings.Contains(link, "cp.pt"):
		return "CP"
	default:
		return "provider"
	}
}

func toursTotal(root any) string {
	v := datatree.Lookup(root, "pricing.premium.tours")
	if !v.Truthy() {
		return ""
	}
	return format.Money(v.Raw()) + " for both travelers"
}

func (s *Shaper) dining(root any) []DiningGroup {
	cities, ok, malformed := mapping(root, "extras.dining")
	if malformed {
		s.report("dining", "expected a mapping of city to restaurants")
	}
	if !ok {
		return nil
	}

	var out []DiningGroup
	cities.Range(func(city string, value any) bool {
		list, isSeq := value.([]any)
		if !isSeq {
			s.report("dining", "restaurants for %q must be a sequence", city)
			return true
		}
		if len(list) > maxRestaurantsPerCity {
			list = list[:maxRestaurantsPerCity]
		}
		group := DiningGroup{City: capitalizeFirst(city), Restaurants: make([]Restaurant, 0, len(list))}
		for _, item := range list {
			group.Restaurants = append(group.Restaurants, Restaurant{
				Name:  datatree.Get(item, "name"),
				URL:   datatree.Get(item, "url"),
				Type:  datatree.Get(item, "type"),
				Price: datatree.Get(item, "price"),
				Note:  or(datatree.Get(item, "note"), datatree.Get(item, "mustTry")),
			})
		}
		out = append(out, group)
		return true
	})
	if len(out) == 0 {
		return nil
	}
	return out
}

func (s *Shaper) extras(root any) *Extras {
	src, ok, malformed := mapping(root, "extras")
	if malformed {
		s.report("extras", "expected a mapping")
	}
	if !ok {
		return nil
	}

	out := &Extras{}
	if gems, isSeq := s.sequence(src, "hiddenGems", "extras"); isSeq {
		out.HiddenGems = make([]HiddenGem, 0, len(gems))
		for _, item := range gems {
			out.HiddenGems = append(out.HiddenGems, HiddenGem{
				Name:        datatree.Get(item, "name"),
				Location:    datatree.Get(item, "location"),
				Description: datatree.Get(item, "description"),
				Tip:         or(datatree.Get(item, "tip"), datatree.Get(item, "whyGem")),
			})
		}
	}
	if ops, isSeq := s.sequence(src, "photoOps", "extras"); isSeq {
		out.PhotoOps = make([]PhotoOp, 0, len(ops))
		for _, item := range ops {
			out.PhotoOps = append(out.PhotoOps, PhotoOp{
				Name: datatree.Get(item, "name"),
				Tip:  or(datatree.Get(item, "tip"), datatree.Get(item, "description")),
			})
		}
	}
	return out
}

// sequence reads key from src as a sequence, reporting other present shapes.
func (s *Shaper) sequence(src *datatree.Map, key, section string) ([]any, bool) {
	v := datatree.Get(src, key)
	if v.IsNull() {
		return nil, false
	}
	items, ok := v.Slice()
	if !ok {
		s.report(section, "%s must be a sequence", key)
	}
	return items, ok
}
