package viewmodel

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-proposal/pkg/datatree"
	"github.com/goliatone/go-proposal/pkg/format"
)

var mandatoryFields = []string{"meta.clientName", "meta.destination", "meta.dates"}

// Shaper converts decoded trip documents into view models.
type Shaper struct {
	opts Options
}

// New creates a Shaper with the supplied options.
func New(options Options) *Shaper {
	return &Shaper{opts: mergeOptions(options)}
}

// Shape builds the view model for raw. Only missing identity fields produce
// an error; optional sections with an unexpected shape are dropped and
// reported through Options.OnIssue.
func (s *Shaper) Shape(raw any) (ViewModel, error) {
	root := datatree.Normalize(raw)
	if err := validateIdentity(root); err != nil {
		return ViewModel{}, err
	}

	meta, _ := datatree.Lookup(root, "meta").Map()
	destination := datatree.Lookup(root, "meta.destination").String()

	vm := ViewModel{
		Meta:          meta,
		Travelers:     s.travelers(root),
		Hero:          s.hero(root, destination),
		Overview:      s.overview(root),
		GeneratedDate: format.LongDate(s.opts.Clock()),
		Flights:       s.flights(root, destination),
		Lodging:       s.lodging(root),
		Itinerary:     s.itinerary(root),
		Tours:         s.tours(root),
		ToursTotal:    toursTotal(root),
		Dining:        s.dining(root),
		KimsGem:       datatree.Lookup(root, "extras.kims_gem"),
		Extras:        s.extras(root),
		Pricing:       s.pricing(root),
		NotIncluded:   append([]string(nil), s.opts.NotIncluded...),
		PackingGuide:  s.packingGuide(root),
	}

	if s.opts.Site != nil {
		site, err := siteMarkup(s.opts.Site)
		if err != nil {
			return ViewModel{}, err
		}
		vm.Site = site
	}

	return vm, nil
}

func validateIdentity(root any) error {
	for _, field := range mandatoryFields {
		v := datatree.Lookup(root, field)
		if v.IsNull() || strings.TrimSpace(v.String()) == "" {
			return &MissingFieldError{Field: field}
		}
	}
	return nil
}

func (s *Shaper) report(section, reason string, args ...any) {
	if s.opts.OnIssue == nil {
		return
	}
	s.opts.OnIssue(Issue{Section: section, Reason: fmt.Sprintf(reason, args...)})
}

func (s *Shaper) travelers(root any) *datatree.Map {
	src, ok, malformed := mapping(root, "travelers")
	if malformed {
		s.report("travelers", "expected a mapping")
	}
	if !ok {
		return nil
	}

	out := datatree.NewMap()
	src.Range(func(key string, value any) bool {
		out.Set(key, value)
		return true
	})
	if items, isSeq := datatree.Get(src, "names").Slice(); isSeq {
		out.Set("names", joinValues(items, " & "))
	}
	return out
}

func (s *Shaper) hero(root any, destination string) Hero {
	duration := "?"
	if days, ok := datatree.Lookup(root, "itinerary.days").Slice(); ok && len(days) > 0 {
		duration = fmt.Sprint(len(days))
	}

	tagline := destination
	if locations, ok := datatree.Lookup(root, "locations").Slice(); ok && len(locations) > 0 {
		tagline = strings.Join(names(locations), " • ")
	}

	return Hero{
		Emoji:    destinationEmoji(s.opts.Emoji, destination),
		Duration: "• " + duration + " Days",
		Tagline:  tagline,
	}
}

func (s *Shaper) overview(root any) Overview {
	var items []OverviewItem
	if days, ok := datatree.Lookup(root, "itinerary.days").Slice(); ok {
		items = append(items, OverviewItem{Label: "Duration", Value: fmt.Sprintf("%d Days", len(days))})
	}
	if adults := datatree.Lookup(root, "travelers.adults"); !adults.IsNull() {
		items = append(items, OverviewItem{Label: "Travelers", Value: adults.String() + " Adults"})
	}
	if locations, ok := datatree.Lookup(root, "locations").Slice(); ok && len(locations) > 0 {
		items = append(items, OverviewItem{Label: "Bases", Value: strings.Join(names(locations), " & ")})
	}
	if style := datatree.Lookup(root, "preferences.transportation"); style.Truthy() {
		items = append(items, OverviewItem{Label: "Style", Value: style.String()})
	}

	return Overview{
		Icon:        "✨",
		Items:       items,
		Description: textOr(datatree.Lookup(root, "itinerary.summary"), ""),
		Purpose:     datatree.Lookup(root, "meta.occasion"),
		PurposeIcon: "💡",
	}
}

func siteMarkup(site Site) (*SiteMarkup, error) {
	config, err := site.ConfigJSON()
	if err != nil {
		return nil, fmt.Errorf("viewmodel: site config: %w", err)
	}
	return &SiteMarkup{
		Head:   site.Head(),
		Body:   site.Body(),
		Config: config,
	}, nil
}
