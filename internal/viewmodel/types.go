package viewmodel

import "github.com/goliatone/go-proposal/pkg/datatree"

// ViewModel is the renderer-ready record for one trip document. Pointer and
// slice sections are nil when the matching input section is absent or
// malformed; Context omits them so conditional blocks can test for them.
// Fields typed as datatree.Value pass source values through unchanged and
// are omitted when absent.
type ViewModel struct {
	Meta          *datatree.Map
	Travelers     *datatree.Map
	Hero          Hero
	Overview      Overview
	GeneratedDate string
	Flights       *Flights
	Lodging       *Lodging
	Itinerary     *Itinerary
	Tours         []Tour
	ToursTotal    string
	Dining        []DiningGroup
	KimsGem       datatree.Value
	Extras        *Extras
	Pricing       *Pricing
	NotIncluded   []string
	PackingGuide  *PackingGuide
	Site          *SiteMarkup
}

// Hero is the banner at the top of a proposal.
type Hero struct {
	Emoji    string
	Duration string
	Tagline  string
}

// Overview summarises the trip.
type Overview struct {
	Icon        string
	Items       []OverviewItem
	Description string
	Purpose     datatree.Value
	PurposeIcon string
}

// OverviewItem is one label/value row of the overview.
type OverviewItem struct {
	Label string
	Value string
}

// Flights describes the air travel section.
type Flights struct {
	Airline        string
	Route          string
	Outbound       FlightLeg
	Return         FlightLeg
	EstimatedTotal string
	Note           string
}

// FlightLeg is one direction of travel.
type FlightLeg struct {
	Date  string
	Route string
	Notes string
}

// Lodging lists the booked or proposed properties.
type Lodging struct {
	Properties    []Property
	TotalEstimate string
}

// Property is one lodging entry.
type Property struct {
	Property    datatree.Value
	Location    datatree.Value
	Nights      datatree.Value
	Dates       string
	PriceRange  datatree.Value
	Description string
	Perks       datatree.Value
	URL         datatree.Value
}

// Itinerary holds the day-by-day plan.
type Itinerary struct {
	Days []Day
}

// Day is one itinerary day. Content is pre-formatted, sanitized markup.
type Day struct {
	Day           datatree.Value
	Title         datatree.Value
	DateFormatted string
	Content       string
	Highlight     datatree.Value
}

// Tour is one entry of the flattened tour list.
type Tour struct {
	Name        datatree.Value
	Day         datatree.Value
	Duration    string
	Description string
	Price       datatree.Value
	Note        datatree.Value
	URL         datatree.Value
	Provider    string
	Bookable    bool
	Badge       string
	BadgeClass  string
}

// DiningGroup lists restaurants for one city.
type DiningGroup struct {
	City        string
	Restaurants []Restaurant
}

// Restaurant is one dining recommendation.
type Restaurant struct {
	Name  datatree.Value
	URL   datatree.Value
	Type  datatree.Value
	Price datatree.Value
	Note  datatree.Value
}

// Extras holds the optional hidden gems and photo opportunities.
type Extras struct {
	HiddenGems []HiddenGem
	PhotoOps   []PhotoOp
}

// HiddenGem is a lesser-known recommendation.
type HiddenGem struct {
	Name        datatree.Value
	Location    datatree.Value
	Description datatree.Value
	Tip         datatree.Value
}

// PhotoOp is a photography spot.
type PhotoOp struct {
	Name datatree.Value
	Tip  datatree.Value
}

// Pricing summarises the package cost.
type Pricing struct {
	PackageName   string
	Travelers     datatree.Value
	LineItems     []LineItem
	Total         string
	PerPerson     string
	InsuranceNote string
}

// LineItem is one priced row of the package.
type LineItem struct {
	Label  string
	Amount string
}

// PackingGuide carries packing advice for the travel season.
type PackingGuide struct {
	Season     string
	Weather    datatree.Value
	Essentials datatree.Value
	Style      datatree.Value
}

// SiteMarkup is the presentation layer output embedded in the page. Head and
// Body are pre-formatted markup.
type SiteMarkup struct {
	Head   string
	Body   string
	Config string
}

// Site is implemented by presentation layers that inject markup into the
// rendered proposal.
type Site interface {
	Head() string
	Body() string
	ConfigJSON() (string, error)
}
