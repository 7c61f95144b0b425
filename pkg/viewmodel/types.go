package viewmodel

import internalviewmodel "github.com/goliatone/go-proposal/internal/viewmodel"

type ViewModel = internalviewmodel.ViewModel
type Hero = internalviewmodel.Hero
type Overview = internalviewmodel.Overview
type OverviewItem = internalviewmodel.OverviewItem
type Flights = internalviewmodel.Flights
type FlightLeg = internalviewmodel.FlightLeg
type Lodging = internalviewmodel.Lodging
type Property = internalviewmodel.Property
type Itinerary = internalviewmodel.Itinerary
type Day = internalviewmodel.Day
type Tour = internalviewmodel.Tour
type DiningGroup = internalviewmodel.DiningGroup
type Restaurant = internalviewmodel.Restaurant
type Extras = internalviewmodel.Extras
type HiddenGem = internalviewmodel.HiddenGem
type PhotoOp = internalviewmodel.PhotoOp
type Pricing = internalviewmodel.Pricing
type LineItem = internalviewmodel.LineItem
type PackingGuide = internalviewmodel.PackingGuide
type SiteMarkup = internalviewmodel.SiteMarkup
type Site = internalviewmodel.Site
type EmojiEntry = internalviewmodel.EmojiEntry

// Issue describes an optional section dropped because of its shape.
type Issue = internalviewmodel.Issue

// MissingFieldError reports an absent or empty identity field.
type MissingFieldError = internalviewmodel.MissingFieldError

// ErrMissingMandatoryField matches every MissingFieldError via errors.Is.
var ErrMissingMandatoryField = internalviewmodel.ErrMissingMandatoryField

// DefaultNotIncluded lists the exclusions shown when none are configured.
var DefaultNotIncluded = internalviewmodel.DefaultNotIncluded
