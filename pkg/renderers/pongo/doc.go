// Package pongo registers a pongo2 (Django syntax) engine as an alternative
// proposal renderer. It consumes the same view model as the stache engine, so
// templates can use {% for day in itinerary.days %} and the pongo2 filter
// library instead of the handlebars-like dialect.
package pongo
