// Package datatree models the nested, JSON-compatible data a template is
// rendered against. Mappings keep their insertion order so iteration over
// document sections (tours per city, restaurants per city) follows the source
// document. Lookups are total: a dotted path either resolves to a Value or to
// Absent, never to an error.
package datatree
