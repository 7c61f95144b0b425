package stache

import "strings"

// The replacer substitutes in a single pass, which yields the same output as
// applying & < > " ' in that order: inserted entities are never re-escaped.
var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// EscapeHTML applies the five entity substitutions used by escaped
// interpolation.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}
