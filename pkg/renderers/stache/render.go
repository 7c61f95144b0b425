package stache

import (
	"strings"

	"github.com/goliatone/go-proposal/pkg/datatree"
)

// Render substitutes every directive in template using data as the outer
// context. data may be a *datatree.Map, a value implementing
// datatree.Contexter, or any Go value datatree.Normalize understands. Render
// never fails; missing paths render as "".
func Render(template string, data any) string {
	return renderTemplate(template, datatree.Normalize(data))
}

func renderTemplate(tpl string, root any) string {
	if !strings.Contains(tpl, "{{") {
		return tpl
	}
	out := expandEach(tpl, root)
	out = expandIf(out, root)
	out = interpolate(out, "{{{", "}}}", root, false)
	return interpolate(out, "{{", "}}", root, true)
}

func expandEach(s string, root any) string {
	return expandBlocks(s, eachBlock, validPath, func(path, body string) string {
		items, ok := datatree.Lookup(root, path).Slice()
		if !ok {
			return ""
		}
		var out strings.Builder
		for index, item := range items {
			out.WriteString(instantiate(body, item, index))
		}
		return out.String()
	})
}

// instantiate expands one iteration body for item. Only item field tokens and
// @first guards are evaluated here.
func instantiate(body string, item any, index int) string {
	return expandUnlessFirst(substituteItemFields(body, item), index)
}

func expandUnlessFirst(s string, index int) string {
	return expandBlocks(s, unlessBlock, isFirstMarker, func(_ string, inner string) string {
		if index == 0 {
			return ""
		}
		return expandUnlessFirst(inner, index)
	})
}

func substituteItemFields(s string, item any) string {
	if !strings.Contains(s, "{{this.") {
		return s
	}

	var out strings.Builder
	out.Grow(len(s))

	i := 0
	for {
		j := strings.Index(s[i:], "{{")
		if j < 0 {
			break
		}
		start := i + j

		if field, end, ok := parseItemField(s, start, "{{{this.", "}}}"); ok {
			out.WriteString(s[i:start])
			out.WriteString(datatree.Get(item, field).String())
			i = end
			continue
		}
		if field, end, ok := parseItemField(s, start, "{{this.", "}}"); ok {
			out.WriteString(s[i:start])
			out.WriteString(EscapeHTML(datatree.Get(item, field).String()))
			i = end
			continue
		}

		out.WriteString(s[i : start+1])
		i = start + 1
	}
	out.WriteString(s[i:])
	return out.String()
}

// parseItemField matches prefix, a run of word characters and suffix at
// position at.
func parseItemField(s string, at int, prefix, suffix string) (string, int, bool) {
	if !strings.HasPrefix(s[at:], prefix) {
		return "", 0, false
	}
	fieldStart := at + len(prefix)
	fieldEnd := fieldStart
	for fieldEnd < len(s) && isWordChar(s[fieldEnd]) {
		fieldEnd++
	}
	if fieldEnd == fieldStart || !strings.HasPrefix(s[fieldEnd:], suffix) {
		return "", 0, false
	}
	return s[fieldStart:fieldEnd], fieldEnd + len(suffix), true
}

func expandIf(s string, root any) string {
	return expandBlocks(s, ifBlock, validPath, func(path, body string) string {
		if !datatree.Lookup(root, path).Truthy() {
			return ""
		}
		return renderTemplate(body, root)
	})
}

// interpolate replaces open+path+close tokens with the stringified value of
// path. Tokens whose content is not a valid path are left untouched.
func interpolate(s, open, close string, root any, escape bool) string {
	if !strings.Contains(s, open) {
		return s
	}

	var out strings.Builder
	out.Grow(len(s))

	i := 0
	for {
		j := strings.Index(s[i:], open)
		if j < 0 {
			break
		}
		start := i + j
		pathStart := start + len(open)

		if k := strings.Index(s[pathStart:], close); k >= 0 {
			if path := s[pathStart : pathStart+k]; validPath(path) {
				value := datatree.Lookup(root, path).String()
				if escape {
					value = EscapeHTML(value)
				}
				out.WriteString(s[i:start])
				out.WriteString(value)
				i = pathStart + k + len(close)
				continue
			}
		}

		out.WriteString(s[i : start+1])
		i = start + 1
	}
	out.WriteString(s[i:])
	return out.String()
}
