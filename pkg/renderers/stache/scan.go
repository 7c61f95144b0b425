package stache

import "strings"

type block struct {
	open  string
	close string
}

var (
	eachBlock   = block{open: "{{#each", close: "{{/each}}"}
	ifBlock     = block{open: "{{#if", close: "{{/if}}"}
	unlessBlock = block{open: "{{#unless", close: "{{/unless}}"}
)

const firstMarker = "@first"

// expandBlocks replaces every well-formed block in s, scanning once from left
// to right. Replacement output is never rescanned by the same call. Openers
// with an invalid argument or without a matching close tag stay literal.
func expandBlocks(s string, b block, argOK func(string) bool, replace func(arg, body string) string) string {
	if !strings.Contains(s, b.open) {
		return s
	}

	var out strings.Builder
	out.Grow(len(s))

	i := 0
	for i < len(s) {
		j := strings.Index(s[i:], b.open)
		if j < 0 {
			break
		}
		start := i + j

		if arg, bodyStart, ok := parseOpener(s, start, b); ok && argOK(arg) {
			if bodyEnd, after, matched := matchBlock(s, bodyStart, b, argOK); matched {
				out.WriteString(s[i:start])
				out.WriteString(replace(arg, s[bodyStart:bodyEnd]))
				i = after
				continue
			}
		}

		next := start + len(b.open)
		out.WriteString(s[i:next])
		i = next
	}
	out.WriteString(s[i:])
	return out.String()
}

// parseOpener reads "{{#kw arg}}" at position at and returns the argument and
// the offset just past the closing braces.
func parseOpener(s string, at int, b block) (string, int, bool) {
	if !isOpenerAt(s, at, b) {
		return "", 0, false
	}
	argStart := at + len(b.open)
	end := strings.Index(s[argStart:], "}}")
	if end < 0 {
		return "", 0, false
	}
	arg, ok := openerArg(s[argStart : argStart+end])
	if !ok {
		return "", 0, false
	}
	return arg, argStart + end + len("}}"), true
}

// openerArg extracts the argument from the text between a block keyword and
// the closing braces: one or more whitespace characters followed by a single
// token with no trailing whitespace.
func openerArg(raw string) (string, bool) {
	arg := strings.TrimLeft(raw, " \t\r\n")
	if arg == "" || len(arg) == len(raw) {
		return "", false
	}
	if strings.ContainsAny(arg, " \t\r\n") {
		return "", false
	}
	return arg, true
}

func isOpenerAt(s string, at int, b block) bool {
	if !strings.HasPrefix(s[at:], b.open) {
		return false
	}
	next := at + len(b.open)
	return next < len(s) && isSpace(s[next])
}

// matchBlock finds the close tag balancing an opener whose body starts at
// from, counting nested well-formed openers of the same kind. Malformed
// openers are literal text and never claim a close tag.
func matchBlock(s string, from int, b block, argOK func(string) bool) (int, int, bool) {
	depth := 1
	i := from
	for i < len(s) {
		j := strings.Index(s[i:], "{{")
		if j < 0 {
			return 0, 0, false
		}
		at := i + j
		switch {
		case strings.HasPrefix(s[at:], b.close):
			depth--
			if depth == 0 {
				return at, at + len(b.close), true
			}
			i = at + len(b.close)
		case isOpenerAt(s, at, b):
			if arg, bodyStart, ok := parseOpener(s, at, b); ok && argOK(arg) {
				depth++
				i = bodyStart
				continue
			}
			i = at + len(b.open)
		default:
			i = at + 2
		}
	}
	return 0, 0, false
}

// validPath reports whether p is a dotted path made of identifier segments.
func validPath(p string) bool {
	if p == "" {
		return false
	}
	segmentLen := 0
	for i := 0; i < len(p); i++ {
		c := p[i]
		if c == '.' {
			if segmentLen == 0 {
				return false
			}
			segmentLen = 0
			continue
		}
		if !isPathChar(c) {
			return false
		}
		segmentLen++
	}
	return segmentLen > 0
}

func isPathChar(c byte) bool {
	return isWordChar(c) || c == '-' || c == '@' || c == '$'
}

func isWordChar(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isFirstMarker(arg string) bool {
	return arg == firstMarker
}
