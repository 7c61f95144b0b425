package stache

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnsupportedDirective marks brace tokens outside the four directive
	// forms, such as partials or helper calls.
	ErrUnsupportedDirective = errors.New("stache: unsupported directive")
	// ErrMalformedDirective marks block and brace structure that cannot be
	// matched, such as unterminated blocks or stray close tags.
	ErrMalformedDirective   = errors.New("stache: malformed directive")
)

// DiagnosticKind classifies a lint finding.
type DiagnosticKind string

const (
	KindUnsupportedDirective DiagnosticKind = "unsupported_directive"
	KindUnterminatedBlock    DiagnosticKind = "unterminated_block"
	KindUnmatchedClose       DiagnosticKind = "unmatched_close"
	KindUnclosedBraces       DiagnosticKind = "unclosed_braces"
)

// Diagnostic describes a directive the renderer would leave as literal text.
type Diagnostic struct {
	Kind      DiagnosticKind
	Directive string
	Offset    int
	Line      int
	Column    int
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s %q at line %d, column %d", strings.ReplaceAll(string(d.Kind), "_", " "), d.Directive, d.Line, d.Column)
}

// Sentinel returns the error class the diagnostic belongs to.
func (d Diagnostic) Sentinel() error {
	if d.Kind == KindUnsupportedDirective {
		return ErrUnsupportedDirective
	}
	return ErrMalformedDirective
}

// DirectiveError is returned by strict engines when a template contains
// directives that would otherwise render literally.
type DirectiveError struct {
	Diagnostics []Diagnostic
}

func (e *DirectiveError) Error() string {
	if e == nil || len(e.Diagnostics) == 0 {
		return "stache: invalid template"
	}
	msg := "stache: " + e.Diagnostics[0].String()
	if extra := len(e.Diagnostics) - 1; extra > 0 {
		msg += fmt.Sprintf(" (and %d more)", extra)
	}
	return msg
}

// Is matches ErrUnsupportedDirective and ErrMalformedDirective when any
// diagnostic belongs to that class.
func (e *DirectiveError) Is(target error) bool {
	if e == nil {
		return false
	}
	for _, diag := range e.Diagnostics {
		if diag.Sentinel() == target {
			return true
		}
	}
	return false
}

type openBlock struct {
	kind  string
	token string
	at    int
}

// Lint reports every directive in template that the renderer does not
// recognise, in source order. A nil result means every brace token is part of
// a well-formed directive.
func Lint(template string) []Diagnostic {
	var (
		diags []Diagnostic
		stack []openBlock
	)

	report := func(kind DiagnosticKind, token string, at int) {
		line, column := position(template, at)
		diags = append(diags, Diagnostic{
			Kind:      kind,
			Directive: token,
			Offset:    at,
			Line:      line,
			Column:    column,
		})
	}

	i := 0
	for {
		j := strings.Index(template[i:], "{{")
		if j < 0 {
			break
		}
		at := i + j

		token, ok := readToken(template, at)
		if !ok {
			report(KindUnclosedBraces, firstLine(template[at:]), at)
			break
		}
		i = at + len(token)

		if strings.HasPrefix(token, "{{{") {
			if !validPath(token[3 : len(token)-3]) {
				report(KindUnsupportedDirective, token, at)
			}
			continue
		}

		inner := token[2 : len(token)-2]
		switch {
		case validPath(inner):
		case strings.HasPrefix(inner, "#"):
			kind, ok := blockOpener(token)
			if !ok {
				report(KindUnsupportedDirective, token, at)
				continue
			}
			stack = append(stack, openBlock{kind: kind, token: token, at: at})
		case strings.HasPrefix(inner, "/"):
			kind := inner[1:]
			if kind != "each" && kind != "if" && kind != "unless" {
				report(KindUnsupportedDirective, token, at)
				continue
			}
			if len(stack) == 0 || stack[len(stack)-1].kind != kind {
				report(KindUnmatchedClose, token, at)
				continue
			}
			stack = stack[:len(stack)-1]
		default:
			report(KindUnsupportedDirective, token, at)
		}
	}

	for _, open := range stack {
		report(KindUnterminatedBlock, open.token, open.at)
	}
	sortDiagnostics(diags)
	return diags
}

// readToken returns the brace token starting at at, including delimiters.
func readToken(s string, at int) (string, bool) {
	if strings.HasPrefix(s[at:], "{{{") {
		if end := strings.Index(s[at+3:], "}}}"); end >= 0 {
			return s[at : at+3+end+3], true
		}
	}
	end := strings.Index(s[at+2:], "}}")
	if end < 0 {
		return "", false
	}
	return s[at : at+2+end+2], true
}

func blockOpener(token string) (string, bool) {
	for _, b := range []struct {
		kind  string
		block block
		argOK func(string) bool
	}{
		{kind: "each", block: eachBlock, argOK: validPath},
		{kind: "if", block: ifBlock, argOK: validPath},
		{kind: "unless", block: unlessBlock, argOK: isFirstMarker},
	} {
		if arg, end, ok := parseOpener(token, 0, b.block); ok && end == len(token) && b.argOK(arg) {
			return b.kind, true
		}
	}
	return "", false
}

func position(s string, offset int) (int, int) {
	line := 1 + strings.Count(s[:offset], "\n")
	column := offset + 1
	if nl := strings.LastIndexByte(s[:offset], '\n'); nl >= 0 {
		column = offset - nl
	}
	return line, column
}

func firstLine(s string) string {
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		return s[:nl]
	}
	return s
}

func sortDiagnostics(diags []Diagnostic) {
	for i := 1; i < len(diags); i++ {
		for j := i; j > 0 && diags[j].Offset < diags[j-1].Offset; j-- {
			diags[j], diags[j-1] = diags[j-1], diags[j]
		}
	}
}
