package stache

import (
	"context"

	"github.com/goliatone/go-proposal/pkg/render"
)

// Name identifies the engine in a render.Registry.
const Name = "stache"

// ContentType is the media type of rendered proposals.
const ContentType = "text/html; charset=utf-8"

var extensions = []string{".html", ".htm", ".stache", ".hbs"}

// Option configures an Engine.
type Option func(*Engine)

// WithStrict makes the engine reject templates containing directives the
// renderer would otherwise copy through as literal text.
func WithStrict() Option {
	return func(e *Engine) {
		e.strict = true
	}
}

// Engine adapts Render to the render.Renderer contract. Engines hold no
// mutable state and can be shared between goroutines.
type Engine struct {
	strict bool
}

var (
	_ render.Renderer        = (*Engine)(nil)
	_ render.TemplateMatcher = (*Engine)(nil)
)

// New constructs an Engine.
func New(options ...Option) *Engine {
	engine := &Engine{}
	for _, opt := range options {
		if opt != nil {
			opt(engine)
		}
	}
	return engine
}

// Name implements render.Renderer.
func (e *Engine) Name() string {
	return Name
}

// ContentType implements render.Renderer.
func (e *Engine) ContentType() string {
	return ContentType
}

// Extensions implements render.TemplateMatcher.
func (e *Engine) Extensions() []string {
	return append([]string(nil), extensions...)
}

// Strict reports whether lint failures abort rendering.
func (e *Engine) Strict() bool {
	return e != nil && e.strict
}

// Render substitutes template against data.
func (e *Engine) Render(ctx context.Context, template string, data any) ([]byte, error) {
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
	if e.Strict() {
		if diags := Lint(template); len(diags) > 0 {
			return nil, &DirectiveError{Diagnostics: diags}
		}
	}
	return []byte(Render(template, data)), nil
}
