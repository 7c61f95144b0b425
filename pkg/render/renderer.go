package render

import (
	"context"
)

// Renderer turns a template and a view-model context into bytes (HTML for the
// proposal engines).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, template string, data any) ([]byte, error)
}

// TemplateMatcher is implemented by renderers that recognise their template
// files by name suffix, for example ".pongo.html".
type TemplateMatcher interface {
	Extensions() []string
}
