// Package templates embeds the built-in proposal pages, one per renderer.
package templates

import (
	"embed"
	"fmt"
	"io/fs"
)

//go:embed templates/*.html
var embeddedTemplates embed.FS

// Template file names inside FS.
const (
	StacheTemplate = "proposal.html"
	PongoTemplate  = "proposal.pongo.html"
)

var byRenderer = map[string]string{
	"stache": StacheTemplate,
	"pongo":  PongoTemplate,
}

// FS exposes the embedded templates.
func FS() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return embeddedTemplates
	}
	return sub
}

// Default returns the built-in page for the stache renderer.
func Default() string {
	tpl, _ := For("stache")
	return tpl
}

// For returns the built-in page for renderer.
func For(renderer string) (string, error) {
	name, ok := byRenderer[renderer]
	if !ok {
		return "", fmt.Errorf("templates: no built-in template for renderer %q", renderer)
	}
	data, err := fs.ReadFile(FS(), name)
	if err != nil {
		return "", fmt.Errorf("templates: read %s: %w", name, err)
	}
	return string(data), nil
}
