package pongo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-proposal/pkg/datatree"
	"github.com/goliatone/go-proposal/pkg/format"
	"github.com/goliatone/go-proposal/pkg/render"
	"github.com/goliatone/go-proposal/pkg/templates"
)

// Name identifies the engine in a render.Registry.
const Name = "pongo"

const contentType = "text/html; charset=utf-8"

var extensions = []string{".pongo.html", ".pongo", ".django"}

// Option configures the engine before construction.
type Option func(*config)

type config struct {
	baseDir    string
	templates  fs.FS
	globalData map[string]any
}

// WithBaseDir lets {% include %} and RenderTemplate resolve files from dir.
func WithBaseDir(dir string) Option {
	return func(cfg *config) {
		cfg.baseDir = strings.TrimSpace(dir)
	}
}

// WithFS lets {% include %} and RenderTemplate resolve files from files.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templates = files
	}
}

// WithGlobalData seeds values available to every template.
func WithGlobalData(data map[string]any) Option {
	return func(cfg *config) {
		if len(data) == 0 {
			return
		}
		if cfg.globalData == nil {
			cfg.globalData = make(map[string]any, len(data))
		}
		for key, value := range data {
			cfg.globalData[strings.TrimSpace(key)] = value
		}
	}
}

// Engine renders templates with a pongo2 template set.
type Engine struct {
	mu sync.RWMutex

	templateSet *pongo2.TemplateSet
	templates   map[string]*pongo2.Template
}

var (
	_ render.Renderer        = (*Engine)(nil)
	_ render.TemplateMatcher = (*Engine)(nil)
)

// New constructs an Engine. Without a base dir or fs.FS, named templates
// resolve against the built-in proposal pages.
func New(options ...Option) (*Engine, error) {
	cfg := &config{}
	for _, opt := range options {
		if opt != nil {
			opt(cfg)
		}
	}

	var loaders []pongo2.TemplateLoader
	if cfg.baseDir != "" {
		loader, err := pongo2.NewLocalFileSystemLoader(cfg.baseDir)
		if err != nil {
			return nil, fmt.Errorf("pongo: create local loader: %w", err)
		}
		loaders = append(loaders, loader)
	}
	if cfg.templates != nil {
		loaders = append(loaders, pongo2.NewFSLoader(cfg.templates))
	}
	if len(loaders) == 0 {
		loaders = append(loaders, pongo2.NewFSLoader(templates.FS()))
	}

	engine := &Engine{
		templateSet: pongo2.NewSet("proposal", loaders...),
		templates:   make(map[string]*pongo2.Template),
	}
	registerDefaultFilters()

	if len(cfg.globalData) > 0 {
		if engine.templateSet.Globals == nil {
			engine.templateSet.Globals = make(pongo2.Context)
		}
		engine.templateSet.Globals.Update(convertToContext(cfg.globalData))
	}
	return engine, nil
}

// Name implements render.Renderer.
func (e *Engine) Name() string {
	return Name
}

// ContentType implements render.Renderer.
func (e *Engine) ContentType() string {
	return contentType
}

// Extensions implements render.TemplateMatcher.
func (e *Engine) Extensions() []string {
	return append([]string(nil), extensions...)
}

// Render parses template as pongo2 source and executes it against data.
func (e *Engine) Render(ctx context.Context, template string, data any) ([]byte, error) {
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
	if e == nil || e.templateSet == nil {
		return nil, errors.New("pongo: engine is nil")
	}

	tmpl, err := e.templateSet.FromString(template)
	if err != nil {
		return nil, fmt.Errorf("pongo: parse template string: %w", err)
	}
	return e.execute(tmpl, data, "template string")
}

// RenderTemplate executes a named template resolved through the configured
// loaders. Parsed templates are cached per name.
func (e *Engine) RenderTemplate(ctx context.Context, name string, data any) ([]byte, error) {
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
	if e == nil || e.templateSet == nil {
		return nil, errors.New("pongo: engine is nil")
	}

	tmpl, err := e.getTemplate(name)
	if err != nil {
		return nil, err
	}
	return e.execute(tmpl, data, fmt.Sprintf("template %q", name))
}

func (e *Engine) execute(tmpl *pongo2.Template, data any, label string) ([]byte, error) {
	var buf bytes.Buffer

	e.mu.RLock()
	err := tmpl.ExecuteWriter(convertToContext(data), &buf)
	e.mu.RUnlock()

	if err != nil {
		return nil, fmt.Errorf("pongo: execute %s: %w", label, err)
	}
	return buf.Bytes(), nil
}

func (e *Engine) getTemplate(name string) (*pongo2.Template, error) {
	e.mu.RLock()
	if tmpl, ok := e.templates[name]; ok {
		e.mu.RUnlock()
		return tmpl, nil
	}
	e.mu.RUnlock()

	e.mu.Lock()
	defer e.mu.Unlock()

	if tmpl, ok := e.templates[name]; ok {
		return tmpl, nil
	}

	tmpl, err := e.templateSet.FromFile(name)
	if err != nil {
		return nil, fmt.Errorf("pongo: load template %q: %w", name, err)
	}
	e.templates[name] = tmpl
	return tmpl, nil
}

// convertToContext flattens view-model trees into the plain maps pongo2
// resolves attributes on.
func convertToContext(data any) pongo2.Context {
	switch v := datatree.Normalize(data).(type) {
	case *datatree.Map:
		return pongo2.Context(v.Plain())
	case nil:
		return pongo2.Context{}
	default:
		return pongo2.Context{"data": v}
	}
}

func registerDefaultFilters() {
	if !pongo2.FilterExists("trim") {
		_ = pongo2.RegisterFilter("trim", filterTrim)
	}
	if !pongo2.FilterExists("money") {
		_ = pongo2.RegisterFilter("money", filterMoney)
	}
}

func filterTrim(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if in.Len() <= 0 {
		return pongo2.AsValue(""), nil
	}
	return pongo2.AsValue(strings.TrimSpace(in.String())), nil
}

func filterMoney(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if in.IsNil() {
		return pongo2.AsValue(format.Money(nil)), nil
	}
	return pongo2.AsValue(format.Money(datatree.Normalize(in.Interface()))), nil
}
