package render

import (
	"errors"
	"fmt"
	"path"
	"slices"
	"strings"
	"sync"
)

// ErrRendererNotFound is returned for unregistered names.
var ErrRendererNotFound = errors.New("render: renderer not found")

// ErrNoTemplateMatch is returned by ForTemplate when no registered renderer
// claims the template's extension.
var ErrNoTemplateMatch = errors.New("render: no renderer for template")

// Registry holds the proposal engines by name and by the template extensions
// they claim, so a page can be routed to its engine from configuration or
// from its file name alone.
type Registry struct {
	mu         sync.RWMutex
	renderers  map[string]Renderer
	extensions map[string]string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		renderers:  make(map[string]Renderer),
		extensions: make(map[string]string),
	}
}

// Register adds renderer under its Name() and, when it implements
// TemplateMatcher, under each of its extensions. Duplicate names and
// extensions already claimed by another renderer are errors; nothing is
// registered in that case.
func (r *Registry) Register(renderer Renderer) error {
	if renderer == nil {
		return errors.New("render: renderer is required")
	}
	name := renderer.Name()
	if name == "" {
		return errors.New("render: renderer name is required")
	}

	var exts []string
	if matcher, ok := renderer.(TemplateMatcher); ok {
		for _, ext := range matcher.Extensions() {
			if ext = normalizeExt(ext); ext != "" {
				exts = append(exts, ext)
			}
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.renderers[name]; exists {
		return fmt.Errorf("render: renderer %q already registered", name)
	}
	for _, ext := range exts {
		if owner, claimed := r.extensions[ext]; claimed && owner != name {
			return fmt.Errorf("render: extension %q already claimed by %q", ext, owner)
		}
	}

	r.renderers[name] = renderer
	for _, ext := range exts {
		r.extensions[ext] = name
	}
	return nil
}

// MustRegister panics on registration failure.
func (r *Registry) MustRegister(renderer Renderer) {
	if err := r.Register(renderer); err != nil {
		panic(err)
	}
}

// Get retrieves a renderer by name.
func (r *Registry) Get(name string) (Renderer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if renderer, ok := r.renderers[name]; ok {
		return renderer, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrRendererNotFound, name)
}

// MustGet panics if the renderer is missing.
func (r *Registry) MustGet(name string) Renderer {
	renderer, err := r.Get(name)
	if err != nil {
		panic(err)
	}
	return renderer
}

// ForTemplate picks the renderer for a template file name. The longest
// claimed suffix wins, so "page.pongo.html" goes to the engine claiming
// ".pongo.html" even when another claims ".html". Matching ignores case.
func (r *Registry) ForTemplate(file string) (Renderer, error) {
	base := strings.ToLower(path.Base(strings.ReplaceAll(file, "\\", "/")))

	r.mu.RLock()
	defer r.mu.RUnlock()

	best := ""
	for ext := range r.extensions {
		if strings.HasSuffix(base, ext) && len(ext) > len(best) {
			best = ext
		}
	}
	if best == "" {
		return nil, fmt.Errorf("%w: %q", ErrNoTemplateMatch, file)
	}
	return r.renderers[r.extensions[best]], nil
}

// List returns the registered names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.renderers))
	for name := range r.renderers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Has reports whether a renderer is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.renderers[name]
	return ok
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" {
		return ""
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
