package render_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-proposal/pkg/render"
)

type stubRenderer struct {
	name string
}

func (s stubRenderer) Name() string        { return s.name }
func (s stubRenderer) ContentType() string { return "text/plain" }
func (s stubRenderer) Render(_ context.Context, template string, _ any) ([]byte, error) {
	return []byte(strings.ToUpper(template)), nil
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	registry := render.NewRegistry()
	registry.MustRegister(stubRenderer{name: "stache"})
	registry.MustRegister(stubRenderer{name: "pongo"})

	if diff := cmp.Diff([]string{"pongo", "stache"}, registry.List()); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}
	if !registry.Has("stache") {
		t.Fatalf("expected stache to be registered")
	}

	renderer, err := registry.Get("pongo")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	out, err := renderer.Render(context.Background(), "hi", nil)
	if err != nil || string(out) != "HI" {
		t.Fatalf("unexpected render result %q, %v", out, err)
	}
}

func TestRegistry_Errors(t *testing.T) {
	registry := render.NewRegistry()

	if err := registry.Register(nil); err == nil {
		t.Fatalf("expected error for nil renderer")
	}
	if err := registry.Register(stubRenderer{}); err == nil {
		t.Fatalf("expected error for unnamed renderer")
	}
	registry.MustRegister(stubRenderer{name: "stache"})
	if err := registry.Register(stubRenderer{name: "stache"}); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
	if _, err := registry.Get("missing"); !errors.Is(err, render.ErrRendererNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}

	defer func() {
		if recover() == nil {
			t.Fatalf("expected MustGet to panic")
		}
	}()
	registry.MustGet("missing")
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	registry := render.NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_ = registry.Register(stubRenderer{name: string(rune('a' + i))})
		}(i)
		go func() {
			defer wg.Done()
			_ = registry.List()
		}()
	}
	wg.Wait()

	if got := len(registry.List()); got != 16 {
		t.Fatalf("expected 16 renderers, got %d", got)
	}
}

type matchingRenderer struct {
	stubRenderer
	exts []string
}

func (m matchingRenderer) Extensions() []string { return m.exts }

func TestRegistry_ForTemplate(t *testing.T) {
	registry := render.NewRegistry()
	registry.MustRegister(matchingRenderer{stubRenderer{name: "stache"}, []string{".html", "hbs"}})
	registry.MustRegister(matchingRenderer{stubRenderer{name: "pongo"}, []string{".pongo.html"}})
	registry.MustRegister(stubRenderer{name: "plain"})

	cases := map[string]string{
		"proposal.html":                   "stache",
		"templates/Proposal.HTML":         "stache",
		"custom.hbs":                      "stache",
		"proposal.pongo.html":             "pongo",
		`C:\trips\page.pongo.html`:        "pongo",
		"nested/dir.html/page.pongo.html": "pongo",
	}
	for file, want := range cases {
		renderer, err := registry.ForTemplate(file)
		if err != nil {
			t.Fatalf("ForTemplate(%q): %v", file, err)
		}
		if renderer.Name() != want {
			t.Fatalf("ForTemplate(%q) = %s, want %s", file, renderer.Name(), want)
		}
	}

	if _, err := registry.ForTemplate("notes.txt"); !errors.Is(err, render.ErrNoTemplateMatch) {
		t.Fatalf("expected ErrNoTemplateMatch, got %v", err)
	}
}

func TestRegistry_ExtensionConflict(t *testing.T) {
	registry := render.NewRegistry()
	registry.MustRegister(matchingRenderer{stubRenderer{name: "stache"}, []string{".html"}})

	err := registry.Register(matchingRenderer{stubRenderer{name: "other"}, []string{".HTML"}})
	if err == nil {
		t.Fatalf("expected conflict error")
	}
	if registry.Has("other") {
		t.Fatalf("conflicting renderer should not be registered")
	}
}
