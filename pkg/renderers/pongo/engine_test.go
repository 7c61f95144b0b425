package pongo_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-proposal/pkg/datatree"
	"github.com/goliatone/go-proposal/pkg/render"
	"github.com/goliatone/go-proposal/pkg/renderers/pongo"
	"github.com/goliatone/go-proposal/pkg/renderers/stache"
	"github.com/goliatone/go-proposal/pkg/templates"
)

func newEngine(t *testing.T, opts ...pongo.Option) *pongo.Engine {
	t.Helper()
	engine, err := pongo.New(opts...)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func TestEngine_RendersOrderedTree(t *testing.T) {
	engine := newEngine(t)
	data := datatree.NewMap().
		Set("meta", datatree.NewMap().Set("clientName", "Henderson & Jones")).
		Set("tours", []any{
			datatree.NewMap().Set("name", "Tram 28").Set("price", "$120"),
			datatree.NewMap().Set("name", "Alfama walk"),
		})

	tpl := `<h1>{{ meta.clientName }}</h1>{% for tour in tours %}<p>{{ tour.name }}{% if tour.price %} {{ tour.price }}{% endif %}</p>{% endfor %}`
	got, err := engine.Render(context.Background(), tpl, data)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	want := `<h1>Henderson &amp; Jones</h1><p>Tram 28 $120</p><p>Alfama walk</p>`
	if diff := cmp.Diff(want, string(got)); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestEngine_Filters(t *testing.T) {
	engine := newEngine(t)
	got, err := engine.Render(context.Background(), `[{{ name|trim }}] {{ amount|money }}`, map[string]any{
		"name":   "  Lisbon  ",
		"amount": 1234.6,
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if diff := cmp.Diff("[Lisbon] ~$1,235", string(got)); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestEngine_RenderTemplateFromFS(t *testing.T) {
	files := fstest.MapFS{
		"page.html":  {Data: []byte(`{% include "title.html" %}|{{ site }}`)},
		"title.html": {Data: []byte(`{{ title }}`)},
	}
	engine := newEngine(t,
		pongo.WithFS(files),
		pongo.WithGlobalData(map[string]any{"site": "Voyages"}),
	)

	for i := 0; i < 2; i++ {
		got, err := engine.RenderTemplate(context.Background(), "page.html", map[string]any{"title": "Portugal"})
		if err != nil {
			t.Fatalf("render template (pass %d): %v", i, err)
		}
		if diff := cmp.Diff("Portugal|Voyages", string(got)); diff != "" {
			t.Fatalf("output mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestEngine_Errors(t *testing.T) {
	engine := newEngine(t)

	if _, err := engine.Render(context.Background(), `{% for %}`, nil); err == nil || !strings.Contains(err.Error(), "pongo: parse template string") {
		t.Fatalf("expected parse error, got %v", err)
	}
	if _, err := engine.RenderTemplate(context.Background(), "missing.html", nil); err == nil {
		t.Fatalf("expected error for unknown template")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := engine.Render(ctx, "x", nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestEngine_BuiltInTemplate(t *testing.T) {
	engine := newEngine(t)
	data := datatree.NewMap().
		Set("meta", datatree.NewMap().Set("destination", "Portugal").Set("clientName", "Ann")).
		Set("dining", []any{
			datatree.NewMap().Set("city", "Lisbon").Set("restaurants", []any{
				datatree.NewMap().Set("name", "Cantinho").Set("price", "$$"),
			}),
		}).
		Set("notIncluded", []any{datatree.NewMap().Set("text", "Gratuities")})

	got, err := engine.RenderTemplate(context.Background(), templates.PongoTemplate, data)
	if err != nil {
		t.Fatalf("render built-in: %v", err)
	}
	for _, want := range []string{"<title>Portugal Proposal for Ann</title>", "<h3>Lisbon</h3>", "<li>Cantinho ($$)</li>", "<li>Gratuities</li>"} {
		if !strings.Contains(string(got), want) {
			t.Fatalf("expected %q in output:\n%s", want, got)
		}
	}
}

func TestEngine_Registers(t *testing.T) {
	registry := render.NewRegistry()
	registry.MustRegister(newEngine(t))
	got, err := registry.Get(pongo.Name)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ContentType() != "text/html; charset=utf-8" {
		t.Fatalf("unexpected content type %q", got.ContentType())
	}
}

func TestEngine_ClaimsPongoTemplates(t *testing.T) {
	registry := render.NewRegistry()
	registry.MustRegister(stache.New())
	registry.MustRegister(newEngine(t))

	cases := map[string]string{
		"proposal.html":                stache.Name,
		"templates/summary.pongo.html": pongo.Name,
		"invoice.django":               pongo.Name,
		"Letter.HBS":                   stache.Name,
	}
	for file, want := range cases {
		got, err := registry.ForTemplate(file)
		if err != nil {
			t.Fatalf("ForTemplate(%q): %v", file, err)
		}
		if diff := cmp.Diff(want, got.Name()); diff != "" {
			t.Fatalf("ForTemplate(%q) mismatch (-want +got):\n%s", file, diff)
		}
	}
}
