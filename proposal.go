// Package proposal is the top-level entry point for turning a trip details
// document into a self-contained HTML proposal page.
package proposal

import (
	"context"
	"io/fs"

	internalLoader "github.com/goliatone/go-proposal/internal/trip/loader"
	"github.com/goliatone/go-proposal/pkg/orchestrator"
	"github.com/goliatone/go-proposal/pkg/templates"
	"github.com/goliatone/go-proposal/pkg/trip"
)

// Result aliases orchestrator.Result so simple callers need one import.
type Result = orchestrator.Result

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// NewLoader constructs a trip loader using the internal implementation while
// keeping the concrete type hidden from consumers.
func NewLoader(options ...trip.LoaderOption) trip.Loader {
	return internalLoader.New(trip.NewLoaderOptions(options...))
}

// GenerateHTML loads the trip folder and renders it with the named renderer
// and its built-in page. An empty renderer selects the default engine.
func GenerateHTML(ctx context.Context, folder, rendererName string, options ...orchestrator.Option) ([]byte, error) {
	result, err := orchestrator.New(options...).Generate(ctx, orchestrator.Request{
		Source:   trip.SourceFromFolder(folder),
		Renderer: rendererName,
	})
	if err != nil {
		return nil, err
	}
	return result.Markup, nil
}

// GenerateHTMLFromData renders an already decoded trip document.
func GenerateHTMLFromData(ctx context.Context, data any, rendererName string, options ...orchestrator.Option) ([]byte, error) {
	result, err := orchestrator.New(options...).Generate(ctx, orchestrator.Request{
		Data:     data,
		Renderer: rendererName,
	})
	if err != nil {
		return nil, err
	}
	return result.Markup, nil
}

// EmbeddedTemplates exposes the built-in page templates so callers can reuse
// or extend them.
func EmbeddedTemplates() fs.FS {
	return templates.FS()
}
