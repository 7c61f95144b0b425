package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	internalLoader "github.com/goliatone/go-proposal/internal/trip/loader"
	"github.com/goliatone/go-proposal/pkg/datatree"
	"github.com/goliatone/go-proposal/pkg/logger"
	"github.com/goliatone/go-proposal/pkg/output"
	"github.com/goliatone/go-proposal/pkg/render"
	"github.com/goliatone/go-proposal/pkg/renderers/stache"
	"github.com/goliatone/go-proposal/pkg/templates"
	"github.com/goliatone/go-proposal/pkg/trip"
	"github.com/goliatone/go-proposal/pkg/viewmodel"
)

const (
	defaultRendererName = stache.Name
	tracerName          = "github.com/goliatone/go-proposal/orchestrator"
)

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithLoader injects a custom trip loader.
func WithLoader(loader trip.Loader) Option {
	return func(o *Orchestrator) {
		o.loader = loader
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithTemplate sets the template used when a request carries none. Without
// it the built-in page of the selected renderer is used.
func WithTemplate(template string) Option {
	return func(o *Orchestrator) {
		o.template = template
	}
}

// WithShaperOptions forwards options to the view model shaper built for
// every request.
func WithShaperOptions(options ...viewmodel.Option) Option {
	return func(o *Orchestrator) {
		o.shaperOptions = append(o.shaperOptions, options...)
	}
}

// WithTransformers registers transformers that rewrite the trip tree before
// shaping, in order.
func WithTransformers(transformers ...Transformer) Option {
	return func(o *Orchestrator) {
		o.transformers = append(o.transformers, transformers...)
	}
}

// WithLogger sets the logger for stage progress and shaping issues.
func WithLogger(l *log.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = l
	}
}

// WithTracer sets the tracer used for stage spans. The global otel provider
// is used otherwise.
func WithTracer(tracer trace.Tracer) Option {
	return func(o *Orchestrator) {
		o.tracer = tracer
	}
}

// Orchestrator coordinates the pipeline from trip document to rendered page.
// Missing dependencies are replaced by the built-in implementations (file
// loader, stache renderer, embedded template).
type Orchestrator struct {
	loader          trip.Loader
	registry        *render.Registry
	defaultRenderer string
	template        string
	shaperOptions   []viewmodel.Option
	transformers    []Transformer
	logger          *log.Logger
	tracer          trace.Tracer
	initialiseErr   error
	defaultsApplied bool
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes one proposal to generate.
type Request struct {
	// Source identifies where the trip document lives. Optional when
	// Document or Data is supplied.
	Source trip.Source

	// Document bypasses the loader for callers holding raw bytes.
	Document *trip.Document

	// Data bypasses loading and decoding entirely.
	Data any

	// Template overrides the configured template for this request.
	Template string

	// Renderer names the renderer to use. If empty, the orchestrator falls back
	// to the configured default renderer.
	Renderer string

	// OutputDir enables the write stage; the page is written to
	// OutputDir/OutputName (output.DefaultFilename when empty).
	OutputDir  string
	OutputName string
}

// Result is the outcome of a successful Generate call.
type Result struct {
	Markup    []byte
	ViewModel viewmodel.ViewModel
	Issues    []viewmodel.Issue
	Renderer  string
	// Path is set when the page was written.
	Path string
}

// Generate executes the load → transform → shape → render → write sequence.
func (o *Orchestrator) Generate(ctx context.Context, req Request) (*Result, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := o.initialiseErr; err != nil {
		return nil, err
	}
	if !o.defaultsApplied {
		o.applyDefaults()
		if err := o.initialiseErr; err != nil {
			return nil, err
		}
	}

	data, err := o.load(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := o.applyTransformers(ctx, data); err != nil {
		return nil, err
	}

	result := &Result{}
	vm, err := o.shape(ctx, data, result)
	if err != nil {
		return nil, err
	}
	result.ViewModel = vm

	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return nil, err
	}
	result.Renderer = renderer.Name()

	template, err := o.templateFor(req, renderer.Name())
	if err != nil {
		return nil, err
	}

	markup, err := o.render(ctx, renderer, template, vm)
	if err != nil {
		return nil, err
	}
	result.Markup = markup

	if req.OutputDir != "" {
		path, err := o.write(ctx, req.OutputDir, req.OutputName, markup)
		if err != nil {
			return nil, err
		}
		result.Path = path
	}
	return result, nil
}

func (o *Orchestrator) load(ctx context.Context, req Request) (any, error) {
	ctx, span := o.tracer.Start(ctx, "proposal.load")
	defer span.End()

	if req.Data != nil {
		span.SetAttributes(attribute.String("proposal.source", "data"))
		return datatree.Normalize(req.Data), nil
	}

	var doc trip.Document
	switch {
	case req.Document != nil:
		doc = *req.Document
	case req.Source != nil:
		span.SetAttributes(attribute.String("proposal.source", req.Source.Location()))
		o.logger.Debug("loading trip", "source", req.Source.Location())
		loaded, err := o.loader.Load(ctx, req.Source)
		if err != nil {
			return nil, failSpan(span, fmt.Errorf("orchestrator: load document: %w", err))
		}
		doc = loaded
	default:
		return nil, failSpan(span, errors.New("orchestrator: source, document or data is required"))
	}

	data, err := doc.Decode()
	if err != nil {
		return nil, failSpan(span, fmt.Errorf("orchestrator: decode %s: %w", doc.Location(), err))
	}
	return data, nil
}

func (o *Orchestrator) shape(ctx context.Context, data any, result *Result) (viewmodel.ViewModel, error) {
	_, span := o.tracer.Start(ctx, "proposal.shape")
	defer span.End()

	options := append([]viewmodel.Option(nil), o.shaperOptions...)
	options = append(options, viewmodel.WithIssueReporter(func(issue viewmodel.Issue) {
		result.Issues = append(result.Issues, issue)
		o.logger.Warn("section omitted", "section", issue.Section, "reason", issue.Reason)
	}))

	vm, err := viewmodel.NewShaper(options...).Shape(data)
	if err != nil {
		return viewmodel.ViewModel{}, failSpan(span, fmt.Errorf("orchestrator: shape: %w", err))
	}
	span.SetAttributes(attribute.Int("proposal.issues", len(result.Issues)))
	return vm, nil
}

func (o *Orchestrator) render(ctx context.Context, renderer render.Renderer, template string, vm viewmodel.ViewModel) ([]byte, error) {
	ctx, span := o.tracer.Start(ctx, "proposal.render",
		trace.WithAttributes(attribute.String("proposal.renderer", renderer.Name())))
	defer span.End()

	markup, err := renderer.Render(ctx, template, vm)
	if err != nil {
		return nil, failSpan(span, fmt.Errorf("orchestrator: render output: %w", err))
	}
	o.logger.Debug("rendered proposal", "renderer", renderer.Name(), "bytes", len(markup))
	return markup, nil
}

func (o *Orchestrator) write(ctx context.Context, dir, name string, markup []byte) (string, error) {
	ctx, span := o.tracer.Start(ctx, "proposal.write")
	defer span.End()

	path, err := output.NewWriter(dir).Write(ctx, name, markup)
	if err != nil {
		return "", failSpan(span, fmt.Errorf("orchestrator: write output: %w", err))
	}
	span.SetAttributes(attribute.String("proposal.output", path))
	o.logger.Info("proposal written", "path", path)
	return path, nil
}

func (o *Orchestrator) templateFor(req Request, rendererName string) (string, error) {
	if req.Template != "" {
		return req.Template, nil
	}
	if o.template != "" {
		return o.template, nil
	}
	template, err := templates.For(rendererName)
	if err != nil {
		return "", fmt.Errorf("orchestrator: %w", err)
	}
	return template, nil
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}

	if target != "" {
		renderer, err := o.registry.Get(target)
		if err == nil {
			return renderer, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
	}

	names := o.registry.List()
	if len(names) == 0 {
		return nil, errors.New("orchestrator: no renderers registered")
	}

	renderer, err := o.registry.Get(names[0])
	if err != nil {
		return nil, fmt.Errorf("orchestrator: renderer %q: %w", names[0], err)
	}
	return renderer, nil
}

func (o *Orchestrator) applyTransformers(ctx context.Context, data any) error {
	if len(o.transformers) == 0 {
		return nil
	}
	root, ok := data.(*datatree.Map)
	if !ok {
		return nil
	}
	for _, transformer := range o.transformers {
		if transformer == nil {
			continue
		}
		if err := transformer.Transform(ctx, root); err != nil {
			return fmt.Errorf("orchestrator: transform trip: %w", err)
		}
	}
	return nil
}

func (o *Orchestrator) applyDefaults() {
	if o.defaultsApplied {
		return
	}

	if o.loader == nil {
		o.loader = internalLoader.New(trip.NewLoaderOptions())
	}
	if o.registry == nil {
		o.registry = render.NewRegistry()
		o.registry.MustRegister(stache.New())
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}
	if o.logger == nil {
		o.logger = logger.L()
	}
	if o.tracer == nil {
		o.tracer = otel.Tracer(tracerName)
	}

	o.defaultsApplied = true
}

func failSpan(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
