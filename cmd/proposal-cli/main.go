package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"github.com/goliatone/go-proposal/pkg/config"
	"github.com/goliatone/go-proposal/pkg/datatree"
	"github.com/goliatone/go-proposal/pkg/engagement"
	"github.com/goliatone/go-proposal/pkg/identity"
	"github.com/goliatone/go-proposal/pkg/logger"
	"github.com/goliatone/go-proposal/pkg/orchestrator"
	"github.com/goliatone/go-proposal/pkg/output"
	"github.com/goliatone/go-proposal/pkg/presentation"
	"github.com/goliatone/go-proposal/pkg/render"
	"github.com/goliatone/go-proposal/pkg/renderers/pongo"
	"github.com/goliatone/go-proposal/pkg/renderers/stache"
	"github.com/goliatone/go-proposal/pkg/trip"
	"github.com/goliatone/go-proposal/pkg/viewmodel"
)

const usage = `Travel Proposal Generator

Usage:
  proposal-cli <trip-folder> [flags]

Reads trip-details.json from the folder and writes the proposal page next
to it.

Flags:
`

type options struct {
	folder      string
	output      string
	template    string
	configPath  string
	renderer    string
	strict      bool
	interactive bool
	root        string
	serve       string
}

type app struct {
	stdout io.Writer
	stderr io.Writer
	prompt prompter
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := app{stdout: os.Stdout, stderr: os.Stderr, prompt: surveyPrompter{}}
	os.Exit(a.run(ctx, os.Args[1:]))
}

func (a app) run(ctx context.Context, args []string) int {
	opts, err := parseArgs(args, a.stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return 1
	}
	inferRenderer := opts.renderer == "" && cfg.Renderer == config.DefaultRenderer
	applyFlags(cfg, opts)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return 1
	}

	logger.Init(cfg.LogLevel)
	lgr := logger.L()

	if opts.folder == "" && opts.interactive {
		folder, err := a.pickTrip(ctx, opts.root)
		if err != nil {
			fmt.Fprintf(a.stderr, "Error: %v\n", err)
			return 1
		}
		opts.folder = folder
	}
	if opts.folder == "" {
		fmt.Fprint(a.stderr, usage)
		return 2
	}

	if opts.interactive {
		proceed, err := a.confirmOverwrite(ctx, opts.folder, cfg.Output)
		if err != nil {
			fmt.Fprintf(a.stderr, "Error: %v\n", err)
			return 1
		}
		if !proceed {
			fmt.Fprintln(a.stdout, "Nothing written.")
			return 1
		}
	}

	var events *engagement.Store
	if cfg.Site && (cfg.Presentation.Analytics.Provider == presentation.AnalyticsStore || opts.serve != "") {
		events, err = engagement.OpenStore(engagement.StoreConfig{Path: cfg.EventsDB, Logger: lgr})
		if err != nil {
			fmt.Fprintf(a.stderr, "Error: %v\n", err)
			return 1
		}
		defer events.Close()
	}

	var site *presentation.Site
	if cfg.Site {
		resolveOpts := []presentation.Option{presentation.WithLogger(lgr)}
		if events != nil {
			resolveOpts = append(resolveOpts, presentation.WithRecorder(events))
		}
		site, err = presentation.Resolve(cfg.Presentation, resolveOpts...)
		if err != nil {
			fmt.Fprintf(a.stderr, "Error: %v\n", err)
			return 1
		}
	}

	result, err := generate(ctx, cfg, opts.folder, inferRenderer, site, lgr)
	if err != nil {
		var missing *viewmodel.MissingFieldError
		if errors.As(err, &missing) {
			fmt.Fprintf(a.stderr, "Error: trip-details.json is missing %s\n", missing.Field)
			return 1
		}
		fmt.Fprintf(a.stderr, "Error generating proposal: %v\n", err)
		return 1
	}

	meta := result.ViewModel.Meta
	fmt.Fprintf(a.stdout, "\nGenerating proposal for: %s\n", datatree.Get(meta, "clientName"))
	fmt.Fprintf(a.stdout, "Destination: %s\n", datatree.Get(meta, "destination"))
	fmt.Fprintf(a.stdout, "Dates: %s\n\n", datatree.Get(meta, "dates"))

	abs, err := filepath.Abs(result.Path)
	if err != nil {
		abs = result.Path
	}
	fmt.Fprintf(a.stdout, "✅ Proposal generated: %s\n", result.Path)
	fmt.Fprintf(a.stdout, "\nOpen in browser: file://%s\n", abs)

	if opts.interactive && site != nil {
		if err := a.scheduleLink(ctx, cfg, site, result.Path); err != nil {
			lgr.Warn("schedule link not built", "error", err)
		}
	}

	if opts.serve != "" {
		if events == nil {
			fmt.Fprintln(a.stderr, "Error: --serve requires site to be enabled in the config")
			return 1
		}
		if err := serve(ctx, opts.serve, opts.folder, events, lgr); err != nil {
			fmt.Fprintf(a.stderr, "Error: %v\n", err)
			return 1
		}
	}
	return 0
}

// parseArgs accepts the trip folder before, after or between flags.
func parseArgs(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("proposal-cli", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}
	fs.StringVar(&opts.output, "output", "", "output file name inside the trip folder")
	fs.StringVar(&opts.template, "template", "", "template file (built-in page when empty)")
	fs.StringVar(&opts.configPath, "config", "", "config file (JSON or YAML)")
	fs.StringVar(&opts.renderer, "renderer", "", "renderer: stache or pongo")
	fs.BoolVar(&opts.strict, "strict", false, "fail on unsupported template directives")
	fs.BoolVar(&opts.interactive, "interactive", false, "pick a trip and confirm overwrites")
	fs.StringVar(&opts.root, "root", ".", "directory searched for trips in interactive mode")
	fs.StringVar(&opts.serve, "serve", "", "after generating, serve the trip folder and engagement API on this address")

	rest := args
	for {
		if err := fs.Parse(rest); err != nil {
			return options{}, err
		}
		if fs.NArg() == 0 {
			break
		}
		if opts.folder != "" {
			fmt.Fprintf(stderr, "unexpected argument %q\n", fs.Arg(0))
			fs.Usage()
			return options{}, errors.New("proposal-cli: too many arguments")
		}
		opts.folder = fs.Arg(0)
		rest = fs.Args()[1:]
	}
	return opts, nil
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	if _, err := os.Stat(config.DefaultFilename); err == nil {
		return config.Load(config.DefaultFilename)
	}
	return config.Default(), nil
}

func applyFlags(cfg *config.Config, opts options) {
	if opts.output != "" {
		cfg.Output = opts.output
	}
	if opts.template != "" {
		cfg.Template = opts.template
	}
	if opts.renderer != "" {
		cfg.Renderer = opts.renderer
	}
	if opts.strict {
		cfg.Strict = true
	}
}

func newRegistry(cfg *config.Config) (*render.Registry, error) {
	registry := render.NewRegistry()

	var stacheOpts []stache.Option
	if cfg.Strict {
		stacheOpts = append(stacheOpts, stache.WithStrict())
	}
	registry.MustRegister(stache.New(stacheOpts...))

	var pongoOpts []pongo.Option
	if cfg.Template != "" {
		pongoOpts = append(pongoOpts, pongo.WithBaseDir(filepath.Dir(cfg.Template)))
	}
	engine, err := pongo.New(pongoOpts...)
	if err != nil {
		return nil, err
	}
	if err := registry.Register(engine); err != nil {
		return nil, err
	}
	return registry, nil
}

func shaperOptions(cfg *config.Config, site *presentation.Site) []viewmodel.Option {
	var opts []viewmodel.Option
	if cfg.PackageName != "" {
		opts = append(opts, viewmodel.WithPackageName(cfg.PackageName))
	}
	if cfg.InsuranceNote != "" {
		opts = append(opts, viewmodel.WithInsuranceNote(cfg.InsuranceNote))
	}
	if len(cfg.NotIncluded) > 0 {
		opts = append(opts, viewmodel.WithNotIncluded(cfg.NotIncluded...))
	}
	if site != nil {
		opts = append(opts, viewmodel.WithSite(site))
	}
	return opts
}

// generate renders the trip in folder. When inferRenderer is set and a
// template file is configured, the engine is picked from the template's
// extension.
func generate(ctx context.Context, cfg *config.Config, folder string, inferRenderer bool, site *presentation.Site, lgr *log.Logger) (*orchestrator.Result, error) {
	registry, err := newRegistry(cfg)
	if err != nil {
		return nil, err
	}

	rendererName := cfg.Renderer
	if inferRenderer && cfg.Template != "" {
		if renderer, err := registry.ForTemplate(cfg.Template); err == nil {
			rendererName = renderer.Name()
			lgr.Debug("renderer picked from template", "template", cfg.Template, "renderer", rendererName)
		}
	}

	orchOpts := []orchestrator.Option{
		orchestrator.WithRegistry(registry),
		orchestrator.WithDefaultRenderer(rendererName),
		orchestrator.WithShaperOptions(shaperOptions(cfg, site)...),
		orchestrator.WithLogger(lgr),
	}
	if cfg.Template != "" {
		tpl, err := os.ReadFile(cfg.Template)
		if err != nil {
			return nil, fmt.Errorf("template not found: %w", err)
		}
		orchOpts = append(orchOpts, orchestrator.WithTemplate(string(tpl)))
	}

	src := trip.SourceFromFolder(folder)
	return orchestrator.New(orchOpts...).Generate(ctx, orchestrator.Request{
		Source:     src,
		OutputDir:  trip.Folder(src),
		OutputName: cfg.Output,
	})
}

func (a app) pickTrip(ctx context.Context, root string) (string, error) {
	folders, err := trip.FindTrips(os.DirFS(root), ".")
	if err != nil {
		return "", err
	}
	if len(folders) == 0 {
		return "", fmt.Errorf("no %s found under %s", trip.DetailsFile, root)
	}
	idx, err := a.prompt.Select(ctx, "Which trip?", folders)
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(folders) {
		return "", errAborted
	}
	return filepath.Join(root, filepath.FromSlash(folders[idx])), nil
}

func (a app) confirmOverwrite(ctx context.Context, folder, name string) (bool, error) {
	writer := output.NewWriter(folder)
	exists, err := writer.Exists(name)
	if err != nil {
		return false, err
	}
	if !exists {
		return true, nil
	}
	path, err := writer.Path(name)
	if err != nil {
		return false, err
	}
	return a.prompt.Confirm(ctx, fmt.Sprintf("%s exists. Overwrite?", path), false)
}

// scheduleLink asks for the visitor's details, remembers them and prints the
// prefilled booking link.
func (a app) scheduleLink(ctx context.Context, cfg *config.Config, site *presentation.Site, page string) error {
	if cfg.Presentation.Agent.ScheduleURL == "" {
		return nil
	}
	store, err := identity.Open(cfg.IdentityDB)
	if err != nil {
		return err
	}
	defer store.Close()

	visitor, err := store.Visitor(ctx)
	if err != nil {
		return err
	}
	name, err := a.prompt.Input(ctx, "Client name for the booking link:", visitor.Name, nil)
	if err != nil {
		return err
	}
	email, err := a.prompt.Input(ctx, "Client email:", visitor.Email, func(v string) error {
		if v != "" && !identity.ValidEmail(v) {
			return identity.ErrInvalidEmail
		}
		return nil
	})
	if err != nil {
		return err
	}
	if err := store.Remember(ctx, name, email); err != nil {
		return err
	}

	link, err := site.ScheduleURL(name, email, filepath.Base(page))
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Schedule link: %s\n", link)
	return nil
}

func serve(ctx context.Context, addr, folder string, store *engagement.Store, lgr *log.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/api/", http.StripPrefix("/api", engagement.NewHandler(store,
		engagement.WithLogger(lgr),
		engagement.WithFeedbackSink(store),
	)))
	mux.Handle("/", http.FileServer(http.Dir(folder)))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		lgr.Info("serving proposal", "addr", addr, "folder", folder)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
