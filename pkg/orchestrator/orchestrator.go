package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	internalLoader "github.com/goliatone/go-factorygen/internal/loader"
	"github.com/goliatone/go-factorygen/pkg/emitter"
	"github.com/goliatone/go-factorygen/pkg/manifest"
	"github.com/goliatone/go-factorygen/pkg/model"
	"github.com/goliatone/go-factorygen/pkg/openapi"
	"github.com/goliatone/go-factorygen/pkg/planner"
	"github.com/goliatone/go-factorygen/pkg/schema"
)

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithLoader injects a custom document loader.
func WithLoader(loader schema.Loader) Option {
	return func(o *Orchestrator) {
		o.loader = loader
	}
}

// WithAdapterRegistry replaces the adapter registry. The built-in manifest
// and OpenAPI adapters are only registered on the default registry.
func WithAdapterRegistry(registry *AdapterRegistry) Option {
	return func(o *Orchestrator) {
		o.adapterRegistry = registry
	}
}

// WithDefaultAdapter names the adapter used when detection finds no match.
func WithDefaultAdapter(name string) Option {
	return func(o *Orchestrator) {
		o.defaultAdapter = name
	}
}

// WithPlanner injects a configured planner.
func WithPlanner(p *planner.Planner) Option {
	return func(o *Orchestrator) {
		o.planner = p
	}
}

// WithEmitter injects a configured emitter.
func WithEmitter(e *emitter.Emitter) Option {
	return func(o *Orchestrator) {
		o.emitter = e
	}
}

// WithSelector registers an interactive selector consulted after the
// allow/deny filters ran.
func WithSelector(selector Selector) Option {
	return func(o *Orchestrator) {
		o.selector = selector
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Orchestrator coordinates the full pipeline from a schema source to the
// generated factory tree. It applies sensible defaults (built-in adapters,
// embedded templates, default kind table) while remaining open to dependency
// injection for advanced callers.
type Orchestrator struct {
	loader          schema.Loader
	adapterRegistry *AdapterRegistry
	defaultAdapter  string
	planner         *planner.Planner
	emitter         *emitter.Emitter
	selector        Selector
	logger          *slog.Logger
	initialiseErr   error
}

// New constructs an Orchestrator applying any provided options. Missing
// dependencies are initialised with the built-in implementations so callers can
// start with a single constructor call.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultAdapter: manifest.AdapterName,
		logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
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

// Request describes one generation run.
type Request struct {
	// Source identifies where the schema document lives. Optional when
	// Document or Catalog is supplied.
	Source schema.Source

	// Document bypasses the loader.
	Document *schema.Document

	// Catalog bypasses both the loader and the adapters.
	Catalog *model.Catalog

	// Format names the adapter. Empty means detect.
	Format string

	// OnlyApps restricts generation to the listed app labels. When set,
	// IgnoreApps is not consulted.
	OnlyApps []string

	// IgnoreApps skips the listed app labels.
	IgnoreApps []string
}

// AppResult reports what one sub-application produced.
type AppResult struct {
	Label string `json:"label"`
	// Factories lists the override module of every model, whether or not it
	// was created during this run.
	Factories []string `json:"factories,omitempty"`
	// Created lists override modules written for the first time.
	Created []string `json:"created,omitempty"`
	// Written lists every file written during this run.
	Written []string `json:"written,omitempty"`
	Index   string   `json:"index,omitempty"`
	Bytes   int64    `json:"bytes"`
}

// Result summarises a generation run.
type Result struct {
	RunID string      `json:"run_id"`
	Apps  []AppResult `json:"apps"`
}

// Factories returns the override modules of all apps in generation order.
func (r Result) Factories() []string {
	var out []string
	for _, app := range r.Apps {
		out = append(out, app.Factories...)
	}
	return out
}

// Created returns the override modules created during the run.
func (r Result) Created() []string {
	var out []string
	for _, app := range r.Apps {
		out = append(out, app.Created...)
	}
	return out
}

// Written returns every file written during the run.
func (r Result) Written() []string {
	var out []string
	for _, app := range r.Apps {
		out = append(out, app.Written...)
	}
	return out
}

// Bytes returns the number of bytes written during the run.
func (r Result) Bytes() int64 {
	var total int64
	for _, app := range r.Apps {
		total += app.Bytes
	}
	return total
}

// AppPlan groups the model plans of one sub-application.
type AppPlan struct {
	Label string         `json:"label"`
	Plans []planner.Plan `json:"plans"`
}

// Generate executes the loader → adapter → planner → emitter sequence for
// every selected app. The first failure aborts the run; files written before
// it stay on disk.
func (o *Orchestrator) Generate(ctx context.Context, req Request) (Result, error) {
	apps, err := o.prepare(ctx, req)
	if err != nil {
		return Result{}, err
	}

	result := Result{RunID: uuid.NewString()}
	logger := o.logger.With("run", result.RunID)
	for _, app := range apps {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		appResult, err := o.generateApp(ctx, logger, app)
		if err != nil {
			return result, err
		}
		result.Apps = append(result.Apps, appResult)
	}
	logger.Info("generation complete", "apps", len(result.Apps), "written", len(result.Written()))
	return result, nil
}

// Plan builds the plans of every selected app without touching the
// filesystem.
func (o *Orchestrator) Plan(ctx context.Context, req Request) ([]AppPlan, error) {
	apps, err := o.prepare(ctx, req)
	if err != nil {
		return nil, err
	}

	out := make([]AppPlan, 0, len(apps))
	for _, app := range apps {
		entry := AppPlan{Label: app.Label}
		for _, m := range app.Models {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			plan, err := o.planner.Plan(m)
			if err != nil {
				return nil, err
			}
			entry.Plans = append(entry.Plans, plan)
		}
		out = append(out, entry)
	}
	return out, nil
}

// Catalog loads and adapts the request source without generating anything.
func (o *Orchestrator) Catalog(ctx context.Context, req Request) (model.Catalog, error) {
	if err := o.ready(ctx); err != nil {
		return model.Catalog{}, err
	}
	return o.catalog(ctx, req)
}

// Adapters lists the registered adapter names.
func (o *Orchestrator) Adapters() []string {
	if o.adapterRegistry == nil {
		return nil
	}
	return o.adapterRegistry.List()
}

func (o *Orchestrator) prepare(ctx context.Context, req Request) ([]model.App, error) {
	if err := o.ready(ctx); err != nil {
		return nil, err
	}
	catalog, err := o.catalog(ctx, req)
	if err != nil {
		return nil, err
	}
	return o.selectApps(ctx, catalog, req)
}

func (o *Orchestrator) ready(ctx context.Context) error {
	if ctx == nil {
		return errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return o.initialiseErr
}

func (o *Orchestrator) applyDefaults() {
	if o.loader == nil {
		o.loader = internalLoader.New(schema.NewLoaderOptions())
	}
	if o.adapterRegistry == nil {
		o.adapterRegistry = NewAdapterRegistry()
		o.adapterRegistry.MustRegister(manifest.NewAdapter())
		o.adapterRegistry.MustRegister(openapi.NewAdapter(openapi.WithLogger(o.logger)))
	}
	if o.emitter == nil {
		e, err := emitter.New(emitter.WithLogger(o.logger))
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default emitter: %w", err)
			return
		}
		o.emitter = e
	}
	if o.planner == nil {
		p, err := planner.New(
			planner.WithRenderer(o.emitter.Renderer()),
			planner.WithRootPackage(o.emitter.Layout().Package()),
			planner.WithLogger(o.logger),
		)
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default planner: %w", err)
			return
		}
		o.planner = p
	}
}
