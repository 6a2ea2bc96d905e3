package factorygen

import (
	"context"

	"github.com/goliatone/go-factorygen/pkg/model"
	"github.com/goliatone/go-factorygen/pkg/orchestrator"
	"github.com/goliatone/go-factorygen/pkg/schema"
)

// Request aliases orchestrator.Request for callers of the top-level package.
type Request = orchestrator.Request

// Result aliases orchestrator.Result.
type Result = orchestrator.Result

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// Generate loads the source, introspects it with the matching adapter and
// writes the factory tree for every app. Layout and filters come from the
// supplied emitter and planner options, or the defaults when none are given.
func Generate(ctx context.Context, source schema.Source, options ...orchestrator.Option) (Result, error) {
	gen := orchestrator.New(options...)
	return gen.Generate(ctx, orchestrator.Request{Source: source})
}

// GenerateFromCatalog writes the factory tree for an already introspected
// catalog, bypassing the loader and the adapters.
func GenerateFromCatalog(ctx context.Context, catalog model.Catalog, options ...orchestrator.Option) (Result, error) {
	gen := orchestrator.New(options...)
	return gen.Generate(ctx, orchestrator.Request{Catalog: &catalog})
}
