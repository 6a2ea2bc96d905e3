package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	factorygen "github.com/goliatone/go-factorygen"
	"github.com/goliatone/go-factorygen/pkg/emitter"
	"github.com/goliatone/go-factorygen/pkg/manifest"
	"github.com/goliatone/go-factorygen/pkg/openapi"
	"github.com/goliatone/go-factorygen/pkg/orchestrator"
	"github.com/goliatone/go-factorygen/pkg/planner"
	"github.com/goliatone/go-factorygen/pkg/prompt"
	"github.com/goliatone/go-factorygen/pkg/schema"
)

const httpTimeout = 30 * time.Second

// addSourceFlags registers the flags shared by generate and plan.
func (a *app) addSourceFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringP("source", "s", "", "manifest or OpenAPI document (path or URL)")
	flags.String("format", "", "adapter name (manifest or openapi); detected when empty")
	flags.String("base-dir", ".", "directory the factory tree is written under")
	flags.String("root-dir", emitter.DefaultRoot, "root package of the generated tree")
	flags.StringSlice("only-apps", nil, "generate only these apps (wins over --ignore-apps)")
	flags.StringSlice("ignore-apps", nil, "skip these apps")
	flags.String("template-dir", "", "directory of .py-tpl files overriding the built-in templates")
	flags.String("default-app", "", "app label for OpenAPI schemas without x-factorygen-app")
	flags.BoolP("interactive", "i", false, "pick apps with an interactive prompt")
}

// orchestrator assembles the pipeline from the loaded settings.
func (a *app) orchestrator(cmd *cobra.Command) (*orchestrator.Orchestrator, error) {
	s := a.settings

	e, err := emitter.New(append(s.EmitterOptions(), emitter.WithLogger(a.logger))...)
	if err != nil {
		return nil, err
	}
	plannerOpts, err := s.PlannerOptions()
	if err != nil {
		return nil, err
	}
	plannerOpts = append(plannerOpts, planner.WithRenderer(e.Renderer()), planner.WithLogger(a.logger))
	p, err := planner.New(plannerOpts...)
	if err != nil {
		return nil, err
	}

	registry := orchestrator.NewAdapterRegistry()
	registry.MustRegister(manifest.NewAdapter())
	registry.MustRegister(openapi.NewAdapter(openapi.WithDefaultApp(s.DefaultApp), openapi.WithLogger(a.logger)))

	opts := []orchestrator.Option{
		orchestrator.WithEmitter(e),
		orchestrator.WithPlanner(p),
		orchestrator.WithAdapterRegistry(registry),
		orchestrator.WithLoader(factorygen.NewLoader(schema.WithHTTPFallback(httpTimeout))),
		orchestrator.WithLogger(a.logger),
	}
	if interactive, _ := cmd.Flags().GetBool("interactive"); interactive {
		opts = append(opts, orchestrator.WithSelector(prompt.NewAppSelector(nil)))
	}
	return orchestrator.New(opts...), nil
}

func (a *app) request() (orchestrator.Request, error) {
	s := a.settings
	if s.Source == "" {
		return orchestrator.Request{}, errors.New("a source is required: pass --source or set source in the config file")
	}
	src, err := schema.ParseSource(s.Source)
	if err != nil {
		return orchestrator.Request{}, fmt.Errorf("invalid source %q: %w", s.Source, err)
	}
	return orchestrator.Request{
		Source:     src,
		Format:     s.Format,
		OnlyApps:   s.OnlyApps,
		IgnoreApps: s.IgnoreApps,
	}, nil
}
