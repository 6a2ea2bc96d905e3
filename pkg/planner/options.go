package planner

import (
	"log/slog"
	"strings"

	"github.com/goliatone/go-factorygen/pkg/render/template"
	"github.com/goliatone/go-factorygen/pkg/strategy"
)

// DefaultIgnoredKinds lists kinds that never produce a declaration: reverse
// relations and auto primary keys.
var DefaultIgnoredKinds = []string{
	"ManyToOneRel",
	"ManyToManyRel",
	"OneToOneRel",
	"AutoField",
	"BigAutoField",
	"SmallAutoField",
}

// DefaultRootPackage is the dotted package holding generated factories.
const DefaultRootPackage = "model_factories"

// Option customises a Planner.
type Option func(*Planner)

// WithRegistry sets the kind registry used to resolve strategies.
func WithRegistry(reg *strategy.Registry) Option {
	return func(p *Planner) {
		if reg != nil {
			p.registry = reg
		}
	}
}

// WithClassifier sets the field classifier.
func WithClassifier(c *Classifier) Option {
	return func(p *Planner) {
		if c != nil {
			p.classifier = c
		}
	}
}

// WithIgnoreKinds adds kinds to the default ignore list.
func WithIgnoreKinds(kinds ...string) Option {
	return func(p *Planner) {
		for _, kind := range kinds {
			if kind = strings.TrimSpace(kind); kind != "" {
				p.ignored[kind] = struct{}{}
			}
		}
	}
}

// WithIgnoreNonEditable toggles skipping of non-editable fields. Enabled by
// default.
func WithIgnoreNonEditable(enabled bool) Option {
	return func(p *Planner) {
		p.ignoreNonEditable = enabled
	}
}

// WithRootPackage sets the dotted package used for cross-model factory
// references.
func WithRootPackage(root string) Option {
	return func(p *Planner) {
		if root = strings.Trim(strings.TrimSpace(root), "."); root != "" {
			p.rootPackage = root
		}
	}
}

// WithRenderer sets the renderer used for choice-list blocks.
func WithRenderer(r template.TemplateRenderer) Option {
	return func(p *Planner) {
		p.renderer = r
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Planner) {
		if logger != nil {
			p.logger = logger
		}
	}
}
