package planner

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/goliatone/go-factorygen/pkg/model"
	"github.com/goliatone/go-factorygen/pkg/render/template"
	"github.com/goliatone/go-factorygen/pkg/strategy"
)

// TemplateChoicesList renders one choice-list constant.
const TemplateChoicesList = "choiceslist"

// ErrRendererRequired is returned when a model declares choices but the
// planner has no renderer for the choice-list block.
var ErrRendererRequired = errors.New("planner: renderer required to render choice lists")

// FieldPlan is one planned field declaration.
type FieldPlan struct {
	Field         model.Field       `json:"field"`
	Kind          string            `json:"kind"`
	StrategyID    string            `json:"strategy"`
	Strategy      strategy.Strategy `json:"-"`
	Params        strategy.Params   `json:"-"`
	NeedsTimezone bool              `json:"needs_timezone,omitempty"`
	Imports       []string          `json:"imports,omitempty"`
}

// Arguments renders the keyword arguments passed to the faker class.
func (f FieldPlan) Arguments() string {
	return f.Params.String()
}

// ChoiceBlock is a rendered module-level choice constant.
type ChoiceBlock struct {
	Field  string `json:"field"`
	Symbol string `json:"symbol"`
	Source string `json:"source"`
}

// Plan is everything needed to emit the base factory of one model.
type Plan struct {
	Model         model.Model   `json:"model"`
	Fields        []FieldPlan   `json:"fields"`
	Unique        []string      `json:"unique,omitempty"`
	Choices       []ChoiceBlock `json:"choices,omitempty"`
	NeedsTimezone bool          `json:"needs_timezone,omitempty"`
	// Imports holds Python import statements, sorted and de-duplicated.
	Imports []string `json:"imports,omitempty"`
}

// Choice returns the choice block rendered for field.
func (p Plan) Choice(field string) (ChoiceBlock, bool) {
	for _, block := range p.Choices {
		if block.Field == field {
			return block, true
		}
	}
	return ChoiceBlock{}, false
}

// UniqueKwargs renders the unique names as the django_get_or_create tuple
// body, e.g. "'code', 'sku',". Empty when no field is unique.
func (p Plan) UniqueKwargs() string {
	if len(p.Unique) == 0 {
		return ""
	}
	parts := make([]string, 0, len(p.Unique))
	for _, name := range p.Unique {
		parts = append(parts, strategy.PyQuote(name))
	}
	return strings.Join(parts, ", ") + ","
}

// Planner assembles model generation plans.
type Planner struct {
	registry          *strategy.Registry
	classifier        *Classifier
	renderer          template.TemplateRenderer
	ignored           map[string]struct{}
	ignoreNonEditable bool
	rootPackage       string
	logger            *slog.Logger
}

// New constructs a Planner. Without WithRegistry the built-in kind table is
// used.
func New(options ...Option) (*Planner, error) {
	p := &Planner{
		ignored:           make(map[string]struct{}, len(DefaultIgnoredKinds)),
		ignoreNonEditable: true,
		rootPackage:       DefaultRootPackage,
		logger:            slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, kind := range DefaultIgnoredKinds {
		p.ignored[kind] = struct{}{}
	}
	for _, opt := range options {
		if opt != nil {
			opt(p)
		}
	}
	if p.classifier == nil {
		p.classifier = NewClassifier(nil)
	}
	if p.registry == nil {
		reg, err := strategy.NewDefaultRegistry(nil, nil)
		if err != nil {
			return nil, fmt.Errorf("planner: default registry: %w", err)
		}
		p.registry = reg
	}
	return p, nil
}

// RootPackage returns the dotted package used for factory references.
func (p *Planner) RootPackage() string {
	return p.rootPackage
}

// Ignored reports whether field is skipped, given its classified kind.
func (p *Planner) Ignored(field model.Field, kind string) bool {
	if _, ok := p.ignored[kind]; ok {
		return true
	}
	return p.ignoreNonEditable && !field.Editable
}

// Plan builds the generation plan for m. Fields keep their declaration
// order. Any unknown kind, unresolvable parameter or render failure aborts
// the plan.
func (p *Planner) Plan(m model.Model) (Plan, error) {
	plan := Plan{Model: m}
	ctx := strategy.Context{Model: m, RootPackage: p.rootPackage}
	imports := []string{importLine(m.ModulePath() + "." + m.Name)}

	for _, field := range m.Fields {
		kind := p.classifier.Classify(field)
		if p.Ignored(field, kind) {
			p.logger.Debug("skip field", "model", m.Label(), "field", field.Name, "kind", kind)
			continue
		}

		s, err := p.registry.Lookup(kind)
		if err != nil {
			var lookup *strategy.LookupError
			if errors.As(err, &lookup) {
				return Plan{}, &strategy.LookupError{Kind: kind, Model: m.Label(), Field: field.Name}
			}
			return Plan{}, err
		}
		id, _ := p.registry.Resolve(kind)

		params, err := s.Parameters(field, ctx)
		if err != nil {
			return Plan{}, fmt.Errorf("planner: %s.%s: %w", m.Label(), field.Name, err)
		}

		entry := FieldPlan{
			Field:         field,
			Kind:          kind,
			StrategyID:    id,
			Strategy:      s,
			Params:        params,
			NeedsTimezone: s.NeedsTimezone(),
			Imports:       s.Imports(),
		}
		plan.Fields = append(plan.Fields, entry)

		if field.Unique {
			plan.Unique = append(plan.Unique, field.Name)
		}
		if field.HasChoices() {
			block, err := p.renderChoices(field)
			if err != nil {
				return Plan{}, fmt.Errorf("planner: %s.%s: %w", m.Label(), field.Name, err)
			}
			plan.Choices = append(plan.Choices, block)
		}
		if entry.NeedsTimezone {
			plan.NeedsTimezone = true
		}
		for _, path := range entry.Imports {
			imports = append(imports, importLine(path))
		}
	}

	if plan.NeedsTimezone {
		imports = append(imports, importLine("django.utils.timezone"))
	}
	slices.Sort(imports)
	plan.Imports = slices.Compact(imports)

	p.logger.Debug("planned model", "model", m.Label(), "fields", len(plan.Fields), "choices", len(plan.Choices))
	return plan, nil
}

func (p *Planner) renderChoices(field model.Field) (ChoiceBlock, error) {
	if p.renderer == nil {
		return ChoiceBlock{}, ErrRendererRequired
	}
	symbol := strategy.ChoiceSymbol(field.Name)
	choices := make([]map[string]any, 0, len(field.Choices))
	for _, choice := range field.Choices {
		choices = append(choices, map[string]any{
			"value": strategy.Literal(choice.Value),
			"label": strings.Join(strings.Fields(choice.Label), " "),
		})
	}
	source, err := p.renderer.RenderTemplate(TemplateChoicesList, map[string]any{
		"symbol":  symbol,
		"field":   field.Name,
		"choices": choices,
	})
	if err != nil {
		return ChoiceBlock{}, fmt.Errorf("render choices: %w", err)
	}
	return ChoiceBlock{Field: field.Name, Symbol: symbol, Source: source}, nil
}

// importLine converts a dotted path into an import statement: "a.b.c"
// becomes "from a.b import c" and "a" becomes "import a".
func importLine(path string) string {
	path = strings.Trim(strings.TrimSpace(path), ".")
	idx := strings.LastIndex(path, ".")
	if idx < 0 {
		return "import " + path
	}
	return "from " + path[:idx] + " import " + path[idx+1:]
}
