package emitter

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/goliatone/go-factorygen/pkg/planner"
	"github.com/goliatone/go-factorygen/pkg/render/template"
	"github.com/goliatone/go-factorygen/pkg/render/template/gotemplate"
	"github.com/goliatone/go-factorygen/pkg/strategy"
)

// Version is stamped into the header of every generated module.
const Version = "0.3.0"

// Option customises an Emitter.
type Option func(*Emitter)

// WithRenderer overrides the renderer built from the embedded templates.
func WithRenderer(r template.TemplateRenderer) Option {
	return func(e *Emitter) {
		if r != nil {
			e.renderer = r
		}
	}
}

// WithTemplateDir searches dir before the embedded templates, so a file
// named like a built-in template replaces it. Ignored with WithRenderer.
func WithTemplateDir(dir string) Option {
	return func(e *Emitter) {
		e.templateDir = strings.TrimSpace(dir)
	}
}

// WithLayout sets the output layout.
func WithLayout(layout Layout) Option {
	return func(e *Emitter) {
		e.layout = layout
	}
}

// WithHeader adds extra comment lines (a license notice, say) above the
// generated header of every module.
func WithHeader(header string) Option {
	return func(e *Emitter) {
		e.header = strings.TrimSpace(header)
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Emitter) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// IndexEntry is one import line of an app index module.
type IndexEntry struct {
	Module  string `json:"module"`
	Factory string `json:"factory"`
}

// Emitter renders plans and index files.
type Emitter struct {
	renderer    template.TemplateRenderer
	templateDir string
	layout      Layout
	header      string
	logger      *slog.Logger
}

// New constructs an Emitter. Without WithRenderer a pongo2 engine over
// TemplatesFS is created.
func New(options ...Option) (*Emitter, error) {
	e := &Emitter{
		layout: Layout{Root: DefaultRoot},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range options {
		if opt != nil {
			opt(e)
		}
	}
	if err := e.layout.Validate(); err != nil {
		return nil, err
	}
	if e.renderer == nil {
		var opts []gotemplate.Option
		if e.templateDir != "" {
			opts = append(opts, gotemplate.WithBaseDir(e.templateDir))
		}
		engine, err := NewRenderer(opts...)
		if err != nil {
			return nil, err
		}
		e.renderer = engine
	}
	return e, nil
}

// NewRenderer builds the pongo2 engine over the embedded templates.
func NewRenderer(options ...gotemplate.Option) (*gotemplate.Engine, error) {
	opts := append([]gotemplate.Option{gotemplate.WithFS(TemplatesFS())}, options...)
	engine, err := gotemplate.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("emitter: template engine: %w", err)
	}
	return engine, nil
}

// Layout returns the configured layout.
func (e *Emitter) Layout() Layout {
	return e.layout
}

// Renderer returns the renderer used for every template.
func (e *Emitter) Renderer() template.TemplateRenderer {
	return e.renderer
}

// Emit renders the base and override artifacts of one model plan.
func (e *Emitter) Emit(plan planner.Plan) (Artifact, Artifact, error) {
	m := plan.Model
	app := m.App
	baseName := m.Name + "FactoryBase"

	fields := make([]string, 0, len(plan.Fields))
	for _, entry := range plan.Fields {
		source, err := e.renderField(entry)
		if err != nil {
			return Artifact{}, Artifact{}, fmt.Errorf("emitter: %s.%s: %w", m.Label(), entry.Field.Name, err)
		}
		fields = append(fields, source)
	}
	choices := make([]string, 0, len(plan.Choices))
	for _, block := range plan.Choices {
		choices = append(choices, block.Source)
	}

	baseText, err := e.renderer.RenderTemplate(TemplateBaseFactory, map[string]any{
		"header":            e.fileHeader("Do not edit: this module is rewritten on every run."),
		"imports":           plan.Imports,
		"choices":           choices,
		"factory_base_name": baseName,
		"model_name":        m.Name,
		"unique":            plan.UniqueKwargs(),
		"fields":            fields,
	})
	if err != nil {
		return Artifact{}, Artifact{}, fmt.Errorf("emitter: render base factory for %s: %w", m.Label(), err)
	}

	overrideText, err := e.renderer.RenderTemplate(TemplateFactory, map[string]any{
		"header":            e.fileHeader("Edit freely: this module is never overwritten."),
		"factory_module":    e.layout.BaseModule(app, m.Name),
		"factory_base_name": baseName,
		"factory_name":      m.Name + "Factory",
	})
	if err != nil {
		return Artifact{}, Artifact{}, fmt.Errorf("emitter: render factory for %s: %w", m.Label(), err)
	}

	base := Artifact{Path: e.layout.BaseFile(app, m.Name), Text: baseText, Policy: AlwaysOverwrite}
	override := Artifact{Path: e.layout.OverrideFile(app, m.Name), Text: overrideText, Policy: CreateIfAbsent}
	return base, override, nil
}

func (e *Emitter) renderField(entry planner.FieldPlan) (string, error) {
	name := strategy.TemplateField
	if entry.Strategy != nil {
		name = entry.Strategy.Template()
	}
	class := ""
	if entry.Strategy != nil {
		class = entry.Strategy.FakerClass()
	}
	return e.renderer.RenderTemplate(name, map[string]any{
		"name":        entry.Field.Name,
		"faker_class": class,
		"params":      entry.Arguments(),
		"kind":        entry.Kind,
	})
}

// IndexEntryFor returns the index import of a model's override factory.
func (e *Emitter) IndexEntryFor(app, modelName string) IndexEntry {
	return IndexEntry{
		Module:  e.layout.OverrideModule(app, modelName),
		Factory: modelName + "Factory",
	}
}

// EmitIndex renders the app index module. The boolean is false, and no
// artifact is produced, when entries is empty.
func (e *Emitter) EmitIndex(app string, entries []IndexEntry) (Artifact, bool, error) {
	if len(entries) == 0 {
		return Artifact{}, false, nil
	}
	text, err := e.renderer.RenderTemplate(TemplateAppInit, map[string]any{
		"header":  e.fileHeader("Rewritten on every run."),
		"imports": entries,
	})
	if err != nil {
		return Artifact{}, false, fmt.Errorf("emitter: render index for %s: %w", app, err)
	}
	return Artifact{Path: e.layout.AppInit(app), Text: text, Policy: AlwaysOverwrite}, true, nil
}

// Bootstrap prepares the directories of app. Marker __init__.py files for the
// root and base directories are written only when the directory itself is
// created, so user edits to them survive.
func (e *Emitter) Bootstrap(app string) error {
	created, err := ensureDir(e.layout.RootDir())
	if err != nil {
		return err
	}
	if created {
		if _, err := e.Place(Artifact{Path: e.layout.RootInit(), Policy: CreateIfAbsent}); err != nil {
			return err
		}
	}
	if _, err := ensureDir(e.layout.AppDir(app)); err != nil {
		return err
	}
	created, err = ensureDir(e.layout.AppBaseDir(app))
	if err != nil {
		return err
	}
	if created {
		if _, err := e.Place(Artifact{Path: e.layout.AppBaseInit(app), Policy: CreateIfAbsent}); err != nil {
			return err
		}
	}
	return nil
}

// Place writes a through the package-level Place and logs the outcome.
func (e *Emitter) Place(a Artifact) (bool, error) {
	written, err := Place(a)
	if err != nil {
		return false, err
	}
	e.logger.Debug("place artifact", "path", a.Path, "policy", a.Policy.String(), "written", written)
	return written, nil
}

func (e *Emitter) fileHeader(note string) string {
	lines := make([]string, 0, 4)
	if e.header != "" {
		for _, line := range strings.Split(e.header, "\n") {
			line = strings.TrimRight(line, " \t\r")
			switch {
			case line == "":
				lines = append(lines, "#")
			case strings.HasPrefix(line, "#"):
				lines = append(lines, line)
			default:
				lines = append(lines, "# "+line)
			}
		}
	}
	lines = append(lines, fmt.Sprintf("# Generated by factorygen %s. %s", Version, note))
	return strings.Join(lines, "\n")
}
