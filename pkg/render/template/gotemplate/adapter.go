package gotemplate

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/flosch/pongo2/v6"
	gotemplatepkg "github.com/goliatone/go-template"

	"github.com/goliatone/go-factorygen/pkg/render/template"
)

// DefaultExtension is appended to template names that carry no extension.
const DefaultExtension = ".py-tpl"

// Option configures the go-template adapter before construction.
type Option func(*config)

type config struct {
	baseDir    string
	templates  fs.FS
	extension  string
	globalData map[string]any
}

// WithBaseDir loads templates from a directory on disk. When combined with
// WithFS the directory is searched first, so a file there shadows the
// embedded template of the same name.
func WithBaseDir(dir string) Option {
	return func(cfg *config) {
		cfg.baseDir = strings.TrimSpace(dir)
	}
}

// WithFS loads templates from an fs.FS.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templates = files
	}
}

// WithExtension overrides DefaultExtension.
func WithExtension(ext string) Option {
	return func(cfg *config) {
		if ext = strings.TrimSpace(ext); ext != "" {
			cfg.extension = ext
		}
	}
}

// WithGlobalData seeds values available to every template.
func WithGlobalData(data map[string]any) Option {
	return func(cfg *config) {
		if cfg.globalData == nil {
			cfg.globalData = make(map[string]any, len(data))
		}
		for key, value := range data {
			cfg.globalData[strings.TrimSpace(key)] = value
		}
	}
}

// Engine satisfies template.TemplateRenderer with a go-template engine.
// Templates use Django syntax and wrap their body in
// {% autoescape off %} since the output is Python source. Context values go
// through a JSON round-trip, so numbers arrive as float64.
type Engine struct {
	engine *gotemplatepkg.Engine
}

var (
	_ template.TemplateRenderer = (*Engine)(nil)
	_ gotemplatepkg.Renderer    = (*Engine)(nil)
)

// New constructs an Engine. One of WithBaseDir or WithFS is required.
func New(options ...Option) (*Engine, error) {
	cfg := &config{extension: DefaultExtension}
	for _, opt := range options {
		if opt != nil {
			opt(cfg)
		}
	}
	if cfg.baseDir == "" && cfg.templates == nil {
		return nil, errors.New("gotemplate: need to provide either base dir or fs.FS")
	}

	opts := []gotemplatepkg.Option{
		gotemplatepkg.WithExtension(cfg.extension),
		gotemplatepkg.WithTemplateFunc(map[string]any{
			"indent": pongo2.FilterFunction(filterIndent),
		}),
	}
	if cfg.baseDir != "" {
		opts = append(opts, gotemplatepkg.WithBaseDir(cfg.baseDir))
	}
	if cfg.templates != nil {
		opts = append(opts, gotemplatepkg.WithFS(cfg.templates))
	}
	if len(cfg.globalData) > 0 {
		opts = append(opts, gotemplatepkg.WithGlobalData(cfg.globalData))
	}

	engine, err := gotemplatepkg.NewRenderer(opts...)
	if err != nil {
		return nil, fmt.Errorf("gotemplate: %w", err)
	}
	return &Engine{engine: engine}, nil
}

// Render treats name as inline template source when it contains template
// tags and as a template name otherwise.
func (e *Engine) Render(name string, data any, out ...io.Writer) (string, error) {
	if err := e.ready(); err != nil {
		return "", err
	}
	return wrap(e.engine.Render(name, data, out...))
}

// RenderTemplate renders a named template, appending the configured
// extension when missing. Parsed templates are cached by the engine.
func (e *Engine) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	if err := e.ready(); err != nil {
		return "", err
	}
	return wrap(e.engine.RenderTemplate(name, data, out...))
}

// RenderString parses and renders inline template source.
func (e *Engine) RenderString(templateContent string, data any, out ...io.Writer) (string, error) {
	if err := e.ready(); err != nil {
		return "", err
	}
	return wrap(e.engine.RenderString(templateContent, data, out...))
}

// RegisterFilter registers a filter. pongo2 filters are process-wide, so
// registering a name twice is an error.
func (e *Engine) RegisterFilter(name string, fn func(input any, param any) (any, error)) error {
	if err := e.ready(); err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	if name == "" || fn == nil {
		return errors.New("gotemplate: filter name and function required")
	}
	if err := e.engine.RegisterFilter(name, fn); err != nil {
		return fmt.Errorf("gotemplate: %w", err)
	}
	return nil
}

// GlobalContext merges data into the values every template sees.
func (e *Engine) GlobalContext(data any) error {
	if err := e.ready(); err != nil {
		return err
	}
	if data == nil {
		return nil
	}
	if err := e.engine.GlobalContext(data); err != nil {
		return fmt.Errorf("gotemplate: %w", err)
	}
	return nil
}

func (e *Engine) ready() error {
	if e == nil || e.engine == nil {
		return errors.New("gotemplate: engine is nil")
	}
	return nil
}

func wrap(out string, err error) (string, error) {
	if err != nil {
		return "", fmt.Errorf("gotemplate: %w", err)
	}
	return out, nil
}

// filterIndent prefixes every non-blank line with param spaces (default 4).
func filterIndent(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if in.Len() <= 0 {
		return pongo2.AsValue(""), nil
	}
	width := 4
	if param != nil && !param.IsNil() {
		width = max(param.Integer(), 0)
	}
	pad := strings.Repeat(" ", width)
	lines := strings.Split(in.String(), "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) != "" {
			lines[i] = pad + line
		}
	}
	return pongo2.AsValue(strings.Join(lines, "\n")), nil
}
