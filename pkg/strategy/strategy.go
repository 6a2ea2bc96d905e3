package strategy

import (
	"fmt"
	"slices"
	"strings"

	"github.com/goliatone/go-factorygen/pkg/model"
)

// Template identifiers for the field-level templates a Strategy may select.
const (
	TemplateField      = "field"
	TemplateManyToMany = "manytomany"
)

// Context carries the per-model information a Provider may need beyond the
// field itself.
type Context struct {
	Model model.Model
	// RootPackage is the dotted package holding all generated factories,
	// used to build cross-model factory references.
	RootPackage string
}

// Strategy computes how one value is generated for a field.
type Strategy interface {
	// Name identifies the strategy in errors and registry listings.
	Name() string
	// FakerClass is the factory declaration used for the field. An empty
	// class means the strategy defers entirely to its template.
	FakerClass() string
	// Template names the field template rendering the declaration.
	Template() string
	// Parameters resolves the keyword arguments for the faker class.
	Parameters(field model.Field, ctx Context) (Params, error)
	// NeedsTimezone reports whether generated values require timezone
	// support in the emitted module.
	NeedsTimezone() bool
	// Imports lists dotted import paths the emitted module needs.
	Imports() []string
}

// Provider computes one parameter value from the field being planned.
type Provider func(field model.Field, ctx Context) (any, error)

// Spec is the declarative Strategy implementation used by every built-in
// variant. Required parameters resolve through Providers first and Attrs
// second; Unquoted names are emitted as raw expressions.
type Spec struct {
	ID          string
	Class       string
	Tmpl        string
	Required    []string
	Attrs       map[string]any
	Providers   map[string]Provider
	Unquoted    []string
	Timezone    bool
	ImportPaths []string
}

var _ Strategy = (*Spec)(nil)

// Name implements Strategy.
func (s *Spec) Name() string {
	return s.ID
}

// FakerClass implements Strategy.
func (s *Spec) FakerClass() string {
	return s.Class
}

// Template implements Strategy.
func (s *Spec) Template() string {
	if s.Tmpl == "" {
		return TemplateField
	}
	return s.Tmpl
}

// NeedsTimezone implements Strategy.
func (s *Spec) NeedsTimezone() bool {
	return s.Timezone
}

// Imports implements Strategy.
func (s *Spec) Imports() []string {
	return slices.Clone(s.ImportPaths)
}

// Validate checks that every required parameter has a provider or an
// attribute. Registries call it before accepting a Spec so authoring
// mistakes fail at construction time.
func (s *Spec) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return fmt.Errorf("strategy: spec id is required")
	}
	for _, name := range s.Required {
		if _, ok := s.Providers[name]; ok {
			continue
		}
		if _, ok := s.Attrs[name]; ok {
			continue
		}
		return &ConfigurationError{Parameter: name, Strategy: s.ID}
	}
	return nil
}

// Parameters implements Strategy.
func (s *Spec) Parameters(field model.Field, ctx Context) (Params, error) {
	if len(s.Required) == 0 {
		return nil, nil
	}
	params := make(Params, 0, len(s.Required))
	for _, name := range s.Required {
		value, err := s.resolve(name, field, ctx)
		if err != nil {
			return nil, err
		}
		params = append(params, Param{
			Name:  name,
			Value: value,
			Raw:   slices.Contains(s.Unquoted, name),
		})
	}
	return params, nil
}

func (s *Spec) resolve(name string, field model.Field, ctx Context) (any, error) {
	if provider, ok := s.Providers[name]; ok && provider != nil {
		value, err := provider(field, ctx)
		if err != nil {
			return nil, fmt.Errorf("strategy: %s parameter %q for field %q: %w", s.ID, name, field.Name, err)
		}
		return value, nil
	}
	if value, ok := s.Attrs[name]; ok {
		return value, nil
	}
	return nil, &ConfigurationError{Parameter: name, Strategy: s.ID}
}
