package model

import (
	"fmt"
	"strings"
)

// IP protocol variants understood by GenericIPAddressField strategies.
const (
	ProtocolBoth = "both"
	ProtocolIPv4 = "IPv4"
	ProtocolIPv6 = "IPv6"
)

// Choice is a single (value, label) pair of an enumerated field.
type Choice struct {
	Value any    `json:"value" yaml:"value" toml:"value"`
	Label string `json:"label" yaml:"label" toml:"label"`
}

// Ref points at another model, usually the target of a relationship.
type Ref struct {
	App   string `json:"app" yaml:"app" toml:"app"`
	Model string `json:"model" yaml:"model" toml:"model"`
}

// String renders the reference as "app.Model".
func (r Ref) String() string {
	if r.App == "" {
		return r.Model
	}
	return r.App + "." + r.Model
}

// Field describes one model field as reported by the host introspection layer.
type Field struct {
	Name          string   `json:"name"`
	Kind          string   `json:"kind"`
	Null          bool     `json:"null,omitempty"`
	Editable      bool     `json:"editable"`
	Unique        bool     `json:"unique,omitempty"`
	MaxLength     int      `json:"max_length,omitempty"`
	MaxDigits     int      `json:"max_digits,omitempty"`
	DecimalPlaces int      `json:"decimal_places,omitempty"`
	Choices       []Choice `json:"choices,omitempty"`
	Related       *Ref     `json:"related,omitempty"`
	Protocol      string   `json:"protocol,omitempty"`
}

// HasChoices reports whether the field declares a non-empty choice set.
func (f Field) HasChoices() bool {
	return len(f.Choices) > 0
}

// Model is a host data model owned by one App.
type Model struct {
	Name string `json:"name"`
	App  string `json:"app"`
	// Module is the dotted import path of the module declaring the model
	// class, e.g. "shop.models".
	Module string  `json:"module,omitempty"`
	Fields []Field `json:"fields,omitempty"`
}

// Label returns "app.Model", the identity used in errors and logs.
func (m Model) Label() string {
	return Ref{App: m.App, Model: m.Name}.String()
}

// ModulePath returns the declared module or the conventional "<app>.models".
func (m Model) ModulePath() string {
	if strings.TrimSpace(m.Module) != "" {
		return m.Module
	}
	if m.App == "" {
		return "models"
	}
	return m.App + ".models"
}

// Field looks up a field by name.
func (m Model) Field(name string) (Field, bool) {
	for _, field := range m.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// App is a sub-application grouping models that share one namespace.
type App struct {
	Label  string  `json:"label"`
	Models []Model `json:"models,omitempty"`
}

// Catalog is the full set of apps reported by the host.
type Catalog struct {
	Apps []App `json:"apps,omitempty"`
}

// App returns the app with the given label.
func (c Catalog) App(label string) (App, bool) {
	for _, app := range c.Apps {
		if app.Label == label {
			return app, true
		}
	}
	return App{}, false
}

// Labels lists app labels in declaration order.
func (c Catalog) Labels() []string {
	labels := make([]string, 0, len(c.Apps))
	for _, app := range c.Apps {
		labels = append(labels, app.Label)
	}
	return labels
}

// Validate checks the structural invariants the planner relies on: unique
// app labels, unique model names per app, named fields with a kind, and
// relationship fields pointing at a model.
func (c Catalog) Validate() error {
	apps := make(map[string]struct{}, len(c.Apps))
	for _, app := range c.Apps {
		if strings.TrimSpace(app.Label) == "" {
			return fmt.Errorf("model: app label is required")
		}
		if _, exists := apps[app.Label]; exists {
			return fmt.Errorf("model: duplicate app %q", app.Label)
		}
		apps[app.Label] = struct{}{}

		models := make(map[string]struct{}, len(app.Models))
		for _, m := range app.Models {
			if strings.TrimSpace(m.Name) == "" {
				return fmt.Errorf("model: app %q declares a model without a name", app.Label)
			}
			if _, exists := models[m.Name]; exists {
				return fmt.Errorf("model: app %q declares model %q twice", app.Label, m.Name)
			}
			models[m.Name] = struct{}{}
			if err := m.validateFields(); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m Model) validateFields() error {
	seen := make(map[string]struct{}, len(m.Fields))
	for idx, field := range m.Fields {
		if strings.TrimSpace(field.Name) == "" {
			return fmt.Errorf("model: %s field at index %d has no name", m.Label(), idx)
		}
		if strings.TrimSpace(field.Kind) == "" {
			return fmt.Errorf("model: %s field %q has no kind", m.Label(), field.Name)
		}
		if _, exists := seen[field.Name]; exists {
			return fmt.Errorf("model: %s declares field %q twice", m.Label(), field.Name)
		}
		seen[field.Name] = struct{}{}
		if field.Related != nil && strings.TrimSpace(field.Related.Model) == "" {
			return fmt.Errorf("model: %s field %q references an empty model", m.Label(), field.Name)
		}
	}
	return nil
}
