// Package config loads factorygen settings from .factorygen.yaml,
// FACTORYGEN_* environment variables and CLI flags through viper, and turns
// them into planner and emitter options.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/viper"

	"github.com/goliatone/go-factorygen/pkg/emitter"
	"github.com/goliatone/go-factorygen/pkg/planner"
	"github.com/goliatone/go-factorygen/pkg/strategy"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "FACTORYGEN"

// Settings holds all runtime configuration for a factorygen run.
type Settings struct {
	Source  string `mapstructure:"source"`
	Format  string `mapstructure:"format"`
	BaseDir string `mapstructure:"base_dir"`
	RootDir string `mapstructure:"root_dir"`
	// FieldFakerMap maps field kinds to strategy identifiers, overriding the
	// built-in table entry by entry.
	FieldFakerMap map[string]string `mapstructure:"field_faker_map"`
	// NormalizeFieldMap aliases custom field kinds to known ones.
	NormalizeFieldMap       map[string]string `mapstructure:"normalize_field_map"`
	IgnoreFields            []string          `mapstructure:"ignore_fields"`
	IgnoreNonEditableFields bool              `mapstructure:"ignore_non_editable_fields"`
	OnlyApps                []string          `mapstructure:"only_apps"`
	IgnoreApps              []string          `mapstructure:"ignore_apps"`
	DefaultApp              string            `mapstructure:"default_app"`
	Header                  string            `mapstructure:"header"`
	// TemplateDir holds .py-tpl files that replace the embedded templates
	// of the same name.
	TemplateDir string `mapstructure:"template_dir"`
	LogLevel    string `mapstructure:"log_level"`
	LogFormat   string `mapstructure:"log_format"`
}

// SetDefaults registers the built-in defaults on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("source", "")
	v.SetDefault("format", "")
	v.SetDefault("base_dir", ".")
	v.SetDefault("root_dir", emitter.DefaultRoot)
	v.SetDefault("field_faker_map", map[string]string{})
	v.SetDefault("normalize_field_map", map[string]string{})
	v.SetDefault("ignore_fields", []string{})
	v.SetDefault("ignore_non_editable_fields", true)
	v.SetDefault("only_apps", []string{})
	v.SetDefault("ignore_apps", []string{})
	v.SetDefault("default_app", "")
	v.SetDefault("header", "")
	v.SetDefault("template_dir", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
}

// Load reads configuration from the global viper instance, applying built-in
// defaults for any values not set by config file, environment, or flags.
func Load() (Settings, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom reads configuration from v.
func LoadFrom(v *viper.Viper) (Settings, error) {
	SetDefaults(v)

	var cfg Settings
	if err := v.Unmarshal(&cfg); err != nil {
		return Settings{}, fmt.Errorf("config: decode settings: %w", err)
	}
	cfg.normalize()
	if _, err := ParseLevel(cfg.LogLevel); err != nil {
		return Settings{}, err
	}
	switch cfg.LogFormat {
	case "text", "json":
	default:
		return Settings{}, fmt.Errorf("config: unknown log_format %q (want text or json)", cfg.LogFormat)
	}
	if err := cfg.Layout().Validate(); err != nil {
		return Settings{}, fmt.Errorf("config: root_dir: %w", err)
	}
	return cfg, nil
}

func (s *Settings) normalize() {
	s.Source = strings.TrimSpace(s.Source)
	s.Format = strings.ToLower(strings.TrimSpace(s.Format))
	s.LogLevel = strings.ToLower(strings.TrimSpace(s.LogLevel))
	s.LogFormat = strings.ToLower(strings.TrimSpace(s.LogFormat))
	s.IgnoreFields = compact(s.IgnoreFields)
	s.OnlyApps = compact(s.OnlyApps)
	s.IgnoreApps = compact(s.IgnoreApps)
}

// Layout returns the emitter layout described by the settings.
func (s Settings) Layout() emitter.Layout {
	return emitter.Layout{BaseDir: s.BaseDir, Root: s.RootDir}
}

// Registry builds the frozen kind registry: built-ins merged with
// FieldFakerMap.
func (s Settings) Registry() (*strategy.Registry, error) {
	reg, err := strategy.NewDefaultRegistry(nil, s.FieldFakerMap)
	if err != nil {
		return nil, fmt.Errorf("config: field_faker_map: %w", err)
	}
	return reg, nil
}

// EmitterOptions returns the emitter options described by the settings.
func (s Settings) EmitterOptions() []emitter.Option {
	return []emitter.Option{
		emitter.WithLayout(s.Layout()),
		emitter.WithHeader(s.Header),
		emitter.WithTemplateDir(s.TemplateDir),
	}
}

// PlannerOptions returns the planner options described by the settings. The
// registry is built here so an unresolvable field_faker_map entry surfaces
// before any file is written.
func (s Settings) PlannerOptions() ([]planner.Option, error) {
	reg, err := s.Registry()
	if err != nil {
		return nil, err
	}
	return []planner.Option{
		planner.WithRegistry(reg),
		planner.WithClassifier(planner.NewClassifier(s.NormalizeFieldMap)),
		planner.WithIgnoreKinds(s.IgnoreFields...),
		planner.WithIgnoreNonEditable(s.IgnoreNonEditableFields),
		planner.WithRootPackage(s.Layout().Package()),
	}, nil
}

// ParseLevel maps a log_level value to a slog level.
func ParseLevel(level string) (slog.Level, error) {
	var out slog.Level
	if err := out.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return slog.LevelInfo, fmt.Errorf("config: unknown log_level %q: %w", level, err)
	}
	return out, nil
}

func compact(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
