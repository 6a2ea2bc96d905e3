package manifest

type documentFile struct {
	Apps []appFile `json:"apps" yaml:"apps" toml:"apps"`
}

type appFile struct {
	Label  string      `json:"label" yaml:"label" toml:"label"`
	Models []modelFile `json:"models" yaml:"models" toml:"models"`
}

type modelFile struct {
	Name   string      `json:"name" yaml:"name" toml:"name"`
	Module string      `json:"module" yaml:"module" toml:"module"`
	Fields []fieldFile `json:"fields" yaml:"fields" toml:"fields"`
}

type fieldFile struct {
	Name string `json:"name" yaml:"name" toml:"name"`
	Kind string `json:"kind" yaml:"kind" toml:"kind"`
	Null bool   `json:"null" yaml:"null" toml:"null"`
	// Nullable is an alias of Null; YAML resolves an unquoted null key to
	// the null scalar, so YAML manifests use this spelling.
	Nullable      bool  `json:"nullable" yaml:"nullable" toml:"nullable"`
	Editable      *bool `json:"editable" yaml:"editable" toml:"editable"`
	Unique        bool  `json:"unique" yaml:"unique" toml:"unique"`
	MaxLength     int   `json:"max_length" yaml:"max_length" toml:"max_length"`
	MaxDigits     int   `json:"max_digits" yaml:"max_digits" toml:"max_digits"`
	DecimalPlaces int   `json:"decimal_places" yaml:"decimal_places" toml:"decimal_places"`
	// Choices accepts [value, label] pairs, {value, label} objects or bare
	// values.
	Choices  []any  `json:"choices" yaml:"choices" toml:"choices"`
	Related  string `json:"related" yaml:"related" toml:"related"`
	Protocol string `json:"protocol" yaml:"protocol" toml:"protocol"`
}
