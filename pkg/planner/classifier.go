package planner

import (
	"maps"
	"strings"

	"github.com/goliatone/go-factorygen/pkg/model"
	"github.com/goliatone/go-factorygen/pkg/strategy"
)

// Classifier normalizes a field's declared kind into the kind used for
// registry lookups.
type Classifier struct {
	aliases map[string]string
	folded  map[string]string
}

// NewClassifier creates a classifier applying the given kind aliases, e.g.
// {"MoneyField": "DecimalField"}. Alias keys also match regardless of case.
func NewClassifier(aliases map[string]string) *Classifier {
	c := &Classifier{
		aliases: make(map[string]string, len(aliases)),
		folded:  make(map[string]string, len(aliases)),
	}
	for from, to := range aliases {
		from, to = strings.TrimSpace(from), strings.TrimSpace(to)
		if from == "" || to == "" {
			continue
		}
		c.aliases[from] = to
		c.folded[strings.ToLower(from)] = to
	}
	return c
}

// Classify returns the choice kind for fields with a choice set, then the
// alias for the declared kind, then the declared kind unchanged. Choice
// detection runs first so an integer or relationship field with choices
// still classifies as a choice.
func (c *Classifier) Classify(field model.Field) string {
	if field.HasChoices() {
		return strategy.KindChoice
	}
	if c != nil {
		if alias, ok := c.aliases[field.Kind]; ok {
			return alias
		}
		if alias, ok := c.folded[strings.ToLower(field.Kind)]; ok {
			return alias
		}
	}
	return field.Kind
}

// Aliases returns a copy of the alias table.
func (c *Classifier) Aliases() map[string]string {
	if c == nil {
		return map[string]string{}
	}
	return maps.Clone(c.aliases)
}
