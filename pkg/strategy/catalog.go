package strategy

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNotFound is the cause wrapped by ResolutionError when an identifier is
// not present in the catalog.
var ErrNotFound = errors.New("identifier not found")

// Catalog stores Strategy implementations by identifier. Registries map
// kinds onto identifiers and resolve them here, which keeps configuration
// (plain strings) separate from implementations.
type Catalog struct {
	strategies map[string]Strategy
}

// NewCatalog creates a catalog holding the built-in strategies.
func NewCatalog() *Catalog {
	c := &Catalog{strategies: make(map[string]Strategy)}
	for _, s := range Builtins() {
		c.MustAdd(s)
	}
	return c
}

// NewEmptyCatalog creates a catalog without any strategies.
func NewEmptyCatalog() *Catalog {
	return &Catalog{strategies: make(map[string]Strategy)}
}

// Add stores a strategy under its Name(). Specs are validated first; a later
// Add with the same name replaces the earlier one.
func (c *Catalog) Add(s Strategy) error {
	if s == nil {
		return errors.New("strategy: strategy is required")
	}
	name := strings.TrimSpace(s.Name())
	if name == "" {
		return errors.New("strategy: strategy name is required")
	}
	if spec, ok := s.(*Spec); ok {
		if err := spec.Validate(); err != nil {
			return err
		}
	}
	c.strategies[name] = s
	return nil
}

// MustAdd panics when Add fails. Useful for init-time wiring.
func (c *Catalog) MustAdd(s Strategy) {
	if err := c.Add(s); err != nil {
		panic(err)
	}
}

// Resolve returns the strategy stored under id. Failures are always reported
// as a ResolutionError naming the identifier.
func (c *Catalog) Resolve(id string) (Strategy, error) {
	key := strings.TrimSpace(id)
	if key == "" {
		return nil, &ResolutionError{Identifier: id, Cause: errors.New("identifier is empty")}
	}
	if c == nil {
		return nil, &ResolutionError{Identifier: id, Cause: errors.New("catalog is nil")}
	}
	s, ok := c.strategies[key]
	if !ok {
		return nil, &ResolutionError{Identifier: id, Cause: fmt.Errorf("%w in catalog", ErrNotFound)}
	}
	return s, nil
}

// IDs returns the sorted identifiers held by the catalog.
func (c *Catalog) IDs() []string {
	ids := make([]string, 0, len(c.strategies))
	for id := range c.strategies {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
