package strategy

import (
	"sort"
	"strings"
)

// Registry maps normalized field kinds onto strategies. It is built once per
// run, frozen, and then only read; it is not safe for concurrent Register
// calls. Lookups fall back to a case-insensitive match, so "slugfield" finds
// "SlugField" when no exact entry exists.
type Registry struct {
	catalog    *Catalog
	ids        map[string]string
	strategies map[string]Strategy
	folded     map[string]string
	frozen     bool
}

// NewRegistry creates an empty, unfrozen registry resolving identifiers
// against catalog. A nil catalog falls back to the built-in one.
func NewRegistry(catalog *Catalog) *Registry {
	if catalog == nil {
		catalog = NewCatalog()
	}
	return &Registry{
		catalog:    catalog,
		ids:        make(map[string]string),
		strategies: make(map[string]Strategy),
		folded:     make(map[string]string),
	}
}

// NewDefaultRegistry merges the built-in kind table with overrides, override
// entries replacing built-in entries of the same kind wholesale, and returns
// the frozen result. Override kinds matching a built-in kind up to case
// replace it. Every identifier is resolved eagerly so a bad override fails
// before planning starts.
func NewDefaultRegistry(catalog *Catalog, overrides map[string]string) (*Registry, error) {
	r := NewRegistry(catalog)
	merged := DefaultKinds()
	builtin := make(map[string]string, len(merged))
	for kind := range merged {
		builtin[strings.ToLower(kind)] = kind
	}
	for kind, id := range overrides {
		kind = strings.TrimSpace(kind)
		if canonical, ok := builtin[strings.ToLower(kind)]; ok {
			kind = canonical
		}
		merged[kind] = id
	}
	kinds := make([]string, 0, len(merged))
	for kind := range merged {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	for _, kind := range kinds {
		if err := r.Register(kind, merged[kind]); err != nil {
			return nil, err
		}
	}
	r.Freeze()
	return r, nil
}

// Register maps kind onto the strategy identified by id, replacing any
// previous mapping. It fails once the registry is frozen or when id cannot
// be resolved.
func (r *Registry) Register(kind, id string) error {
	if r.frozen {
		return ErrFrozen
	}
	kind = strings.TrimSpace(kind)
	if kind == "" {
		return &ResolutionError{Identifier: id, Cause: ErrUnknownKind}
	}
	s, err := r.catalog.Resolve(id)
	if err != nil {
		return err
	}
	r.ids[kind] = strings.TrimSpace(id)
	r.strategies[kind] = s
	r.folded[strings.ToLower(kind)] = kind
	return nil
}

// Freeze prevents further registrations.
func (r *Registry) Freeze() {
	r.frozen = true
}

// Frozen reports whether the registry still accepts registrations.
func (r *Registry) Frozen() bool {
	return r.frozen
}

// Resolve returns the strategy identifier registered for kind.
func (r *Registry) Resolve(kind string) (string, error) {
	id, ok := r.ids[r.canonical(kind)]
	if !ok {
		return "", &LookupError{Kind: kind}
	}
	return id, nil
}

// Lookup returns the strategy registered for kind.
func (r *Registry) Lookup(kind string) (Strategy, error) {
	s, ok := r.strategies[r.canonical(kind)]
	if !ok {
		return nil, &LookupError{Kind: kind}
	}
	return s, nil
}

// Has reports whether kind is registered.
func (r *Registry) Has(kind string) bool {
	_, ok := r.ids[r.canonical(kind)]
	return ok
}

// Kinds returns the sorted registered kinds.
func (r *Registry) Kinds() []string {
	kinds := make([]string, 0, len(r.ids))
	for kind := range r.ids {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}

// Strategies returns the sorted identifiers a kind can be mapped to.
func (r *Registry) Strategies() []string {
	return r.catalog.IDs()
}

func (r *Registry) canonical(kind string) string {
	if _, ok := r.ids[kind]; ok {
		return kind
	}
	if folded, ok := r.folded[strings.ToLower(kind)]; ok {
		return folded
	}
	return kind
}
