package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-factorygen/pkg/model"
	"github.com/goliatone/go-factorygen/pkg/schema"
)

// catalog returns the request catalog, loading and adapting the source
// document when the caller did not supply one.
func (o *Orchestrator) catalog(ctx context.Context, req Request) (model.Catalog, error) {
	if req.Catalog != nil {
		if err := req.Catalog.Validate(); err != nil {
			return model.Catalog{}, fmt.Errorf("orchestrator: %w", err)
		}
		return *req.Catalog, nil
	}

	doc, err := o.resolveDocument(ctx, req)
	if err != nil {
		return model.Catalog{}, err
	}
	adapter, err := o.resolveAdapter(req.Format, doc)
	if err != nil {
		return model.Catalog{}, err
	}
	o.logger.Debug("adapter selected", "adapter", adapter.Name(), "source", doc.Location())

	catalog, err := adapter.Catalog(ctx, doc)
	if err != nil {
		return model.Catalog{}, fmt.Errorf("orchestrator: introspect %s: %w", doc.Location(), err)
	}
	return catalog, nil
}

func (o *Orchestrator) resolveDocument(ctx context.Context, req Request) (schema.Document, error) {
	if req.Document != nil {
		return *req.Document, nil
	}
	if req.Source == nil {
		return schema.Document{}, errors.New("orchestrator: source, document or catalog is required")
	}
	if o.loader == nil {
		return schema.Document{}, errors.New("orchestrator: loader is nil")
	}
	doc, err := o.loader.Load(ctx, req.Source)
	if err != nil {
		return schema.Document{}, fmt.Errorf("orchestrator: load document: %w", err)
	}
	return doc, nil
}

func (o *Orchestrator) resolveAdapter(format string, doc schema.Document) (schema.Adapter, error) {
	if o.adapterRegistry == nil {
		return nil, errors.New("orchestrator: adapter registry is nil")
	}

	if format = strings.TrimSpace(format); format != "" {
		return o.adapterRegistry.Get(format)
	}

	matches := o.adapterRegistry.Detect(doc)
	switch len(matches) {
	case 0:
		if o.defaultAdapter == "" {
			return nil, fmt.Errorf("orchestrator: unable to detect format of %s", doc.Location())
		}
		return o.adapterRegistry.Get(o.defaultAdapter)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("orchestrator: multiple adapters matched %s (%s), specify format", doc.Location(), formatAdapterNames(matches))
	}
}

func formatAdapterNames(adapters []schema.Adapter) string {
	names := make([]string, 0, len(adapters))
	for _, adapter := range adapters {
		if adapter == nil {
			continue
		}
		if name := strings.TrimSpace(adapter.Name()); name != "" {
			names = append(names, name)
		}
	}
	return strings.Join(names, ", ")
}
