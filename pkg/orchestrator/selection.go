package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-factorygen/pkg/model"
)

// Selector narrows the app list interactively. It receives labels in
// catalog order and returns the chosen subset.
type Selector interface {
	SelectApps(ctx context.Context, labels []string) ([]string, error)
}

// SelectorFunc adapts a function to Selector.
type SelectorFunc func(ctx context.Context, labels []string) ([]string, error)

// SelectApps implements Selector.
func (f SelectorFunc) SelectApps(ctx context.Context, labels []string) ([]string, error) {
	return f(ctx, labels)
}

// FilterApps applies the allow and deny lists. A non-empty allow list wins:
// the deny list is then ignored.
func FilterApps(apps []model.App, only, ignore []string) []model.App {
	allow := labelSet(only)
	deny := labelSet(ignore)

	out := make([]model.App, 0, len(apps))
	for _, app := range apps {
		if len(allow) > 0 {
			if _, ok := allow[app.Label]; !ok {
				continue
			}
		} else if _, ok := deny[app.Label]; ok {
			continue
		}
		out = append(out, app)
	}
	return out
}

func (o *Orchestrator) selectApps(ctx context.Context, catalog model.Catalog, req Request) ([]model.App, error) {
	apps := FilterApps(catalog.Apps, req.OnlyApps, req.IgnoreApps)
	if o.selector == nil || len(apps) == 0 {
		return apps, nil
	}

	labels := make([]string, 0, len(apps))
	for _, app := range apps {
		labels = append(labels, app.Label)
	}
	chosen, err := o.selector.SelectApps(ctx, labels)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: select apps: %w", err)
	}
	if len(chosen) == 0 {
		return nil, nil
	}
	return FilterApps(apps, chosen, nil), nil
}

func labelSet(labels []string) map[string]struct{} {
	set := make(map[string]struct{}, len(labels))
	for _, label := range labels {
		if label = strings.TrimSpace(label); label != "" {
			set[label] = struct{}{}
		}
	}
	return set
}
