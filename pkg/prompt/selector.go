package prompt

import (
	"context"
	"fmt"
)

// AppSelector asks which apps to generate. All apps start checked. An empty
// selection is confirmed before it is returned, since it means nothing gets
// generated.
type AppSelector struct {
	driver Driver
}

// NewAppSelector builds a selector over driver; nil selects the survey
// driver.
func NewAppSelector(driver Driver) *AppSelector {
	if driver == nil {
		driver = NewSurveyDriver()
	}
	return &AppSelector{driver: driver}
}

// SelectApps returns the chosen labels in the order offered.
func (s *AppSelector) SelectApps(ctx context.Context, labels []string) ([]string, error) {
	if len(labels) == 0 {
		return nil, nil
	}
	defaults := make([]int, len(labels))
	for i := range labels {
		defaults[i] = i
	}

	for {
		picked, err := s.driver.MultiSelect(ctx, SelectConfig{
			Message:  "Generate factories for which apps?",
			Options:  labels,
			Defaults: defaults,
			Help:     "Space toggles an app, enter confirms.",
		})
		if err != nil {
			return nil, fmt.Errorf("prompt: select apps: %w", err)
		}
		if len(picked) > 0 {
			out := make([]string, 0, len(picked))
			for _, idx := range picked {
				if idx >= 0 && idx < len(labels) {
					out = append(out, labels[idx])
				}
			}
			return out, nil
		}

		skip, err := s.driver.Confirm(ctx, ConfirmConfig{
			Message: "No app selected. Skip generation?",
			Default: false,
		})
		if err != nil {
			return nil, fmt.Errorf("prompt: confirm empty selection: %w", err)
		}
		if skip {
			return nil, nil
		}
		defaults = nil
	}
}
