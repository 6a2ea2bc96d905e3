package orchestrator

import (
	"context"
	"log/slog"

	"github.com/goliatone/go-factorygen/pkg/emitter"
	"github.com/goliatone/go-factorygen/pkg/model"
)

// generateApp writes the factories of one app and then its index. An app
// without models is skipped entirely: no directories and no index.
func (o *Orchestrator) generateApp(ctx context.Context, logger *slog.Logger, app model.App) (AppResult, error) {
	result := AppResult{Label: app.Label}
	if len(app.Models) == 0 {
		logger.Debug("skip empty app", "app", app.Label)
		return result, nil
	}
	if err := o.emitter.Bootstrap(app.Label); err != nil {
		return result, err
	}

	entries := make([]emitter.IndexEntry, 0, len(app.Models))
	for _, m := range app.Models {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		plan, err := o.planner.Plan(m)
		if err != nil {
			return result, err
		}
		base, override, err := o.emitter.Emit(plan)
		if err != nil {
			return result, err
		}
		if err := o.place(&result, base); err != nil {
			return result, err
		}
		created := len(result.Written)
		if err := o.place(&result, override); err != nil {
			return result, err
		}
		if len(result.Written) > created {
			result.Created = append(result.Created, override.Path)
		}
		result.Factories = append(result.Factories, override.Path)
		entries = append(entries, o.emitter.IndexEntryFor(app.Label, m.Name))
		logger.Debug("model generated", "model", m.Label(), "fields", len(plan.Fields))
	}

	index, ok, err := o.emitter.EmitIndex(app.Label, entries)
	if err != nil {
		return result, err
	}
	if ok {
		if err := o.place(&result, index); err != nil {
			return result, err
		}
		result.Index = index.Path
	}
	logger.Info("app generated", "app", app.Label, "models", len(app.Models), "created", len(result.Created))
	return result, nil
}

func (o *Orchestrator) place(result *AppResult, artifact emitter.Artifact) error {
	written, err := o.emitter.Place(artifact)
	if err != nil {
		return err
	}
	if written {
		result.Written = append(result.Written, artifact.Path)
		result.Bytes += int64(len(artifact.Text))
	}
	return nil
}
