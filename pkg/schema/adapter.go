package schema

import (
	"context"

	"github.com/goliatone/go-factorygen/pkg/model"
)

// Adapter converts a loaded Document into the model catalog consumed by the
// planner. Detect is used when the caller does not name a format.
type Adapter interface {
	Name() string
	Detect(doc Document) bool
	Catalog(ctx context.Context, doc Document) (model.Catalog, error)
}
