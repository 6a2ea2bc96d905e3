package factorygen

import (
	"io/fs"

	"github.com/goliatone/go-factorygen/pkg/emitter"
)

// EmbeddedTemplates exposes the built-in factory templates so callers can
// reuse or extend them without importing the emitter package directly.
func EmbeddedTemplates() fs.FS {
	return emitter.TemplatesFS()
}
