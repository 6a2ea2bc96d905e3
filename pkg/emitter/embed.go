package emitter

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.py-tpl
var embeddedTemplates embed.FS

// Template names understood by the emitter and planner.
const (
	TemplateBaseFactory = "base-factory"
	TemplateFactory     = "factory"
	TemplateAppInit     = "app-init"
)

// TemplatesFS exposes the embedded .py-tpl bundle so callers can build a
// renderer around it or copy it as a starting point for overrides.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return embeddedTemplates
	}
	return sub
}
