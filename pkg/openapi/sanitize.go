package openapi

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	labelPolicyOnce sync.Once
	labelPolicy     *bluemonday.Policy
)

// sanitizeLabel strips markup from enum descriptions; labels end up in
// Python comments, so only plain text survives.
func sanitizeLabel(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	labelPolicyOnce.Do(func() {
		labelPolicy = bluemonday.StrictPolicy()
	})
	cleaned := html.UnescapeString(labelPolicy.Sanitize(trimmed))
	return strings.Join(strings.Fields(cleaned), " ")
}
