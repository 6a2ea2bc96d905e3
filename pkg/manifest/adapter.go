package manifest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-factorygen/pkg/model"
	"github.com/goliatone/go-factorygen/pkg/schema"
)

// AdapterName identifies the manifest adapter in registries and the CLI.
const AdapterName = "manifest"

// Adapter implements schema.Adapter for manifest documents.
type Adapter struct{}

var _ schema.Adapter = Adapter{}

// NewAdapter returns the manifest adapter.
func NewAdapter() Adapter {
	return Adapter{}
}

// Name implements schema.Adapter.
func (Adapter) Name() string {
	return AdapterName
}

// Detect reports whether doc decodes to a mapping with an "apps" key and no
// "openapi" key.
func (Adapter) Detect(doc schema.Document) bool {
	keys, err := topLevel(doc)
	if err != nil {
		return false
	}
	_, hasApps := keys["apps"]
	_, hasOpenAPI := keys["openapi"]
	return hasApps && !hasOpenAPI
}

// Catalog implements schema.Adapter.
func (Adapter) Catalog(ctx context.Context, doc schema.Document) (model.Catalog, error) {
	if err := ctx.Err(); err != nil {
		return model.Catalog{}, err
	}
	file, err := decode(doc)
	if err != nil {
		return model.Catalog{}, err
	}
	catalog, err := normalize(file)
	if err != nil {
		return model.Catalog{}, fmt.Errorf("manifest: %s: %w", doc.Location(), err)
	}
	if err := catalog.Validate(); err != nil {
		return model.Catalog{}, fmt.Errorf("manifest: %s: %w", doc.Location(), err)
	}
	return catalog, nil
}

// Parse decodes raw manifest bytes of the given encoding without a source.
func Parse(raw []byte, encoding schema.Encoding) (model.Catalog, error) {
	file, err := decodeAs(raw, encoding, "inline")
	if err != nil {
		return model.Catalog{}, err
	}
	catalog, err := normalize(file)
	if err != nil {
		return model.Catalog{}, fmt.Errorf("manifest: %w", err)
	}
	return catalog, catalog.Validate()
}

func decode(doc schema.Document) (documentFile, error) {
	return decodeAs(doc.Raw(), doc.Encoding(), doc.Location())
}

func decodeAs(raw []byte, encoding schema.Encoding, location string) (documentFile, error) {
	var file documentFile
	var err error
	switch encoding {
	case schema.EncodingJSON:
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		err = dec.Decode(&file)
	case schema.EncodingTOML:
		err = toml.Unmarshal(raw, &file)
	default:
		err = yaml.Unmarshal(raw, &file)
	}
	if err != nil {
		return documentFile{}, fmt.Errorf("manifest: parse %s: %w", location, err)
	}
	return file, nil
}

func topLevel(doc schema.Document) (map[string]any, error) {
	keys := map[string]any{}
	raw := doc.Raw()
	var err error
	switch doc.Encoding() {
	case schema.EncodingJSON:
		err = json.Unmarshal(raw, &keys)
	case schema.EncodingTOML:
		err = toml.Unmarshal(raw, &keys)
	default:
		err = yaml.Unmarshal(raw, &keys)
	}
	return keys, err
}

func normalize(file documentFile) (model.Catalog, error) {
	catalog := model.Catalog{Apps: make([]model.App, 0, len(file.Apps))}
	for _, rawApp := range file.Apps {
		app := model.App{Label: strings.TrimSpace(rawApp.Label)}
		for _, rawModel := range rawApp.Models {
			m := model.Model{
				Name:   strings.TrimSpace(rawModel.Name),
				App:    app.Label,
				Module: strings.TrimSpace(rawModel.Module),
			}
			for _, rawField := range rawModel.Fields {
				field, err := normalizeField(rawField, app.Label)
				if err != nil {
					return model.Catalog{}, fmt.Errorf("%s.%s: %w", app.Label, m.Name, err)
				}
				m.Fields = append(m.Fields, field)
			}
			app.Models = append(app.Models, m)
		}
		catalog.Apps = append(catalog.Apps, app)
	}
	return catalog, nil
}

func normalizeField(raw fieldFile, app string) (model.Field, error) {
	field := model.Field{
		Name:          strings.TrimSpace(raw.Name),
		Kind:          strings.TrimSpace(raw.Kind),
		Null:          raw.Null || raw.Nullable,
		Editable:      raw.Editable == nil || *raw.Editable,
		Unique:        raw.Unique,
		MaxLength:     raw.MaxLength,
		MaxDigits:     raw.MaxDigits,
		DecimalPlaces: raw.DecimalPlaces,
		Protocol:      strings.TrimSpace(raw.Protocol),
	}
	if related := strings.TrimSpace(raw.Related); related != "" {
		field.Related = parseRef(related, app)
	}
	for idx, rawChoice := range raw.Choices {
		choice, err := normalizeChoice(rawChoice)
		if err != nil {
			return model.Field{}, fmt.Errorf("field %q choice %d: %w", field.Name, idx, err)
		}
		field.Choices = append(field.Choices, choice)
	}
	return field, nil
}

// parseRef splits "app.Model" references. A bare "Model" stays in app.
func parseRef(raw, app string) *model.Ref {
	if idx := strings.LastIndex(raw, "."); idx >= 0 {
		return &model.Ref{App: raw[:idx], Model: raw[idx+1:]}
	}
	return &model.Ref{App: app, Model: raw}
}

func normalizeChoice(raw any) (model.Choice, error) {
	switch v := raw.(type) {
	case []any:
		switch len(v) {
		case 1:
			return model.Choice{Value: scalar(v[0]), Label: fmt.Sprint(v[0])}, nil
		case 2:
			return model.Choice{Value: scalar(v[0]), Label: labelOf(v[1])}, nil
		default:
			return model.Choice{}, fmt.Errorf("expected [value, label], got %d items", len(v))
		}
	case map[string]any:
		value, ok := v["value"]
		if !ok {
			return model.Choice{}, fmt.Errorf("choice object requires a value")
		}
		return model.Choice{Value: scalar(value), Label: labelOf(v["label"])}, nil
	case nil:
		return model.Choice{}, fmt.Errorf("choice is empty")
	default:
		value := scalar(v)
		return model.Choice{Value: value, Label: fmt.Sprint(value)}, nil
	}
}

// scalar converts decoder-specific number types into int64 or float64.
func scalar(v any) any {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i
		}
		if u, err := strconv.ParseUint(n.String(), 10, 64); err == nil {
			return u
		}
		if f, err := n.Float64(); err == nil {
			return f
		}
		return n.String()
	case int:
		return int64(n)
	case uint64:
		if n <= math.MaxInt64 {
			return int64(n)
		}
		return n
	default:
		return v
	}
}

func labelOf(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}
