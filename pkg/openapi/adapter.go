package openapi

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-openapi/inflect"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-factorygen/pkg/model"
	"github.com/goliatone/go-factorygen/pkg/schema"
)

// AdapterName identifies the OpenAPI adapter in registries and the
// CLI.
const AdapterName = "openapi"

const (
	extApp           = "x-factorygen-app"
	extModule        = "x-factorygen-module"
	extKind          = "x-factorygen-kind"
	extUnique        = "x-factorygen-unique"
	extMaxDigits     = "x-factorygen-max-digits"
	extDecimalPlaces = "x-factorygen-decimal-places"
	extRelation      = "x-factorygen-relation"
	extIgnore        = "x-factorygen-ignore"
	extEnumLabels    = "x-enum-descriptions"

	defaultMaxDigits     = 10
	defaultDecimalPlaces = 2
	schemaRefPrefix      = "#/components/schemas/"
)

// Option customises the Adapter.
type Option func(*Adapter)

// WithDefaultApp sets the app label used for schemas without
// x-factorygen-app.
func WithDefaultApp(label string) Option {
	return func(a *Adapter) {
		a.defaultApp = strings.TrimSpace(label)
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Adapter) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// Adapter implements schema.Adapter for OpenAPI 3 documents.
type Adapter struct {
	defaultApp string
	logger     *slog.Logger
}

var _ schema.Adapter = (*Adapter)(nil)

// NewAdapter constructs an OpenAPI adapter.
func NewAdapter(options ...Option) *Adapter {
	a := &Adapter{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range options {
		if opt != nil {
			opt(a)
		}
	}
	return a
}

// Name implements schema.Adapter.
func (a *Adapter) Name() string {
	return AdapterName
}

// Detect reports whether the document declares an "openapi" version.
func (a *Adapter) Detect(doc schema.Document) bool {
	var head struct {
		OpenAPI string `yaml:"openapi"`
	}
	if err := yaml.Unmarshal(doc.Raw(), &head); err != nil {
		return false
	}
	return strings.TrimSpace(head.OpenAPI) != ""
}

// Catalog implements schema.Adapter.
func (a *Adapter) Catalog(ctx context.Context, doc schema.Document) (model.Catalog, error) {
	if err := ctx.Err(); err != nil {
		return model.Catalog{}, err
	}
	raw := doc.Raw()

	loader := openapi3.NewLoader()
	loader.Context = ctx
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return model.Catalog{}, fmt.Errorf("openapi adapter: load %s: %w", doc.Location(), err)
	}
	if spec.Components == nil || len(spec.Components.Schemas) == 0 {
		return model.Catalog{}, fmt.Errorf("openapi adapter: %s declares no components.schemas", doc.Location())
	}

	c := converter{
		schemas:    spec.Components.Schemas,
		order:      readDeclarationOrder(raw),
		defaultApp: a.appLabel(spec),
		logger:     a.logger,
	}
	catalog, err := c.catalog()
	if err != nil {
		return model.Catalog{}, fmt.Errorf("openapi adapter: %s: %w", doc.Location(), err)
	}
	if err := catalog.Validate(); err != nil {
		return model.Catalog{}, fmt.Errorf("openapi adapter: %s: %w", doc.Location(), err)
	}
	return catalog, nil
}

func (a *Adapter) appLabel(spec *openapi3.T) string {
	if a.defaultApp != "" {
		return a.defaultApp
	}
	if label := stringExt(spec.Extensions, extApp); label != "" {
		return label
	}
	if spec.Info != nil {
		if label := inflect.ParameterizeJoin(spec.Info.Title, "_"); label != "" {
			return label
		}
	}
	return "api"
}

type converter struct {
	schemas    openapi3.Schemas
	order      declarationOrder
	defaultApp string
	logger     *slog.Logger
}

func (c converter) catalog() (model.Catalog, error) {
	var catalog model.Catalog
	index := map[string]int{}
	for _, name := range c.schemaNames() {
		ref := c.schemas[name]
		if ref == nil || ref.Value == nil || !isModelSchema(ref.Value) {
			continue
		}
		s := ref.Value
		if boolExt(s.Extensions, extIgnore) {
			c.logger.Debug("skip schema", "schema", name)
			continue
		}
		m, err := c.model(name, s)
		if err != nil {
			return model.Catalog{}, err
		}
		pos, ok := index[m.App]
		if !ok {
			pos = len(catalog.Apps)
			index[m.App] = pos
			catalog.Apps = append(catalog.Apps, model.App{Label: m.App})
		}
		catalog.Apps[pos].Models = append(catalog.Apps[pos].Models, m)
	}
	return catalog, nil
}

// schemaNames returns schema names in document order; names the order walk
// missed (say, from a malformed document) follow in sorted order.
func (c converter) schemaNames() []string {
	return ordered(c.order.schemas, mapKeys(c.schemas))
}

func (c converter) model(name string, s *openapi3.Schema) (model.Model, error) {
	m := model.Model{
		Name:   modelName(name),
		App:    c.appOf(s),
		Module: stringExt(s.Extensions, extModule),
	}
	props := collectProperties(s)
	for _, prop := range ordered(c.order.properties[name], mapKeys(props)) {
		field, skip, err := c.field(prop, props[prop])
		if err != nil {
			return model.Model{}, fmt.Errorf("%s.%s: %w", name, prop, err)
		}
		if skip {
			continue
		}
		m.Fields = append(m.Fields, field)
	}
	return m, nil
}

func (c converter) appOf(s *openapi3.Schema) string {
	if label := stringExt(s.Extensions, extApp); label != "" {
		return label
	}
	return c.defaultApp
}

func (c converter) field(name string, ref *openapi3.SchemaRef) (model.Field, bool, error) {
	if ref == nil || ref.Value == nil {
		return model.Field{}, false, fmt.Errorf("unresolved schema")
	}
	s := ref.Value
	if boolExt(s.Extensions, extIgnore) {
		return model.Field{}, true, nil
	}

	field := model.Field{
		Name:     fieldName(name),
		Null:     s.Nullable || hasType(s, "null"),
		Editable: !s.ReadOnly,
		Unique:   boolExt(s.Extensions, extUnique),
	}
	if s.MaxLength != nil {
		field.MaxLength = int(*s.MaxLength)
	}

	if target, ok := c.relationTarget(ref); ok {
		field.Kind = "ForeignKey"
		if stringExt(s.Extensions, extRelation) == "one-to-one" {
			field.Kind = "OneToOneField"
		}
		field.Related = target
	} else if hasType(s, openapi3.TypeArray) && s.Items != nil {
		if target, ok := c.relationTarget(s.Items); ok {
			field.Kind = "ManyToManyField"
			field.Related = target
		} else {
			field.Kind = "JSONField"
		}
	} else {
		kindFromType(s, &field)
	}

	if kind := stringExt(s.Extensions, extKind); kind != "" {
		field.Kind = kind
	}
	field.Choices = choices(s)
	return field, false, nil
}

// relationTarget resolves a $ref to another model schema.
func (c converter) relationTarget(ref *openapi3.SchemaRef) (*model.Ref, bool) {
	if ref == nil || !strings.HasPrefix(ref.Ref, schemaRefPrefix) {
		return nil, false
	}
	name := strings.TrimPrefix(ref.Ref, schemaRefPrefix)
	target, ok := c.schemas[name]
	if !ok || target == nil || target.Value == nil || !isModelSchema(target.Value) {
		return nil, false
	}
	return &model.Ref{App: c.appOf(target.Value), Model: modelName(name)}, true
}

func kindFromType(s *openapi3.Schema, field *model.Field) {
	switch {
	case hasType(s, openapi3.TypeString):
		kindFromString(s, field)
	case hasType(s, openapi3.TypeInteger):
		positive := s.Min != nil && *s.Min >= 0
		switch {
		case s.Format == "int64" && positive:
			field.Kind = "PositiveBigIntegerField"
		case s.Format == "int64":
			field.Kind = "BigIntegerField"
		case positive:
			field.Kind = "PositiveIntegerField"
		default:
			field.Kind = "IntegerField"
		}
	case hasType(s, openapi3.TypeNumber):
		if s.Format == "decimal" {
			decimal(s, field)
			return
		}
		field.Kind = "FloatField"
	case hasType(s, openapi3.TypeBoolean):
		field.Kind = "BooleanField"
	default:
		field.Kind = "JSONField"
	}
}

func kindFromString(s *openapi3.Schema, field *model.Field) {
	switch s.Format {
	case "date":
		field.Kind = "DateField"
	case "date-time":
		field.Kind = "DateTimeField"
	case "time":
		field.Kind = "TimeField"
	case "duration":
		field.Kind = "DurationField"
	case "email":
		field.Kind = "EmailField"
	case "uri", "url":
		field.Kind = "URLField"
	case "uuid":
		field.Kind = "UUIDField"
	case "slug":
		field.Kind = "SlugField"
	case "binary", "byte":
		field.Kind = "BinaryField"
	case "ipv4":
		field.Kind = "GenericIPAddressField"
		field.Protocol = model.ProtocolIPv4
	case "ipv6":
		field.Kind = "GenericIPAddressField"
		field.Protocol = model.ProtocolIPv6
	case "ip":
		field.Kind = "GenericIPAddressField"
		field.Protocol = model.ProtocolBoth
	case "decimal":
		decimal(s, field)
	default:
		if field.MaxLength > 0 {
			field.Kind = "CharField"
		} else {
			field.Kind = "TextField"
		}
	}
}

func decimal(s *openapi3.Schema, field *model.Field) {
	field.Kind = "DecimalField"
	field.MaxDigits = intExt(s.Extensions, extMaxDigits, defaultMaxDigits)
	field.DecimalPlaces = intExt(s.Extensions, extDecimalPlaces, defaultDecimalPlaces)
}

func choices(s *openapi3.Schema) []model.Choice {
	if len(s.Enum) == 0 {
		return nil
	}
	labels, _ := s.Extensions[extEnumLabels].([]any)
	out := make([]model.Choice, 0, len(s.Enum))
	for idx, value := range s.Enum {
		if value == nil {
			continue
		}
		if f, ok := value.(float64); ok && hasType(s, openapi3.TypeInteger) {
			value = int64(f)
		}
		label := fmt.Sprint(value)
		if idx < len(labels) && labels[idx] != nil {
			if clean := sanitizeLabel(fmt.Sprint(labels[idx])); clean != "" {
				label = clean
			}
		}
		out = append(out, model.Choice{Value: value, Label: label})
	}
	return out
}

// isModelSchema reports whether s describes an object with properties.
func isModelSchema(s *openapi3.Schema) bool {
	if len(collectProperties(s)) == 0 {
		return false
	}
	return s.Type == nil || hasType(s, openapi3.TypeObject)
}

func collectProperties(s *openapi3.Schema) openapi3.Schemas {
	out := openapi3.Schemas{}
	for _, member := range s.AllOf {
		if member == nil || member.Value == nil {
			continue
		}
		for name, prop := range collectProperties(member.Value) {
			out[name] = prop
		}
	}
	for name, prop := range s.Properties {
		out[name] = prop
	}
	return out
}

func hasType(s *openapi3.Schema, typ string) bool {
	if s.Type == nil {
		return false
	}
	return slices.Contains(s.Type.Slice(), typ)
}

// modelName turns schema keys like "order_item" into "OrderItem".
func modelName(name string) string {
	return inflect.Camelize(name)
}

// fieldName turns camelCase property names into snake_case; names already in
// lower case are kept as written.
func fieldName(name string) string {
	if name == strings.ToLower(name) {
		return name
	}
	if name == strings.ToUpper(name) {
		return strings.ToLower(name)
	}
	return inflect.Underscore(name)
}

// ordered returns keys following preferred first, then any remaining keys
// sorted.
func ordered(preferred, keys []string) []string {
	seen := make(map[string]bool, len(keys))
	for _, key := range keys {
		seen[key] = false
	}
	out := make([]string, 0, len(keys))
	for _, key := range preferred {
		if done, ok := seen[key]; ok && !done {
			out = append(out, key)
			seen[key] = true
		}
	}
	var rest []string
	for key, done := range seen {
		if !done {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

func mapKeys(m openapi3.Schemas) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	return keys
}

func stringExt(ext map[string]any, key string) string {
	if v, ok := ext[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

func boolExt(ext map[string]any, key string) bool {
	v, _ := ext[key].(bool)
	return v
}

func intExt(ext map[string]any, key string, fallback int) int {
	switch v := ext[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	}
	return fallback
}
