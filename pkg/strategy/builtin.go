package strategy

import (
	"errors"
	"fmt"
	"hash/fnv"
	"math"
	"strings"

	"github.com/goliatone/go-factorygen/pkg/model"
)

// FakerClass is the factory_boy declaration backing most strategies.
const FakerClass = "factory.Faker"

// KindChoice is the canonical kind every field with a choice set is
// classified as, regardless of its storage kind.
const KindChoice = "ChoiceField"

// BuiltinPrefix namespaces the identifiers of the built-in strategies.
const BuiltinPrefix = "builtin."

// DefaultKinds returns the built-in kind → strategy identifier table.
func DefaultKinds() map[string]string {
	kinds := make(map[string]string, len(builtinSpecs))
	for _, spec := range builtinSpecs {
		kinds[strings.TrimPrefix(spec.ID, BuiltinPrefix)] = spec.ID
	}
	return kinds
}

// Builtins returns fresh copies of every built-in strategy.
func Builtins() []Strategy {
	out := make([]Strategy, 0, len(builtinSpecs))
	for _, spec := range builtinSpecs {
		clone := *spec
		out = append(out, &clone)
	}
	return out
}

var builtinSpecs = []*Spec{
	intRange("BigIntegerField", math.MinInt64, math.MaxInt64),
	intRange("IntegerField", math.MinInt32, math.MaxInt32),
	intRange("SmallIntegerField", math.MinInt16, math.MaxInt16),
	intRange("PositiveBigIntegerField", 0, math.MaxInt64),
	intRange("PositiveIntegerField", 0, math.MaxInt32),
	intRange("PositiveSmallIntegerField", 0, math.MaxInt16),
	{
		ID:       BuiltinPrefix + "BinaryField",
		Class:    FakerClass,
		Required: []string{"provider", "length"},
		Attrs:    map[string]any{"provider": "binary", "length": 300},
	},
	{
		ID:        BuiltinPrefix + "BooleanField",
		Class:     FakerClass,
		Required:  []string{"provider", "elements"},
		Attrs:     map[string]any{"provider": "random_element"},
		Providers: map[string]Provider{"elements": booleanElements},
	},
	{
		ID:       BuiltinPrefix + "NullBooleanField",
		Class:    FakerClass,
		Required: []string{"provider", "elements"},
		Attrs:    map[string]any{"provider": "random_element", "elements": Tuple{nil, true, false}},
	},
	{
		ID:        BuiltinPrefix + "CharField",
		Class:     FakerClass,
		Required:  []string{"provider", "max_chars"},
		Attrs:     map[string]any{"provider": "pystr"},
		Providers: map[string]Provider{"max_chars": maxChars},
	},
	{
		ID:        BuiltinPrefix + KindChoice,
		Class:     FakerClass,
		Required:  []string{"provider", "elements"},
		Attrs:     map[string]any{"provider": "random_element"},
		Providers: map[string]Provider{"elements": choiceSymbol},
		Unquoted:  []string{"elements"},
	},
	temporal("DateField", "date_time", true),
	temporal("DateTimeField", "date_time", true),
	temporal("TimeField", "time_object", false),
	temporal("DurationField", "time_delta", false),
	{
		ID:       BuiltinPrefix + "DecimalField",
		Class:    FakerClass,
		Required: []string{"provider", "left_digits", "right_digits", "positive"},
		Attrs:    map[string]any{"provider": "pydecimal", "positive": nil},
		Providers: map[string]Provider{
			"left_digits":  leftDigits,
			"right_digits": rightDigits,
		},
	},
	{
		ID:       BuiltinPrefix + "FloatField",
		Class:    FakerClass,
		Required: []string{"provider", "left_digits", "right_digits", "positive"},
		Attrs: map[string]any{
			"provider":     "pyfloat",
			"left_digits":  nil,
			"right_digits": nil,
			"positive":     nil,
		},
	},
	providerOnly("EmailField", "safe_email"),
	{ID: BuiltinPrefix + "FileField", Class: "factory.django.FileField"},
	{ID: BuiltinPrefix + "ImageField", Class: "factory.django.ImageField"},
	providerOnly("FilePathField", "file_path"),
	subFactory("ForeignKey"),
	subFactory("OneToOneField"),
	{
		ID:        BuiltinPrefix + "GenericIPAddressField",
		Class:     FakerClass,
		Required:  []string{"provider"},
		Providers: map[string]Provider{"provider": ipProvider},
	},
	{ID: BuiltinPrefix + "ManyToManyField", Tmpl: TemplateManyToMany},
	providerOnly("SlugField", "slug"),
	providerOnly("TextField", "text"),
	providerOnly("URLField", "url"),
	providerOnly("UUIDField", "uuid4"),
	{
		ID:       BuiltinPrefix + "JSONField",
		Class:    FakerClass,
		Required: []string{"provider", "value_types"},
		Attrs:    map[string]any{"provider": "pydict", "value_types": List{"str", "int"}},
	},
	{
		ID:       BuiltinPrefix + "PointField",
		Class:    "factory.LazyFunction",
		Required: []string{"function"},
		Attrs: map[string]any{
			"function": "lambda: Point(float(faker.Faker().longitude()), float(faker.Faker().latitude()))",
		},
		Unquoted:    []string{"function"},
		ImportPaths: []string{"django.contrib.gis.geos.Point", "faker"},
	},
}

func intRange(kind string, lo, hi int64) *Spec {
	return &Spec{
		ID:       BuiltinPrefix + kind,
		Class:    FakerClass,
		Required: []string{"provider", "min", "max"},
		Attrs:    map[string]any{"provider": "random_int"},
		Providers: map[string]Provider{
			"min": constant(lo),
			"max": constant(hi),
		},
	}
}

func temporal(kind, provider string, tzinfo bool) *Spec {
	spec := &Spec{
		ID:          BuiltinPrefix + kind,
		Class:       FakerClass,
		Required:    []string{"provider", "end_datetime"},
		Attrs:       map[string]any{"provider": provider, "end_datetime": nil},
		Timezone:    true,
		ImportPaths: []string{"django.utils.timezone"},
	}
	if tzinfo {
		spec.Required = append(spec.Required, "tzinfo")
		spec.Attrs["tzinfo"] = "timezone.get_current_timezone()"
		spec.Unquoted = []string{"tzinfo"}
	}
	return spec
}

func providerOnly(kind, provider string) *Spec {
	return &Spec{
		ID:       BuiltinPrefix + kind,
		Class:    FakerClass,
		Required: []string{"provider"},
		Attrs:    map[string]any{"provider": provider},
	}
}

func subFactory(kind string) *Spec {
	return &Spec{
		ID:        BuiltinPrefix + kind,
		Class:     "factory.SubFactory",
		Required:  []string{"factory"},
		Providers: map[string]Provider{"factory": relatedFactory},
	}
}

func constant(v any) Provider {
	return func(model.Field, Context) (any, error) {
		return v, nil
	}
}

func booleanElements(field model.Field, _ Context) (any, error) {
	if field.Null {
		return Tuple{nil, true, false}, nil
	}
	return Tuple{true, false}, nil
}

func maxChars(field model.Field, _ Context) (any, error) {
	if field.MaxLength <= 0 {
		return nil, errors.New("max_length must be positive")
	}
	return field.MaxLength, nil
}

// ChoiceSymbol names the module-level constant holding a field's choices.
func ChoiceSymbol(fieldName string) string {
	return strings.ToUpper(fieldName) + "_CHOICES"
}

func choiceSymbol(field model.Field, _ Context) (any, error) {
	return ChoiceSymbol(field.Name), nil
}

func leftDigits(field model.Field, _ Context) (any, error) {
	left := field.MaxDigits - field.DecimalPlaces
	if left < 0 {
		return nil, fmt.Errorf("max_digits %d is smaller than decimal_places %d", field.MaxDigits, field.DecimalPlaces)
	}
	return left, nil
}

func rightDigits(field model.Field, _ Context) (any, error) {
	if field.DecimalPlaces < 0 {
		return nil, fmt.Errorf("decimal_places %d is negative", field.DecimalPlaces)
	}
	return field.DecimalPlaces, nil
}

// FactoryPath builds the dotted reference to the factory of ref, e.g.
// "model_factories.shop.CustomerFactory".
func FactoryPath(root string, ref model.Ref) string {
	parts := make([]string, 0, 3)
	if root = strings.Trim(root, "."); root != "" {
		parts = append(parts, root)
	}
	if ref.App != "" {
		parts = append(parts, ref.App)
	}
	parts = append(parts, ref.Model+"Factory")
	return strings.Join(parts, ".")
}

func relatedFactory(field model.Field, ctx Context) (any, error) {
	if field.Related == nil || field.Related.Model == "" {
		return nil, errors.New("relationship target is required")
	}
	ref := *field.Related
	if ref.App == "" {
		ref.App = ctx.Model.App
	}
	return FactoryPath(ctx.RootPackage, ref), nil
}

// ipProvider treats the three protocol cases independently. "both" picks
// ipv4 or ipv6 from a hash of the field identity so reruns stay stable.
func ipProvider(field model.Field, ctx Context) (any, error) {
	switch strings.ToLower(strings.TrimSpace(field.Protocol)) {
	case "ipv4":
		return "ipv4", nil
	case "ipv6":
		return "ipv6", nil
	case "", model.ProtocolBoth:
		h := fnv.New32a()
		_, _ = h.Write([]byte(ctx.Model.Label() + "." + field.Name))
		if h.Sum32()%2 == 0 {
			return "ipv4", nil
		}
		return "ipv6", nil
	default:
		return nil, fmt.Errorf("unsupported protocol %q", field.Protocol)
	}
}
