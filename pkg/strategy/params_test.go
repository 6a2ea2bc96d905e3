package strategy_test

import (
	"testing"

	"github.com/goliatone/go-factorygen/pkg/strategy"
)

func TestLiteral(t *testing.T) {
	cases := []struct {
		name  string
		value any
		want  string
	}{
		{name: "nil", value: nil, want: "None"},
		{name: "true", value: true, want: "True"},
		{name: "false", value: false, want: "False"},
		{name: "int", value: 42, want: "42"},
		{name: "negative int64", value: int64(-9223372036854775808), want: "-9223372036854775808"},
		{name: "integral float", value: float64(3), want: "3"},
		{name: "fractional float", value: 2.5, want: "2.5"},
		{name: "string", value: "random_int", want: "'random_int'"},
		{name: "string with apostrophe", value: "it's", want: `"it's"`},
		{name: "string with both quotes", value: `it's "x"`, want: `'it\'s "x"'`},
		{name: "newline", value: "a\nb", want: `'a\nb'`},
		{name: "tuple", value: strategy.Tuple{nil, true, false}, want: "(None, True, False)"},
		{name: "single tuple", value: strategy.Tuple{1}, want: "(1,)"},
		{name: "list", value: strategy.List{"str", "int"}, want: "['str', 'int']"},
		{name: "string slice", value: []string{"a"}, want: "['a']"},
		{name: "expr", value: strategy.Expr("timezone.now()"), want: "timezone.now()"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := strategy.Literal(tc.value); got != tc.want {
				t.Fatalf("Literal(%#v) = %s, want %s", tc.value, got, tc.want)
			}
		})
	}
}

func TestParamsString(t *testing.T) {
	params := strategy.Params{
		{Name: "provider", Value: "random_element"},
		{Name: "elements", Value: "STATUS_CHOICES", Raw: true},
	}
	want := "provider='random_element', elements=STATUS_CHOICES"
	if got := params.String(); got != want {
		t.Fatalf("unexpected params string: %s", got)
	}
	if _, ok := params.Get("missing"); ok {
		t.Fatalf("expected missing parameter lookup to fail")
	}
	if got := strategy.Params(nil).String(); got != "" {
		t.Fatalf("expected empty string for empty params, got %q", got)
	}
}
