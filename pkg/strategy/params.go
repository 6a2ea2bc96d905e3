package strategy

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Param is one keyword argument passed to a faker class. Raw parameters are
// emitted verbatim as an expression (a symbol or call); the rest are emitted
// as Python literals.
type Param struct {
	Name  string
	Value any
	Raw   bool
}

// Source renders the parameter value as Python source.
func (p Param) Source() string {
	if p.Raw {
		return fmt.Sprint(p.Value)
	}
	return Literal(p.Value)
}

// Params is the ordered generation parameter set produced by a Strategy.
type Params []Param

// Get returns the parameter with the given name.
func (p Params) Get(name string) (Param, bool) {
	for _, param := range p {
		if param.Name == name {
			return param, true
		}
	}
	return Param{}, false
}

// Names lists parameter names in order.
func (p Params) Names() []string {
	names := make([]string, 0, len(p))
	for _, param := range p {
		names = append(names, param.Name)
	}
	return names
}

// String renders the set as a keyword argument list, e.g.
// "provider='random_int', min=0, max=32767".
func (p Params) String() string {
	if len(p) == 0 {
		return ""
	}
	parts := make([]string, 0, len(p))
	for _, param := range p {
		parts = append(parts, param.Name+"="+param.Source())
	}
	return strings.Join(parts, ", ")
}

// Tuple renders as a Python tuple literal.
type Tuple []any

// List renders as a Python list literal.
type List []any

// Expr is a raw Python expression embedded inside a literal container.
type Expr string

// Literal renders a Go value as the equivalent Python literal.
func Literal(v any) string {
	switch value := v.(type) {
	case nil:
		return "None"
	case Expr:
		return string(value)
	case bool:
		if value {
			return "True"
		}
		return "False"
	case string:
		return PyQuote(value)
	case int:
		return strconv.Itoa(value)
	case int8:
		return strconv.FormatInt(int64(value), 10)
	case int16:
		return strconv.FormatInt(int64(value), 10)
	case int32:
		return strconv.FormatInt(int64(value), 10)
	case int64:
		return strconv.FormatInt(value, 10)
	case uint:
		return strconv.FormatUint(uint64(value), 10)
	case uint8:
		return strconv.FormatUint(uint64(value), 10)
	case uint16:
		return strconv.FormatUint(uint64(value), 10)
	case uint32:
		return strconv.FormatUint(uint64(value), 10)
	case uint64:
		return strconv.FormatUint(value, 10)
	case float32:
		return formatFloat(float64(value))
	case float64:
		return formatFloat(value)
	case Tuple:
		return sequence("(", ")", []any(value), true)
	case List:
		return sequence("[", "]", []any(value), false)
	case []any:
		return sequence("[", "]", value, false)
	case []string:
		items := make([]any, len(value))
		for i, s := range value {
			items[i] = s
		}
		return sequence("[", "]", items, false)
	default:
		return PyQuote(fmt.Sprint(value))
	}
}

// formatFloat keeps integral values (JSON numbers decode as float64) free of
// a fractional part so choice values such as 1 stay ints.
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "float('nan')"
	case math.IsInf(f, 1):
		return "float('inf')"
	case math.IsInf(f, -1):
		return "float('-inf')"
	case f == math.Trunc(f) && math.Abs(f) < 1e15:
		return strconv.FormatInt(int64(f), 10)
	default:
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
}

func sequence(open, close string, items []any, tuple bool) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, Literal(item))
	}
	body := strings.Join(parts, ", ")
	if tuple && len(items) == 1 {
		body += ","
	}
	return open + body + close
}

// PyQuote quotes s the way Python's repr does: single quotes unless the
// string holds a single quote and no double quote.
func PyQuote(s string) string {
	quote := byte('\'')
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		quote = '"'
	}
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte(quote)
	for _, r := range s {
		switch {
		case r == '\\':
			b.WriteString(`\\`)
		case r == rune(quote):
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(&b, `\x%02x`, r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte(quote)
	return b.String()
}
