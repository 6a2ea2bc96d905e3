package strategy

import (
	"errors"
	"strings"
)

// Sentinel errors for the failure kinds surfaced by strategy resolution.
var (
	// ErrUnknownKind indicates a field kind with no registered strategy.
	ErrUnknownKind = errors.New("strategy: unknown field kind")
	// ErrMissingParameter indicates a strategy that cannot resolve one of its
	// required parameters.
	ErrMissingParameter = errors.New("strategy: missing required parameter")
	// ErrResolution indicates a strategy identifier that cannot be located.
	ErrResolution = errors.New("strategy: unable to resolve identifier")
	// ErrFrozen is returned when registering into a frozen registry.
	ErrFrozen = errors.New("strategy: registry is frozen")
)

// LookupError reports a kind that is absent from the registry. Model and
// Field are filled in by callers that know which field triggered the lookup.
type LookupError struct {
	Kind  string
	Model string
	Field string
}

// Error implements the error interface.
func (e *LookupError) Error() string {
	var b strings.Builder
	b.WriteString("strategy: no strategy registered for kind ")
	b.WriteString(quote(e.Kind))
	if e.Model != "" {
		b.WriteString(" (model ")
		b.WriteString(e.Model)
		if e.Field != "" {
			b.WriteString(", field ")
			b.WriteString(e.Field)
		}
		b.WriteString(")")
	}
	b.WriteString("; map it in field_faker_map or alias it in normalize_field_map")
	return b.String()
}

// Is reports whether the target matches ErrUnknownKind.
func (e *LookupError) Is(target error) bool {
	return target == ErrUnknownKind
}

// ConfigurationError reports a required parameter that has neither a
// provider nor an attribute on the named strategy.
type ConfigurationError struct {
	Parameter string
	Strategy  string
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	return "strategy: missing provider or attribute for parameter " + quote(e.Parameter) + " on " + quote(e.Strategy)
}

// Is reports whether the target matches ErrMissingParameter.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrMissingParameter
}

// ResolutionError wraps any failure to locate a configured strategy
// identifier so every resolution problem surfaces with the same shape.
type ResolutionError struct {
	Identifier string
	Cause      error
}

// Error implements the error interface.
func (e *ResolutionError) Error() string {
	msg := "strategy: could not resolve " + quote(e.Identifier)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *ResolutionError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches ErrResolution.
func (e *ResolutionError) Is(target error) bool {
	return target == ErrResolution
}

// IsLookupError reports whether err carries a LookupError.
func IsLookupError(err error) bool {
	var target *LookupError
	return errors.As(err, &target)
}

// IsConfigurationError reports whether err carries a ConfigurationError.
func IsConfigurationError(err error) bool {
	var target *ConfigurationError
	return errors.As(err, &target)
}

// IsResolutionError reports whether err carries a ResolutionError.
func IsResolutionError(err error) bool {
	var target *ResolutionError
	return errors.As(err, &target)
}

func quote(s string) string {
	return "`" + s + "`"
}
