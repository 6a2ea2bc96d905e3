// Package strategy maps normalized field kinds onto value-generation
// strategies. A Strategy knows which faker class builds a value for a field
// and which keyword parameters that class needs; the Registry resolves a kind
// name to its Strategy through a Catalog of known implementations.
//
// Every Spec declares the parameter names it requires. Each name resolves
// first through a Provider computed from the field, then through a static
// attribute; a name with neither is rejected when the Spec is validated and,
// if it slips through, when parameters are computed.
package strategy
