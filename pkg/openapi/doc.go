// Package openapi builds a model catalog from the components.schemas section
// of an OpenAPI 3 document. Each object schema becomes a model; its
// properties become fields in declaration order.
//
// Mapping hints are read from vendor extensions:
//
//	x-factorygen-app            app label of a schema (default from info.title)
//	x-factorygen-module         Python module declaring the model
//	x-factorygen-kind           explicit field kind, bypassing type mapping
//	x-factorygen-unique         marks a property unique
//	x-factorygen-max-digits     DecimalField precision (default 10)
//	x-factorygen-decimal-places DecimalField scale (default 2)
//	x-factorygen-relation       "one-to-one" turns a $ref into OneToOneField
//	x-factorygen-ignore         skips a schema or property
//	x-enum-descriptions         labels for enum values; markup is stripped
package openapi
