// Package orchestrator wires the loader → adapter → planner → emitter
// pipeline, providing dependency injection friendly helpers for consumers
// that prefer a single entry point. Each sub-application is generated by an
// aggregator pass that writes one base and one override module per model and
// rewrites the app index afterwards.
package orchestrator
