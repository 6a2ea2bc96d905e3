// Package model defines the host model descriptors consumed by the factory
// planner. A Catalog groups Apps (sub-applications), each App owns an ordered
// list of Models, and each Model exposes its Fields in declaration order.
// Schema adapters (manifest, OpenAPI) produce these values; the planner and
// emitter treat them as read-only.
package model
