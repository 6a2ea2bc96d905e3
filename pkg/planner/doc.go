// Package planner turns one host model into a generation plan: the ordered
// field declarations, unique field names, choice-list blocks, timezone
// requirement and import lines the emitter needs to write the model's base
// factory module.
package planner
