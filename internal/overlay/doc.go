// Package overlay derives the per-target site and data configurations from
// the shared YAML base templates.
//
// The templates are loaded once per run and treated as prototypes: every
// derivation starts from a deep copy, so no target can observe another
// target's values. Keys the overlay does not know about are carried through
// untouched, which keeps the templates free to hold any renderer or pipeline
// option.
package overlay
