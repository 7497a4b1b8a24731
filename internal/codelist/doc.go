// Package codelist derives the ordered list of build targets from an SDMX
// data structure definition.
//
// The definition is downloaded once per run, cached on disk, and parsed as an
// SDMX-ML 2.1 structure message. The reference area dimension's enumerated
// codelist supplies the targets: only purely numeric codes are kept (the
// convention separating countries and regions from aggregates), sorted by
// numeric value. That order is the attempt order of the whole run.
package codelist
