// Package config defines the format-agnostic configuration model for a
// regiongrid run, along with the Loader interface for reading it from a
// concrete file format and the environment overlay applied on top.
//
// The `config.Model` is the single source of truth for the app package.
// Concrete file formats, such as HCL, are implemented in separate packages.
package config
