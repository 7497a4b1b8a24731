// Package hcl provides the concrete HCL implementation of the config.Loader
// interface. It is responsible for file discovery, parsing, decoding into the
// HCL schema structs and translating those into the format-agnostic
// config.Model.
package hcl
