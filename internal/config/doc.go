// Package config defines the format-agnostic configuration model for the
// pipeline, along with the Loader interface for reading it from files.
//
// The `config.Model` is the single source of truth for every task. It is
// built once at startup (defaults, then an optional file, then CLI
// overrides), carries the immutable build Mode, and is passed by pointer into
// each task invocation. Concrete loaders, such as for HCL, live in separate
// packages.
package config
