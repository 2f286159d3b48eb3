package config

import "context"

// Loader is the interface for a format-specific configuration loader.
type Loader interface {
	// Load reads the file at path and overlays its settings onto base. The
	// build mode is already resolved and available to loaders that can
	// evaluate expressions.
	Load(ctx context.Context, path string, base *Model) (*Model, error)
}
