package config

// EnvVar is the environment variable that selects the build mode.
const EnvVar = "NODE_ENV"

// productionSentinel is the only EnvVar value that selects production.
const productionSentinel = "production"

// Mode is the production/development switch. It is resolved once per process.
type Mode int

const (
	// Development keeps source maps and skips minification and compression.
	Development Mode = iota
	// Production minifies and compresses and drops source maps.
	Production
)

// ModeFromEnv resolves the build mode using the given lookup function,
// typically os.LookupEnv.
func ModeFromEnv(lookup func(string) (string, bool)) Mode {
	if v, ok := lookup(EnvVar); ok && v == productionSentinel {
		return Production
	}
	return Development
}

// IsProduction reports whether minification and compression are enabled.
func (m Mode) IsProduction() bool { return m == Production }

// SourceMaps reports whether source maps are generated.
func (m Mode) SourceMaps() bool { return m != Production }

func (m Mode) String() string {
	if m == Production {
		return "production"
	}
	return "development"
}
