package feeders

import (
	"context"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/specialistvlad/assetgrid/internal/config"
	"github.com/specialistvlad/assetgrid/internal/ctxlog"
)

// TomlFeeder loads a pipeline configuration from a TOML file.
type TomlFeeder struct{}

// Load reads path and overlays its settings onto base. Unknown keys are rejected.
func (TomlFeeder) Load(ctx context.Context, path string, base *config.Model) (*config.Model, error) {
	ctxlog.FromContext(ctx).Debug("TOML loader started.", "path", path)

	var patch config.Patch
	meta, err := toml.DecodeFile(path, &patch)
	if err != nil {
		return nil, fmt.Errorf("failed to decode TOML file %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, fmt.Errorf("failed to decode TOML file %s: unknown keys %s", path, strings.Join(keys, ", "))
	}

	model, err := patch.Apply(base)
	if err != nil {
		return nil, fmt.Errorf("invalid settings in %s: %w", path, err)
	}
	return model, nil
}
