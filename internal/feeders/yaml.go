package feeders

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/specialistvlad/assetgrid/internal/config"
	"github.com/specialistvlad/assetgrid/internal/ctxlog"
	"gopkg.in/yaml.v3"
)

// YamlFeeder loads a pipeline configuration from a YAML file.
type YamlFeeder struct{}

// Load reads path and overlays its settings onto base. Unknown keys are rejected.
func (YamlFeeder) Load(ctx context.Context, path string, base *config.Model) (*config.Model, error) {
	ctxlog.FromContext(ctx).Debug("YAML loader started.", "path", path)

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read YAML: %w", err)
	}
	defer f.Close()

	var patch config.Patch
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	// An empty document is a valid, empty configuration.
	if err := dec.Decode(&patch); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode YAML file %s: %w", path, err)
	}

	model, err := patch.Apply(base)
	if err != nil {
		return nil, fmt.Errorf("invalid settings in %s: %w", path, err)
	}
	return model, nil
}
