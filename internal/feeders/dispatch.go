package feeders

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/assetgrid/internal/config"
	"github.com/specialistvlad/assetgrid/internal/hcl"
)

// DefaultNames are the file names probed, in order, when no --config is given.
var DefaultNames = []string{"assetgrid.hcl", "assetgrid.yaml", "assetgrid.yml", "assetgrid.toml"}

// ErrUnsupportedFormat is returned for a config file with an unknown extension.
var ErrUnsupportedFormat = errors.New("unsupported config file format")

// Dispatcher is a config.Loader that delegates to the loader registered for
// the file's extension.
type Dispatcher struct {
	loaders map[string]config.Loader
}

// New returns a Dispatcher that understands .hcl, .yaml, .yml and .toml files.
func New() *Dispatcher {
	yml := YamlFeeder{}
	return &Dispatcher{
		loaders: map[string]config.Loader{
			".hcl":  hcl.NewLoader(),
			".yaml": yml,
			".yml":  yml,
			".toml": TomlFeeder{},
		},
	}
}

// Load implements config.Loader.
func (d *Dispatcher) Load(ctx context.Context, path string, base *config.Model) (*config.Model, error) {
	ext := strings.ToLower(filepath.Ext(path))
	loader, ok := d.loaders[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	return loader.Load(ctx, path, base)
}

// Discover returns the first of DefaultNames that exists in dir, or "" if none does.
func Discover(dir string) (string, error) {
	for _, name := range DefaultNames {
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("failed to probe config file %s: %w", path, err)
		}
		if !info.IsDir() {
			return path, nil
		}
	}
	return "", nil
}
