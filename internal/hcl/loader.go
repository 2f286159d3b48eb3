package hcl

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/assetgrid/internal/config"
	"github.com/specialistvlad/assetgrid/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct {
	// Environ supplies the `env` variable; nil means os.Environ.
	Environ func() []string
}

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses the file at path, evaluates it against the `mode` and `env`
// variables and overlays the result onto base.
func (l *Loader) Load(ctx context.Context, path string, base *config.Model) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path", path)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}

	var patch config.Patch
	if diags := gohcl.DecodeBody(file.Body, l.evalContext(base.Mode), &patch); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", path, diags)
	}

	model, err := patch.Apply(base)
	if err != nil {
		return nil, fmt.Errorf("invalid settings in %s: %w", path, err)
	}
	logger.Debug("HCL loading complete.", "path", path, "source_dir", model.SourceDir, "output_dir", model.OutputDir)
	return model, nil
}

// evalContext exposes the resolved build mode and the environment to expressions.
func (l *Loader) evalContext(mode config.Mode) *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"mode": cty.ObjectVal(map[string]cty.Value{
				"production": cty.BoolVal(mode.IsProduction()),
				"name":       cty.StringVal(mode.String()),
			}),
			"env": l.envValue(),
		},
	}
}

func (l *Loader) envValue() cty.Value {
	environ := l.Environ
	if environ == nil {
		environ = os.Environ
	}

	vars := make(map[string]cty.Value)
	for _, kv := range environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		vars[k] = cty.StringVal(v)
	}
	if len(vars) == 0 {
		return cty.MapValEmpty(cty.String)
	}
	return cty.MapVal(vars)
}
