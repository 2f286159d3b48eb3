package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/assetgrid/internal/config"
	"github.com/specialistvlad/assetgrid/internal/ctxlog"
	"github.com/specialistvlad/assetgrid/internal/feeders"
)

// ErrConfig marks startup failures caused by the configuration rather than
// the environment.
var ErrConfig = errors.New("invalid configuration")

// Config holds everything the entrypoint resolved for an App instance.
// Nil or empty override fields keep the value from the config file.
type Config struct {
	// ConfigPath is the config file. Empty means probe WorkDir for
	// feeders.DefaultNames and fall back to defaults when none exists.
	ConfigPath string
	WorkDir    string
	Mode       config.Mode

	SourceDir string
	OutputDir string
	Host      string
	Port      *int
	Workers   *int

	LogFormat string
	LogLevel  string
}

func (c *Config) workDir() string {
	if c.WorkDir == "" {
		return "."
	}
	return c.WorkDir
}

// loadModel builds the configuration model: defaults, then the config file,
// then the overrides carried by c.
func loadModel(ctx context.Context, c *Config, loader config.Loader) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	model := config.Default(c.Mode)

	path := c.ConfigPath
	if path == "" {
		found, err := feeders.Discover(c.workDir())
		if err != nil {
			return nil, err
		}
		path = found
	}
	if path != "" {
		logger.Debug("Loading config file.", "path", path)
		loaded, err := loader.Load(ctx, path, model)
		if err != nil {
			return nil, err
		}
		model = loaded
	} else {
		logger.Debug("No config file found, using defaults.")
	}

	if c.SourceDir != "" {
		model.SourceDir = c.SourceDir
	}
	if c.OutputDir != "" {
		model.OutputDir = c.OutputDir
	}
	if c.Host != "" {
		model.Server.Host = c.Host
	}
	if c.Port != nil {
		model.Server.Port = *c.Port
	}
	if c.Workers != nil {
		model.Workers = *c.Workers
	}

	if err := model.Validate(); err != nil {
		return nil, fmt.Errorf("configuration is invalid: %w", err)
	}
	return model, nil
}
