// Package transform maps pipeline settings onto esbuild options and turns
// esbuild diagnostics into Go errors. It is shared by the styles and scripts
// tasks.
package transform

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/specialistvlad/assetgrid/internal/config"
)

var engineNames = map[string]api.EngineName{
	"chrome":  api.EngineChrome,
	"edge":    api.EngineEdge,
	"firefox": api.EngineFirefox,
	"safari":  api.EngineSafari,
	"ios":     api.EngineIOS,
	"opera":   api.EngineOpera,
	"ie":      api.EngineIE,
	"node":    api.EngineNode,
}

var targets = map[string]api.Target{
	"es2015": api.ES2015,
	"es2016": api.ES2016,
	"es2017": api.ES2017,
	"es2018": api.ES2018,
	"es2019": api.ES2019,
	"es2020": api.ES2020,
	"es2021": api.ES2021,
	"es2022": api.ES2022,
	"es2023": api.ES2023,
	"es2024": api.ES2024,
	"esnext": api.ESNext,
}

// Engines converts specs such as "safari11" into esbuild engine targets.
func Engines(specs []string) ([]api.Engine, error) {
	engines := make([]api.Engine, 0, len(specs))
	for _, spec := range specs {
		name, version, err := config.ParseEngine(spec)
		if err != nil {
			return nil, err
		}
		engine, ok := engineNames[name]
		if !ok {
			return nil, fmt.Errorf("invalid engine %q: unknown browser %q", spec, name)
		}
		engines = append(engines, api.Engine{Name: engine, Version: version})
	}
	return engines, nil
}

// Target converts a syntax baseline such as "es2015".
func Target(name string) (api.Target, error) {
	t, ok := targets[name]
	if !ok {
		return api.DefaultTarget, fmt.Errorf("unsupported scripts target %q", name)
	}
	return t, nil
}

// Error joins esbuild messages into one error, or returns nil for none.
// File locations are reported relative to root when possible.
func Error(root string, msgs []api.Message) error {
	if len(msgs) == 0 {
		return nil
	}
	errs := make([]error, 0, len(msgs))
	for _, msg := range msgs {
		errs = append(errs, errors.New(formatMessage(root, msg)))
	}
	return errors.Join(errs...)
}

// FirstFile returns the location of the first message that has one, as a
// slash-separated path relative to root.
func FirstFile(root string, msgs []api.Message) string {
	for _, msg := range msgs {
		if msg.Location != nil && msg.Location.File != "" {
			return relative(root, msg.Location.File)
		}
	}
	return ""
}

func formatMessage(root string, msg api.Message) string {
	if msg.Location == nil || msg.Location.File == "" {
		return msg.Text
	}
	return fmt.Sprintf("%s:%d:%d: %s", relative(root, msg.Location.File), msg.Location.Line, msg.Location.Column, msg.Text)
}

func relative(root, file string) string {
	if rel, err := filepath.Rel(root, file); err == nil && !strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(rel)
	}
	return filepath.ToSlash(file)
}

// Output picks the generated file with the given extension.
func Output(files []api.OutputFile, ext string) ([]byte, bool) {
	for _, f := range files {
		if strings.EqualFold(filepath.Ext(f.Path), ext) {
			return f.Contents, true
		}
	}
	return nil, false
}
