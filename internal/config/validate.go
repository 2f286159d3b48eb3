package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"slices"
)

var engineRegex = regexp.MustCompile(`^(chrome|edge|firefox|safari|ios|opera|ie|node)(\d+(?:\.\d+)*)$`)

var scriptTargets = []string{
	"es2015", "es2016", "es2017", "es2018", "es2019", "es2020",
	"es2021", "es2022", "es2023", "es2024", "esnext",
}

// ParseEngine splits an engine spec such as "safari11" into name and version.
func ParseEngine(spec string) (name, version string, err error) {
	m := engineRegex.FindStringSubmatch(spec)
	if m == nil {
		return "", "", fmt.Errorf("invalid engine %q: expected <name><version>, e.g. chrome58", spec)
	}
	return m[1], m[2], nil
}

// Validate checks the model for settings no task could work with.
func (m *Model) Validate() error {
	var errs []error
	if m.SourceDir == "" {
		errs = append(errs, errors.New("source_dir must not be empty"))
	}
	if m.OutputDir == "" {
		errs = append(errs, errors.New("output_dir must not be empty"))
	}
	if m.SourceDir != "" && m.OutputDir != "" && filepath.Clean(m.SourceDir) == filepath.Clean(m.OutputDir) {
		errs = append(errs, fmt.Errorf("output_dir %q must differ from source_dir", m.OutputDir))
	}
	if m.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be at least 1, got %d", m.Workers))
	}
	if m.Styles.Output == "" || m.Scripts.Output == "" || m.Sprites.Output == "" {
		errs = append(errs, errors.New("styles, scripts and sprites outputs must be set"))
	}
	for _, e := range m.Styles.Engines {
		if _, _, err := ParseEngine(e); err != nil {
			errs = append(errs, err)
		}
	}
	if !slices.Contains(scriptTargets, m.Scripts.Target) {
		errs = append(errs, fmt.Errorf("unsupported scripts target %q", m.Scripts.Target))
	}
	if m.Images.JPEGQuality < 1 || m.Images.JPEGQuality > 100 {
		errs = append(errs, fmt.Errorf("images jpeg_quality must be within 1..100, got %d", m.Images.JPEGQuality))
	}
	if m.Server.Port < 0 || m.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server port %d out of range", m.Server.Port))
	}
	if m.Watch.Debounce < 0 {
		errs = append(errs, errors.New("watch debounce must not be negative"))
	}
	return errors.Join(errs...)
}
