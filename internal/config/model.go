package config

import (
	"path/filepath"
	"time"
)

// Model is the unified, format-agnostic representation of the pipeline
// configuration. All glob patterns are slash-separated and relative to
// SourceDir; all output paths are relative to OutputDir.
type Model struct {
	Mode      Mode
	SourceDir string
	OutputDir string
	Workers   int

	Styles    Styles
	Scripts   Scripts
	Markup    Markup
	Sprites   Sprites
	Images    Images
	Resources Resources
	Server    Server
	Watch     Watch
}

// Styles configures the stylesheet concatenation task.
type Styles struct {
	Sources []string
	Output  string
	// Engines drive vendor prefixing, e.g. "chrome58" or "safari11".
	Engines []string
}

// Scripts configures the script transpile-and-concatenate task.
type Scripts struct {
	// Components are bundled first, in traversal order.
	Components []string
	// Entry is bundled last.
	Entry  string
	Output string
	// Target is the syntax baseline, e.g. "es2015".
	Target string
}

// Markup configures the HTML copy task.
type Markup struct {
	Sources []string
}

// Sprites configures the SVG sprite task.
type Sprites struct {
	Sources []string
	// Root is stripped from source paths when deriving symbol ids.
	Root   string
	Output string
}

// Images configures the image copy/compress task.
type Images struct {
	Sources []string
	// Root is stripped from source paths before they are placed under OutputDir.
	Root        string
	OutputDir   string
	JPEGQuality int
}

// Resources configures the verbatim copy task.
type Resources struct {
	Sources []string
	// Root is stripped from source paths so files land in the output root.
	Root string
}

// Server configures the development HTTP server.
type Server struct {
	Host string
	Port int
}

// Watch configures the file-watch loop.
type Watch struct {
	Debounce time.Duration
}

// SourcePath joins a slash-separated relative path onto SourceDir.
func (m *Model) SourcePath(rel string) string {
	return filepath.Join(m.SourceDir, filepath.FromSlash(rel))
}

// OutputPath joins a slash-separated relative path onto OutputDir.
func (m *Model) OutputPath(rel string) string {
	return filepath.Join(m.OutputDir, filepath.FromSlash(rel))
}

// Clone returns a deep copy so loaders can overlay settings without
// mutating the defaults they were handed.
func (m *Model) Clone() *Model {
	c := *m
	c.Styles.Sources = cloneStrings(m.Styles.Sources)
	c.Styles.Engines = cloneStrings(m.Styles.Engines)
	c.Scripts.Components = cloneStrings(m.Scripts.Components)
	c.Markup.Sources = cloneStrings(m.Markup.Sources)
	c.Sprites.Sources = cloneStrings(m.Sprites.Sources)
	c.Images.Sources = cloneStrings(m.Images.Sources)
	c.Resources.Sources = cloneStrings(m.Resources.Sources)
	return &c
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
