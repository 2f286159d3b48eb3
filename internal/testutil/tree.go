// Package testutil holds fixtures shared by the package tests: a thread-safe
// log buffer and helpers that lay out and read back source trees.
package testutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/assetgrid/internal/config"
	"github.com/stretchr/testify/require"
)

// WriteTree creates files under root. Keys are slash-separated relative paths.
func WriteTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, body := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755), "failed to create fixture dir")
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644), "failed to write fixture %s", rel)
	}
}

// ReadTree returns every regular file under root keyed by slash-separated
// relative path. A missing root yields an empty map.
func ReadTree(t *testing.T, root string) map[string]string {
	t.Helper()
	out := make(map[string]string)
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) && p == root {
				return fs.SkipAll
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		out[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	require.NoError(t, err, "failed to read tree %s", root)
	return out
}

// ReadFile returns the content of a slash-separated path under root.
func ReadFile(t *testing.T, root, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	require.NoError(t, err, "failed to read %s", rel)
	return string(data)
}

// Project returns the default configuration rooted in a fresh temporary
// directory, with the given files written under its source dir.
func Project(t *testing.T, mode config.Mode, files map[string]string) *config.Model {
	t.Helper()
	root := t.TempDir()
	cfg := config.Default(mode)
	cfg.SourceDir = filepath.Join(root, "src")
	cfg.OutputDir = filepath.Join(root, "dist")
	require.NoError(t, os.MkdirAll(cfg.SourceDir, 0o755))
	WriteTree(t, cfg.SourceDir, files)
	return cfg
}
