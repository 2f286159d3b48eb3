package fsutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Match is one file found by Glob.
type Match struct {
	// Rel is the slash-separated path relative to the glob root.
	Rel string
	// Abs is the path on disk.
	Abs string
}

// Glob walks root once and returns every regular file matching any of the
// patterns. Results follow lexical directory traversal order and each file
// appears at most once. A missing root yields no matches.
func Glob(root string, patterns []string) ([]Match, error) {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid glob pattern %q", p)
		}
	}

	var matches []Match
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == root && errors.Is(err, fs.ErrNotExist) {
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
		rel = filepath.ToSlash(rel)
		if MatchAny(patterns, rel) {
			matches = append(matches, Match{Rel: rel, Abs: p})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}
	return matches, nil
}

// MatchAny reports whether the slash-separated rel matches one of patterns.
func MatchAny(patterns []string, rel string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

// StripRoot removes the slash-separated root prefix from rel. Paths outside
// root are returned unchanged.
func StripRoot(rel, root string) string {
	root = strings.Trim(path.Clean(root), "/")
	if root == "" || root == "." {
		return rel
	}
	if trimmed, ok := strings.CutPrefix(rel, root+"/"); ok {
		return trimmed
	}
	return rel
}

// Exists reports whether p exists.
func Exists(p string) (bool, error) {
	_, err := os.Stat(p)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}
