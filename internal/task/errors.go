package task

import (
	"errors"
	"fmt"
)

// Kind classifies a task failure.
type Kind string

const (
	// KindTransform is a failure inside a transformation library, e.g. a syntax
	// error in a stylesheet. It is fatal to the task.
	KindTransform Kind = "transform"
	// KindFilesystem is an unreadable source or unwritable output. Fatal.
	KindFilesystem Kind = "filesystem"
	// KindMinify is a minifier failure. It is reported as a warning and the
	// unminified output is kept.
	KindMinify Kind = "minify"
)

// Error is the structured error a task reports.
type Error struct {
	Kind Kind
	Task string
	// Path is the file being processed, when known.
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s %s error in %s: %v", e.Task, e.Kind, e.Path, e.Err)
	}
	return fmt.Sprintf("%s %s error: %v", e.Task, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Transform builds a KindTransform error.
func Transform(task, path string, err error) *Error {
	return &Error{Kind: KindTransform, Task: task, Path: path, Err: err}
}

// Filesystem builds a KindFilesystem error.
func Filesystem(task, path string, err error) *Error {
	return &Error{Kind: KindFilesystem, Task: task, Path: path, Err: err}
}

// Minify builds a KindMinify error.
func Minify(task, path string, err error) *Error {
	return &Error{Kind: KindMinify, Task: task, Path: path, Err: err}
}

// IsKind reports whether err wraps a task Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
