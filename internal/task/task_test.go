package task

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_UnwrapsThroughWrapping(t *testing.T) {
	// --- Arrange ---
	base := Filesystem("styles", "styles/a.css", fs.ErrNotExist)
	wrapped := fmt.Errorf("execution failed for styles: %w", base)

	// --- Act ---
	var taskErr *Error
	ok := errors.As(wrapped, &taskErr)

	// --- Assert ---
	require.True(t, ok)
	assert.Equal(t, KindFilesystem, taskErr.Kind)
	assert.ErrorIs(t, wrapped, fs.ErrNotExist)
	assert.Equal(t, "styles filesystem error in styles/a.css: file does not exist", base.Error())
	assert.True(t, IsKind(wrapped, KindFilesystem))
	assert.False(t, IsKind(wrapped, KindMinify))
	assert.False(t, IsKind(fs.ErrNotExist, KindFilesystem))
}

func TestError_MessageWithoutPath(t *testing.T) {
	err := Transform("scripts", "", errors.New("unexpected token"))
	assert.Equal(t, "scripts transform error: unexpected token", err.Error())
}

func TestResult_Lifecycle(t *testing.T) {
	r := Begin("scripts")
	r.Wrote("app.js")
	r.Warn(Minify("scripts", "app.js", errors.New("boom")))
	r.Succeed()

	assert.Equal(t, Succeeded, r.Status)
	assert.Equal(t, []string{"app.js"}, r.Written)
	assert.ErrorContains(t, r.Warning(), "scripts minify error in app.js: boom")
	assert.False(t, r.Finished.Before(r.Started))

	failed := Begin("styles").Fail(errors.New("bad css"))
	assert.Equal(t, Failed, failed.Status)
	assert.Nil(t, Begin("x").Succeed().Warning())

	skipped := Skip("images", errors.New("upstream failed"))
	assert.Equal(t, "skipped", skipped.Status.String())
	assert.Zero(t, skipped.Duration())
}

type barrierTask struct{ Task }

func (barrierTask) Barrier() bool { return true }

func TestIsBarrier(t *testing.T) {
	assert.True(t, IsBarrier(barrierTask{}))
	assert.False(t, IsBarrier(struct{ Task }{}))
}
