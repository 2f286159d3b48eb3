package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/specialistvlad/assetgrid/internal/app"
	"github.com/specialistvlad/assetgrid/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_DefaultIsDev(t *testing.T) {
	// --- Act ---
	inv, shouldExit, err := Parse(nil, &bytes.Buffer{})

	// --- Assert ---
	require.NoError(t, err)
	require.False(t, shouldExit)
	assert.Equal(t, "dev", inv.Target)
	assert.Equal(t, "info", inv.Config.LogLevel)
	assert.Equal(t, "text", inv.Config.LogFormat)
	assert.Nil(t, inv.Config.Port, "an unset flag must not override the config file")
	assert.Nil(t, inv.Config.Workers)
}

func TestParse_Commands(t *testing.T) {
	cases := []struct {
		args []string
		want Invocation
	}{
		{args: []string{"build"}, want: Invocation{Target: "build"}},
		{args: []string{"dev"}, want: Invocation{Target: "dev"}},
		{args: []string{"watch"}, want: Invocation{Target: "watch"}},
		{args: []string{"list"}, want: Invocation{List: true}},
		{args: []string{"run", "styles", "scripts"}, want: Invocation{Tasks: []string{"styles", "scripts"}}},
	}
	for _, tc := range cases {
		t.Run(tc.args[0], func(t *testing.T) {
			inv, _, err := Parse(tc.args, &bytes.Buffer{})

			require.NoError(t, err)
			assert.Equal(t, tc.want.Target, inv.Target)
			assert.Equal(t, tc.want.Tasks, inv.Tasks)
			assert.Equal(t, tc.want.List, inv.List)
			assert.NotNil(t, inv.Config)
		})
	}
}

func TestParse_Flags(t *testing.T) {
	args := []string{
		"build",
		"--config", "site.toml",
		"--source", "web",
		"--output", "public",
		"--host", "0.0.0.0",
		"--port", "0",
		"--workers", "1",
		"--log-level", "DEBUG",
		"--log-format", "json",
	}

	inv, _, err := Parse(args, &bytes.Buffer{})

	require.NoError(t, err)
	cfg := inv.Config
	assert.Equal(t, "site.toml", cfg.ConfigPath)
	assert.Equal(t, "web", cfg.SourceDir)
	assert.Equal(t, "public", cfg.OutputDir)
	assert.Equal(t, "0.0.0.0", cfg.Host)
	require.NotNil(t, cfg.Port)
	assert.Equal(t, 0, *cfg.Port)
	require.NotNil(t, cfg.Workers)
	assert.Equal(t, 1, *cfg.Workers)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestParse_FlagsBeforeCommand(t *testing.T) {
	inv, _, err := Parse([]string{"-c", "a.hcl", "watch"}, &bytes.Buffer{})

	require.NoError(t, err)
	assert.Equal(t, "watch", inv.Target)
	assert.Equal(t, "a.hcl", inv.Config.ConfigPath)
}

func TestParse_ModeFromEnvironment(t *testing.T) {
	t.Setenv(config.EnvVar, "production")

	inv, _, err := Parse([]string{"build"}, &bytes.Buffer{})

	require.NoError(t, err)
	assert.Equal(t, config.Production, inv.Config.Mode)
}

func TestParse_Help(t *testing.T) {
	out := &bytes.Buffer{}

	inv, shouldExit, err := Parse([]string{"--help"}, out)

	require.NoError(t, err)
	assert.True(t, shouldExit)
	assert.Nil(t, inv)
	assert.Contains(t, out.String(), "Usage:")
	assert.Contains(t, out.String(), "build")
	assert.Contains(t, out.String(), "NODE_ENV=production")
}

func TestParse_UsageErrors(t *testing.T) {
	cases := map[string]struct {
		args []string
		msg  string
	}{
		"unknown flag":      {args: []string{"--nope"}, msg: "unknown flag: --nope"},
		"unknown command":   {args: []string{"deploy"}, msg: `unknown command "deploy"`},
		"run needs tasks":   {args: []string{"run"}, msg: "requires at least 1 arg(s)"},
		"bad log level":     {args: []string{"--log-level", "loud"}, msg: "invalid log-level"},
		"bad log format":    {args: []string{"--log-format", "xml"}, msg: "invalid log-format"},
		"zero workers":      {args: []string{"build", "--workers", "0"}, msg: "invalid workers"},
		"port not a number": {args: []string{"--port", "http"}, msg: "invalid argument"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := Parse(tc.args, &bytes.Buffer{})

			var exitErr *ExitError
			require.True(t, errors.As(err, &exitErr), "expected an ExitError, got %v", err)
			assert.Equal(t, 2, exitErr.Code)
			assert.Contains(t, exitErr.Message, tc.msg)
		})
	}
}

func newApp(t *testing.T) *app.App {
	t.Helper()
	root := t.TempDir()
	a, _ := app.SetupAppTest(t, &app.Config{WorkDir: root, SourceDir: root + "/src", OutputDir: root + "/dist"})
	return a
}

func TestExecute_List(t *testing.T) {
	out := &bytes.Buffer{}

	err := Execute(context.Background(), newApp(t), &Invocation{List: true}, out)

	require.NoError(t, err)
	assert.Contains(t, out.String(), "svgSprites")
}

func TestExecute_UnknownTaskIsUsageError(t *testing.T) {
	err := Execute(context.Background(), newApp(t), &Invocation{Tasks: []string{"styles", "lint"}}, &bytes.Buffer{})

	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 2, exitErr.Code)
	assert.Contains(t, exitErr.Message, "unknown task 'lint'")
}

func TestExecute_RunsTasks(t *testing.T) {
	err := Execute(context.Background(), newApp(t), &Invocation{Tasks: []string{"clean"}}, &bytes.Buffer{})
	assert.NoError(t, err)
}
