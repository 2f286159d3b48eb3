package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/specialistvlad/assetgrid/internal/config"
	"github.com/specialistvlad/assetgrid/internal/registry"
	"github.com/specialistvlad/assetgrid/internal/task"
	"github.com/specialistvlad/assetgrid/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var site = map[string]string{
	"index.html":                "<html><body><div>  </div></body></html>",
	"styles/base.css":           ".a { color: red; }",
	"styles/layout/grid.css":    ".g { display: flex; }",
	"js/components/a.js":        "export function greet(name) { return 'hi ' + name }",
	"js/main.js":                "console.log(greet('main'))",
	"images/svg/icons/star.svg": `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10"><path d="M0 0L10 10"/></svg>`,
	"resources/robots.txt":      "User-agent: *",
	"resources/fonts/a.woff":    "\x00font\x01",
}

// project lays out files under <tmp>/src and returns an app building into
// <tmp>/dist.
func project(t *testing.T, mode config.Mode, files map[string]string, modules ...registry.Module) (*App, *testutil.SafeBuffer, string) {
	t.Helper()
	root := t.TempDir()
	testutil.WriteTree(t, filepath.Join(root, "src"), files)
	a, logs := SetupAppTest(t, &Config{
		WorkDir:   root,
		Mode:      mode,
		SourceDir: filepath.Join(root, "src"),
		OutputDir: filepath.Join(root, "dist"),
		Host:      "127.0.0.1",
		Port:      IntPtr(0),
	}, modules...)
	return a, logs, root
}

func TestApp_BuildProduction(t *testing.T) {
	// --- Arrange ---
	a, _, root := project(t, config.Production, site)
	dist := filepath.Join(root, "dist")

	// --- Act ---
	err := a.RunTarget(context.Background(), "build")

	// --- Assert ---
	require.NoError(t, err)

	css := testutil.ReadFile(t, dist, "main.css")
	assert.Less(t, strings.Index(css, ".a{color:red}"), strings.Index(css, ".g{display:flex}"))
	assert.NotContains(t, css, "sourceMappingURL")

	js := testutil.ReadFile(t, dist, "app.js")
	assert.Contains(t, js, "hi ")
	assert.Contains(t, js, `greet("main")`, "the entry calls the component through the shared scope")
	assert.NotContains(t, js, "export")
	assert.NotContains(t, js, "sourceMappingURL")

	assert.NotContains(t, testutil.ReadFile(t, dist, "index.html"), "<div>  </div>")
	assert.Contains(t, testutil.ReadFile(t, dist, "images/sprite.svg"), `id="icons--star"`)
	assert.Equal(t, site["resources/robots.txt"], testutil.ReadFile(t, dist, "robots.txt"))
	assert.Equal(t, site["resources/fonts/a.woff"], testutil.ReadFile(t, dist, "fonts/a.woff"))
}

func TestApp_BuildDevelopment(t *testing.T) {
	a, _, root := project(t, config.Development, site)
	dist := filepath.Join(root, "dist")

	require.NoError(t, a.RunTarget(context.Background(), "build"))

	assert.Contains(t, testutil.ReadFile(t, dist, "app.js"), "//# sourceMappingURL=")
	assert.Contains(t, testutil.ReadFile(t, dist, "main.css"), "sourceMappingURL")
	assert.Equal(t, site["index.html"], testutil.ReadFile(t, dist, "index.html"))
}

func TestApp_BuildStartsFromACleanOutput(t *testing.T) {
	a, _, root := project(t, config.Development, site)
	testutil.WriteTree(t, filepath.Join(root, "dist"), map[string]string{"stale.txt": "old"})

	require.NoError(t, a.RunTarget(context.Background(), "build"))

	_, err := os.Stat(filepath.Join(root, "dist", "stale.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestApp_FailFastSkipsUnstartedTasks(t *testing.T) {
	// --- Arrange ---
	files := map[string]string{
		"js/main.js":      "const = ;",
		"styles/base.css": ".a{}",
	}
	root := t.TempDir()
	testutil.WriteTree(t, filepath.Join(root, "src"), files)
	a, logs := SetupAppTest(t, &Config{
		WorkDir:   root,
		SourceDir: filepath.Join(root, "src"),
		OutputDir: filepath.Join(root, "dist"),
		Workers:   IntPtr(1),
	})

	// --- Act ---
	err := a.Run(context.Background(), []string{"scripts", "styles"})

	// --- Assert ---
	require.Error(t, err)
	assert.Contains(t, err.Error(), "execution failed for scripts")
	assert.True(t, task.IsKind(err, task.KindTransform), "root cause should be a transform error: %v", err)
	_, statErr := os.Stat(filepath.Join(root, "dist", "main.css"))
	assert.ErrorIs(t, statErr, os.ErrNotExist, "styles must not have started")
	assert.Contains(t, logs.String(), "Skipping task that never started.")
}

type explodingModule struct{}

func (explodingModule) Register(r *registry.Registry) { r.RegisterTask(explodingTask{}) }

type explodingTask struct{}

func (explodingTask) Name() string { return "explode" }
func (explodingTask) Sources(*config.Model) []string { return nil }
func (explodingTask) Outputs(context.Context, *config.Model) ([]string, error) {
	return []string{"boom.txt"}, nil
}
func (explodingTask) Run(context.Context, *config.Model) *task.Result {
	return task.Begin("explode").Fail(errors.New("boom"))
}

func TestApp_FailureIsNotified(t *testing.T) {
	a, logs, _ := project(t, config.Development, nil, explodingModule{})

	err := a.Run(context.Background(), []string{"explode"})

	require.EqualError(t, err, "execution failed for explode: boom")
	assert.Contains(t, logs.String(), " BUILD ERROR ")
	assert.Contains(t, logs.String(), "explode: boom")
	assert.Equal(t, 1, strings.Count(logs.String(), "🔥 Task failed"), "the failure is logged once")
}

func TestApp_RunRejectsUnknownNames(t *testing.T) {
	a, _, _ := project(t, config.Development, nil)

	err := a.Run(context.Background(), []string{"styles", "nope"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown task 'nope'")

	err = a.RunTarget(context.Background(), "deploy")
	assert.EqualError(t, err, "unknown target 'deploy'")
}

func TestApp_RunTaskCarriesFailuresInTheResult(t *testing.T) {
	a, _, _ := project(t, config.Development, nil, explodingModule{})

	res := a.RunTask(context.Background(), "explode")
	assert.Equal(t, task.Failed, res.Status)
	assert.EqualError(t, res.Err, "boom")

	res = a.RunTask(context.Background(), "missing")
	assert.Equal(t, task.Failed, res.Status)
	assert.Contains(t, res.Err.Error(), "unknown task 'missing'")
}

func TestApp_WatchRebuildsOnlyStyles(t *testing.T) {
	// --- Arrange ---
	a, _, root := project(t, config.Development, site)
	src, dist := filepath.Join(root, "src"), filepath.Join(root, "dist")
	require.NoError(t, a.RunTarget(context.Background(), "build"))

	scriptPath := filepath.Join(dist, "app.js")
	before, err := os.ReadFile(scriptPath)
	require.NoError(t, err)
	beforeInfo, err := os.Stat(scriptPath)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- a.RunTarget(ctx, "watch") }()

	// --- Act ---
	require.Eventually(t, func() bool {
		testutil.WriteTree(t, src, map[string]string{"styles/base.css": ".a { color: blue; }"})
		css, err := os.ReadFile(filepath.Join(dist, "main.css"))
		return err == nil && bytes.Contains(css, []byte("blue"))
	}, 10*time.Second, 250*time.Millisecond, "styles were never rebuilt")
	cancel()

	// --- Assert ---
	select {
	case err := <-done:
		require.NoError(t, err, "stopping a watch session is not a failure")
	case <-time.After(10 * time.Second):
		t.Fatal("watch session did not stop")
	}
	after, err := os.ReadFile(scriptPath)
	require.NoError(t, err)
	afterInfo, err := os.Stat(scriptPath)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, beforeInfo.ModTime(), afterInfo.ModTime(), "app.js must not be rewritten")
}

func TestNewApp_ConfigLayering(t *testing.T) {
	// --- Arrange ---
	root := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{
		"assetgrid.yaml": "workers: 2\nserver:\n  port: 4000\nstyles:\n  output: site.css\n",
	})

	// --- Act ---
	a, _ := SetupAppTest(t, &Config{WorkDir: root, Workers: IntPtr(8), OutputDir: "public"})

	// --- Assert ---
	cfg := a.Config()
	assert.Equal(t, 8, cfg.Workers, "flags win over the file")
	assert.Equal(t, 4000, cfg.Server.Port)
	assert.Equal(t, "site.css", cfg.Styles.Output)
	assert.Equal(t, "public", cfg.OutputDir)
	assert.Equal(t, "src", cfg.SourceDir, "defaults fill the rest")
}

func TestNewApp_ConfigErrorsPanic(t *testing.T) {
	cases := map[string]map[string]string{
		"invalid value":      {"assetgrid.toml": "workers = 0\n"},
		"unknown key":        {"assetgrid.yml": "wrokers: 3\n"},
		"hcl syntax":         {"assetgrid.hcl": "styles {\n"},
		"unsupported format": {"custom.ini": "x=1"},
	}
	for name, files := range cases {
		t.Run(name, func(t *testing.T) {
			root := t.TempDir()
			testutil.WriteTree(t, root, files)
			cfg := &Config{WorkDir: root}
			if _, ok := files["custom.ini"]; ok {
				cfg.ConfigPath = filepath.Join(root, "custom.ini")
			}

			var recovered any
			func() {
				defer func() { recovered = recover() }()
				SetupAppTest(t, cfg)
			}()

			err, ok := recovered.(error)
			require.True(t, ok, "expected a panic with an error, got %v", recovered)
			assert.ErrorIs(t, err, ErrConfig)
		})
	}
}

func TestApp_List(t *testing.T) {
	a, _, _ := project(t, config.Development, nil)
	var out bytes.Buffer

	require.NoError(t, a.List(&out))

	lines := strings.Split(out.String(), "\n")
	assert.Regexp(t, `^TASK\s+SOURCES$`, lines[0])
	assert.Regexp(t, `^clean\s+-$`, lines[1])
	assert.Contains(t, out.String(), "styles/**/*.css")
	assert.Contains(t, out.String(), "js/components/**/*.js js/main.js")
	assert.Regexp(t, `(?m)^watchFiles\s+\(sources of every task above\)$`, out.String())
	assert.Regexp(t, `(?m)^build\s+clean → resources → htmlMinify → styles → svgSprites → images → scripts$`, out.String())
}
