package app

import (
	"os"
	"testing"

	"github.com/specialistvlad/assetgrid/internal/registry"
	"github.com/specialistvlad/assetgrid/internal/testutil"
)

// SetupAppTest creates a new app instance for system testing. Set
// ASSETGRID_TEST_LOGS=true to print the captured log after each test.
func SetupAppTest(t *testing.T, appConfig *Config, modules ...registry.Module) (*App, *testutil.SafeBuffer) {
	t.Helper()

	logBuffer := &testutil.SafeBuffer{}
	appConfig.LogLevel = "debug"
	if appConfig.WorkDir == "" {
		appConfig.WorkDir = t.TempDir()
	}
	testApp := NewApp(logBuffer, appConfig, nil, modules...)

	t.Cleanup(func() {
		if os.Getenv("ASSETGRID_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})

	return testApp, logBuffer
}

// IntPtr returns a pointer to v, for the optional integer overrides of Config.
func IntPtr(v int) *int { return &v }
