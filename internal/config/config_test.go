package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}
}

func TestModeFromEnv(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		env  map[string]string
		want Mode
	}{
		{"unset", map[string]string{}, Development},
		{"production sentinel", map[string]string{EnvVar: "production"}, Production},
		{"other value", map[string]string{EnvVar: "staging"}, Development},
		{"case sensitive", map[string]string{EnvVar: "Production"}, Development},
		{"empty", map[string]string{EnvVar: ""}, Development},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ModeFromEnv(lookupFrom(tc.env))
			assert.Equal(t, tc.want, got)
			assert.Equal(t, got == Production, got.IsProduction())
			assert.Equal(t, got != Production, got.SourceMaps())
		})
	}
}

func TestDefault_IsValid(t *testing.T) {
	t.Parallel()
	require.NoError(t, Default(Development).Validate())
	require.NoError(t, Default(Production).Validate())
}

func TestValidate_CollectsAllProblems(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	m := Default(Development)
	m.OutputDir = "src/"
	m.Workers = 0
	m.Styles.Engines = []string{"netscape4"}
	m.Scripts.Target = "es3"

	// --- Act ---
	err := m.Validate()

	// --- Assert ---
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "must differ from source_dir")
	assert.Contains(t, msg, "workers must be at least 1")
	assert.Contains(t, msg, `invalid engine "netscape4"`)
	assert.Contains(t, msg, `unsupported scripts target "es3"`)
}

func TestParseEngine(t *testing.T) {
	t.Parallel()

	name, version, err := ParseEngine("safari11.1")
	require.NoError(t, err)
	assert.Equal(t, "safari", name)
	assert.Equal(t, "11.1", version)

	_, _, err = ParseEngine("safari")
	assert.Error(t, err)
}

func TestClone_IsDeep(t *testing.T) {
	t.Parallel()

	orig := Default(Development)
	c := orig.Clone()
	c.Styles.Sources[0] = "changed/**/*.css"
	c.Images.Sources = append(c.Images.Sources, "images/**/*.gif")

	assert.Equal(t, "styles/**/*.css", orig.Styles.Sources[0])
	assert.Len(t, orig.Images.Sources, 4)
}

func TestPaths(t *testing.T) {
	t.Parallel()

	m := Default(Development)
	m.SourceDir = "/work/src"
	m.OutputDir = "/work/dist"
	assert.Equal(t, "/work/src/styles/a.css", m.SourcePath("styles/a.css"))
	assert.Equal(t, "/work/dist/images/sprite.svg", m.OutputPath(m.Sprites.Output))
}
