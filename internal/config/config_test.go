package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	hierrors "github.com/toyz/hierq/internal/errors"
	"github.com/toyz/hierq/internal/utils"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hierq.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// chdir moves into an empty directory so no stray hierq.yaml or .env is picked up
func chdir(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "table", cfg.Output.Format)
}

func TestLoad_File(t *testing.T) {
	chdir(t)
	path := writeConfig(t, `
models:
  - ./models/...
  - extra.yaml
namespace: com.acme.annotations
output:
  level: verbose
  format: json
server:
  addr: 127.0.0.1:9000
loader:
  strict: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"./models/...", "extra.yaml"}, cfg.Models)
	assert.Equal(t, "com.acme.annotations", cfg.Namespace)
	assert.Equal(t, "verbose", cfg.Output.Level)
	assert.Equal(t, "auto", cfg.Output.Color, "unset keys keep their defaults")
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.True(t, cfg.Loader.Strict)
}

func TestLoad_DefaultFileInWorkingDirectory(t *testing.T) {
	chdir(t)
	require.NoError(t, os.WriteFile(DefaultFile, []byte("namespace: org.example\n"), 0644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "org.example", cfg.Namespace)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	chdir(t)
	path := writeConfig(t, "namespace: com.acme\nmodels: [a.yaml]\n")

	t.Setenv("HIERQ_MODELS", " one.yaml, ,two/... ")
	t.Setenv("HIERQ_NAMESPACE", "org.override")
	t.Setenv("HIERQ_OUTPUT_COLOR", "never")
	t.Setenv("HIERQ_SERVER_ADDR", ":9999")
	t.Setenv("HIERQ_LOADER_STRICT", "true")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"one.yaml", "two/..."}, cfg.Models)
	assert.Equal(t, "org.override", cfg.Namespace)
	assert.Equal(t, "never", cfg.Output.Color)
	assert.Equal(t, ":9999", cfg.Server.Addr)
	assert.True(t, cfg.Loader.Strict)
}

func TestLoad_DotEnv(t *testing.T) {
	chdir(t)
	require.NoError(t, os.WriteFile(".env", []byte("HIERQ_OUTPUT_LEVEL=debug\n"), 0644))
	t.Cleanup(func() { os.Unsetenv("HIERQ_OUTPUT_LEVEL") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Output.Level)
}

func TestLoad_Errors(t *testing.T) {
	chdir(t)

	tests := []struct {
		name    string
		content string
		env     map[string]string
	}{
		{name: "malformed yaml", content: "models: [unclosed\n"},
		{name: "bad level", content: "output:\n  level: loud\n"},
		{name: "bad format", content: "output:\n  format: xml\n"},
		{name: "bad namespace", content: "namespace: com..acme\n"},
		{name: "bad address", content: "server:\n  addr: localhost\n"},
		{name: "bad strict env", content: "", env: map[string]string{"HIERQ_LOADER_STRICT": "maybe"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.True(t, errors.Is(err, hierrors.ErrConfiguration), err.Error())
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, hierrors.ErrConfiguration))
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	cfg := Default()
	cfg.Output.Format = "xml"
	cfg.Server.Addr = "nope"

	err := cfg.Validate()
	require.Error(t, err)

	var multi *hierrors.MultipleErrors
	require.True(t, errors.As(err, &multi))
	assert.Len(t, multi.Errors, 2)
}

func TestRequireModels(t *testing.T) {
	cfg := Default()
	err := cfg.RequireModels()
	require.Error(t, err)
	assert.True(t, errors.Is(err, hierrors.ErrConfiguration))

	cfg.Models = []string{"types.yaml"}
	assert.NoError(t, cfg.RequireModels())
}

func TestDiagnostics(t *testing.T) {
	cfg := Default()
	cfg.Output.Level = "warn"
	assert.Equal(t, utils.DiagnosticWarn, cfg.Diagnostics().Level())
}

func TestQualifyAnnotation(t *testing.T) {
	cfg := Default()
	cfg.Namespace = "com.acme"

	assert.Equal(t, "com.acme.Entity", cfg.QualifyAnnotation("Entity"))
	assert.Equal(t, "org.other.Entity", cfg.QualifyAnnotation("org.other.Entity"))
	assert.Equal(t, "", cfg.QualifyAnnotation(""))

	cfg.Namespace = ""
	assert.Equal(t, "Entity", cfg.QualifyAnnotation("Entity"))
}
