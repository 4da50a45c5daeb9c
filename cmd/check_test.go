package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/importgraph/grimp/internal/config"
	"github.com/importgraph/grimp/internal/telemetry"
)

func writeTestPackage(t *testing.T, dir string) {
	t.Helper()
	low := filepath.Join(dir, "pkg", "low")
	high := filepath.Join(dir, "pkg", "high")
	require.NoError(t, os.MkdirAll(low, 0o755))
	require.NoError(t, os.MkdirAll(high, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pkg", "__init__.py"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(low, "__init__.py"), []byte("import pkg.high\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(high, "__init__.py"), nil, 0o644))
}

func TestRunCheckLayersExitsOnViolation(t *testing.T) {
	dir := t.TempDir()
	writeTestPackage(t, dir)

	contractPath := filepath.Join(dir, "contract.yaml")
	require.NoError(t, os.WriteFile(contractPath, []byte(`
root_package: pkg
levels:
  - layers: [high]
  - layers: [low]
`), 0o644))

	cfg = config.Default()
	reporter = telemetry.New(true, "test")
	checkConfigPath = contractPath
	checkDir = filepath.Join(dir, "pkg")
	checkFormat = "text"

	var exitCode int
	osExit = func(code int) { exitCode = code }

	err := runCheckLayers(checkLayersCmd, []string{"pkg"})
	require.NoError(t, err)
	assert.Equal(t, exitCodeViolations, exitCode)
}

func TestRunCheckLayersCleanNoExit(t *testing.T) {
	dir := t.TempDir()
	writeTestPackage(t, dir)

	contractPath := filepath.Join(dir, "contract.yaml")
	require.NoError(t, os.WriteFile(contractPath, []byte(`
root_package: pkg
levels:
  - layers: [low]
  - layers: [high]
`), 0o644))

	cfg = config.Default()
	reporter = telemetry.New(true, "test")
	checkConfigPath = contractPath
	checkDir = filepath.Join(dir, "pkg")
	checkFormat = "text"

	called := false
	osExit = func(code int) { called = true }

	err := runCheckLayers(checkLayersCmd, []string{"pkg"})
	require.NoError(t, err)
	assert.False(t, called)
}
