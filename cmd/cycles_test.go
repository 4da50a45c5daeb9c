package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/importgraph/grimp/internal/config"
)

func TestRunCyclesFindsCycle(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "__init__.py"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.py"), []byte("import pkg.b\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.py"), []byte("import pkg.a\n"), 0o644))

	cfg = config.Default()
	cyclesDir = dir
	cyclesAsPackage = false

	err := runCycles(cyclesCmd, []string{"pkg", "pkg.a"})
	require.NoError(t, err)
}
