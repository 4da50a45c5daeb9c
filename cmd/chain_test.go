package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/importgraph/grimp/internal/config"
)

func TestRunChainFindsPath(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "__init__.py"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.py"), []byte("import pkg.b\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.py"), []byte("import pkg.c\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "c.py"), nil, 0o644))

	cfg = config.Default()
	chainDir = dir
	chainAll = false
	chainAsPackages = false

	err := runChain(chainCmd, []string{"pkg", "pkg.a", "pkg.c"})
	require.NoError(t, err)
}

func TestRunChainAllFindsChains(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "__init__.py"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.py"), []byte("import pkg.b\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.py"), nil, 0o644))

	cfg = config.Default()
	chainDir = dir
	chainAll = true
	chainAsPackages = false

	err := runChain(chainCmd, []string{"pkg", "pkg.a", "pkg.b"})
	require.NoError(t, err)
}

func TestRunChainMissingModule(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "__init__.py"), nil, 0o644))

	cfg = config.Default()
	chainDir = dir

	err := runChain(chainCmd, []string{"pkg", "pkg.missing", "pkg.alsomissing"})
	require.Error(t, err)
}
