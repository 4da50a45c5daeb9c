package importcache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"

	"github.com/importgraph/grimp/internal/importparse"
)

func TestCacheMissThenHit(t *testing.T) {
	dir := t.TempDir()
	c, err := Open(dir)
	require.NoError(t, err)
	defer c.Close()

	_, ok := c.Get("pkg", "pkg.a", 123)
	assert.False(t, ok)

	c.Put("pkg", "pkg.a", CachedImports{
		MTimeSecs:       123,
		ImportedObjects: []importparse.ImportedObject{{Name: "os", LineNumber: 1}},
	})

	got, ok := c.Get("pkg", "pkg.a", 123)
	require.True(t, ok)
	assert.Equal(t, "os", got.ImportedObjects[0].Name)

	_, ok = c.Get("pkg", "pkg.a", 456)
	assert.False(t, ok, "stale mtime should miss")
}

func TestCacheRoundTripsThroughDisk(t *testing.T) {
	dir := t.TempDir()
	c, err := Open(dir)
	require.NoError(t, err)

	c.Put("pkg", "pkg.a", CachedImports{MTimeSecs: 1, ImportedObjects: []importparse.ImportedObject{{Name: "sys"}}})
	require.NoError(t, c.Save("pkg"))
	require.NoError(t, c.Close())

	c2, err := Open(dir)
	require.NoError(t, err)
	defer c2.Close()

	got, ok := c2.Get("pkg", "pkg.a", 1)
	require.True(t, ok)
	assert.Equal(t, "sys", got.ImportedObjects[0].Name)
}

func TestCacheWritesMarkerFiles(t *testing.T) {
	dir := t.TempDir()
	c, err := Open(dir)
	require.NoError(t, err)
	defer c.Close()

	c.Put("pkg", "pkg.a", CachedImports{MTimeSecs: 1})
	require.NoError(t, c.Save("pkg"))

	assert.FileExists(t, filepath.Join(dir, ".gitignore"))
	assert.FileExists(t, filepath.Join(dir, "CACHEDIR.TAG"))

	body, err := os.ReadFile(filepath.Join(dir, "CACHEDIR.TAG"))
	require.NoError(t, err)
	assert.Contains(t, string(body), "Signature: 8a477f597d28d172789f06886806bc55")
}

func TestCacheCorruptBlobFallsBackToEmpty(t *testing.T) {
	dir := t.TempDir()
	c, err := Open(dir)
	require.NoError(t, err)

	require.NoError(t, c.db.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists([]byte("pkg" + bucketSuffix))
		if err != nil {
			return err
		}
		return bucket.Put([]byte("blob"), []byte("not a valid gob blob"))
	}))
	require.NoError(t, c.Close())

	c2, err := Open(dir)
	require.NoError(t, err)
	defer c2.Close()

	_, ok := c2.Get("pkg", "pkg.a", 1)
	assert.False(t, ok, "corrupt cache should be swallowed as a miss")
}
