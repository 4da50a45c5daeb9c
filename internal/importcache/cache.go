// Package importcache persists parsed import lists between builder
// runs, keyed by file modification time. A bbolt-backed store holds
// one bucket per package on disk; an in-memory LRU
// (hashicorp/golang-lru) sits in front of it so a long-lived process
// such as `grimpctl serve` can skip the disk round-trip on repeated
// builds of the same package.
package importcache

import (
	"bytes"
	"encoding/gob"
	"os"
	"path/filepath"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"

	"github.com/importgraph/grimp/internal/importparse"
)

// CachedImports is one file's cached parse result: the mtime it was
// parsed at, and the parsed imports.
type CachedImports struct {
	MTimeSecs       int64
	ImportedObjects []importparse.ImportedObject
}

const (
	bucketSuffix  = ".imports"
	gitignoreName = ".gitignore"
	cachedirTag   = "CACHEDIR.TAG"
	gitignoreBody = "# Automatically created by grimp.\n*"
	cachedirSig   = "Signature: 8a477f597d28d172789f06886806bc55\n"
	hotCacheSize  = 4096
	dbFilePerm    = 0o600
	dbOpenTimeout = 2 * time.Second
)

// Cache is a per-package imports cache backed by a bbolt database
// under dir, fronted by an in-process LRU. Coarse-grained and
// last-writer-wins across processes: concurrent builders must
// coordinate externally. Within a process, Get/Put/Save are safe for
// concurrent use (the builder's workers hit the cache in parallel);
// mu guards the per-package entry maps the LRU hands out.
type Cache struct {
	dir string
	db  *bolt.DB
	mu  sync.Mutex
	hot *lru.Cache[string, map[string]CachedImports]
}

// Open opens (creating if necessary) the cache directory dir and its
// bbolt database. On any failure to open the on-disk store, Open
// still returns a usable Cache with db == nil: callers degrade to
// recomputing everything rather than failing the build.
func Open(dir string) (*Cache, error) {
	hot, err := lru.New[string, map[string]CachedImports](hotCacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "allocate hot cache")
	}
	c := &Cache{dir: dir, hot: hot}

	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return c, nil
	}
	db, err := bolt.Open(filepath.Join(dir, "grimp-imports.db"), dbFilePerm, &bolt.Options{Timeout: dbOpenTimeout})
	if err != nil {
		return c, nil
	}
	c.db = db
	return c, nil
}

// Close releases the on-disk database, if one was opened.
func (c *Cache) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Get returns the cached imports for module inside package, iff the
// stored mtime equals mtimeSecs.
func (c *Cache) Get(pkg, module string, mtimeSecs int64) (CachedImports, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entries := c.loadPackage(pkg)
	entry, ok := entries[module]
	if !ok || entry.MTimeSecs != mtimeSecs {
		return CachedImports{}, false
	}
	return entry, true
}

// Put records the parsed imports for module inside package. Callers
// must call Save to persist the package's accumulated entries to
// disk.
func (c *Cache) Put(pkg, module string, entry CachedImports) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entries := c.loadPackage(pkg)
	entries[module] = entry
	c.hot.Add(pkg, entries)
}

// loadPackage returns the package's entry map, from the hot cache if
// present, else from disk (or empty, on a miss or decode failure).
// Callers must hold mu.
func (c *Cache) loadPackage(pkg string) map[string]CachedImports {
	if entries, ok := c.hot.Get(pkg); ok {
		return entries
	}

	entries := make(map[string]CachedImports)
	if c.db != nil {
		_ = c.db.View(func(tx *bolt.Tx) error {
			bucket := tx.Bucket([]byte(pkg + bucketSuffix))
			if bucket == nil {
				return nil
			}
			blob := bucket.Get([]byte("blob"))
			if blob == nil {
				return nil
			}
			decoded, err := decode(blob)
			if err != nil {
				// Corrupt cache: treat as empty.
				return nil
			}
			entries = decoded
			return nil
		})
	}
	c.hot.Add(pkg, entries)
	return entries
}

// Save persists package's accumulated entries to the on-disk store,
// writing the cache directory's marker files on first use.
func (c *Cache) Save(pkg string) error {
	c.mu.Lock()
	entries, ok := c.hot.Get(pkg)
	c.mu.Unlock()
	if !ok {
		return nil
	}
	if c.db == nil {
		return nil
	}

	if err := c.ensureMarkerFiles(); err != nil {
		return err
	}

	blob, err := encode(entries)
	if err != nil {
		return errors.Wrapf(err, "encode cache for package %s", pkg)
	}

	return c.db.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists([]byte(pkg + bucketSuffix))
		if err != nil {
			return errors.Wrapf(err, "create bucket for package %s", pkg)
		}
		return bucket.Put([]byte("blob"), blob)
	})
}

func (c *Cache) ensureMarkerFiles() error {
	gitignorePath := filepath.Join(c.dir, gitignoreName)
	if _, err := os.Stat(gitignorePath); os.IsNotExist(err) {
		if err := os.WriteFile(gitignorePath, []byte(gitignoreBody), 0o644); err != nil {
			return errors.Wrap(err, "write .gitignore marker")
		}
	}

	tagPath := filepath.Join(c.dir, cachedirTag)
	if _, err := os.Stat(tagPath); os.IsNotExist(err) {
		if err := os.WriteFile(tagPath, []byte(cachedirSig), 0o644); err != nil {
			return errors.Wrap(err, "write CACHEDIR.TAG marker")
		}
	}
	return nil
}

func encode(entries map[string]CachedImports) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(entries); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decode(blob []byte) (map[string]CachedImports, error) {
	var entries map[string]CachedImports
	if err := gob.NewDecoder(bytes.NewReader(blob)).Decode(&entries); err != nil {
		return nil, err
	}
	return entries, nil
}
