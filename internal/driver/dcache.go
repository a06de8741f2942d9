package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"shisp/internal/ast"
	"shisp/internal/parser"
	"shisp/internal/source"
)

// Current schema version - increment when CachedGraph format changes
const diskCacheSchemaVersion uint16 = 1

// Digest is a SHA-256 cache key.
type Digest [sha256.Size]byte

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// DiskCache хранит разобранные графы по хешу содержимого файла.
// Кэшируются только чистые разборы: без диагностик и без ошибок баланса.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// CachedGraph is the on-disk payload.
type CachedGraph struct {
	Schema uint16
	Mode   string
	Path   string
	Graph  ast.Snapshot
}

// OpenDiskCache opens (creating if needed) dir, or $XDG_CACHE_HOME/shisp
// when dir is empty.
func OpenDiskCache(dir string) (*DiskCache, error) {
	if dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(base, "shisp")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *DiskCache) Dir() string { return c.dir }

// cacheKey: H(content hash || mode || schema). Тот же текст в другом режиме
// даёт другой граф, поэтому режим входит в ключ.
func cacheKey(file *source.File, mode parser.Mode) Digest {
	h := sha256.New()
	_, _ = h.Write(file.Hash[:])
	_, _ = h.Write([]byte{byte(mode), byte(diskCacheSchemaVersion >> 8), byte(diskCacheSchemaVersion)})
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

func (c *DiskCache) pathFor(key Digest) string {
	// подкаталог по первому байту, чтобы не держать тысячи файлов в одном месте
	s := key.String()
	return filepath.Join(c.dir, "graphs", s[:2], s+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key Digest, payload *CachedGraph) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	// Атомарная замена
	return os.Rename(tmp, p)
}

// Get reads a payload. A missing entry is (false, nil); an entry written by
// another schema version is treated as missing.
func (c *DiskCache) Get(key Digest, out *CachedGraph) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()
	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, fmt.Errorf("decoding cache entry %s: %w", key, err)
	}
	if out.Schema != diskCacheSchemaVersion {
		return false, nil
	}
	return true, nil
}

// DropAll removes every cached entry.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(filepath.Join(c.dir, "graphs"))
}

// lookup returns a graph rebuilt from the cache, or nil on miss.
// Decode failures are misses: the entry is rewritten after the parse.
func (c *DiskCache) lookup(file *source.File, mode parser.Mode) *parser.Result {
	if c == nil {
		return nil
	}
	var payload CachedGraph
	ok, err := c.Get(cacheKey(file, mode), &payload)
	if err != nil || !ok || payload.Mode != mode.String() {
		return nil
	}
	g, err := ast.FromSnapshot(payload.Graph, file.ID)
	if err != nil {
		return nil
	}
	return &parser.Result{Graph: g, Roots: g.Roots()}
}

func (c *DiskCache) store(file *source.File, mode parser.Mode, res *parser.Result) error {
	if c == nil {
		return nil
	}
	return c.Put(cacheKey(file, mode), &CachedGraph{
		Schema: diskCacheSchemaVersion,
		Mode:   mode.String(),
		Path:   file.Path,
		Graph:  res.Graph.Snapshot(),
	})
}
