// Package cache remembers which file contents are already normalized, so a
// repeated run can skip them without lexing.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"derivefmt/internal/lexer"
)

// Current schema version - increment when Entry format changes
const schemaVersion uint16 = 1

// Digest is a SHA-256 cache key.
type Digest [32]byte

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// Key derives the cache key for content formatted by the given tool version
// under edition.
func Key(toolVersion string, edition lexer.Edition, content []byte) Digest {
	h := sha256.New()
	_, _ = h.Write([]byte(toolVersion))
	_, _ = h.Write([]byte{0, byte(edition), 0})
	_, _ = h.Write(content)
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// Entry records a normalized file content.
type Entry struct {
	Schema uint16
	// Path is informational; the key alone decides a hit.
	Path     string
	Size     int64
	StoredAt int64 // unix seconds
}

// DiskCache stores entries as msgpack files keyed by digest.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// Open initializes a disk cache under $XDG_CACHE_HOME/app (or ~/.cache/app).
func Open(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cache: %w", err)
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDir(filepath.Join(base, app))
}

// OpenDir initializes a disk cache rooted at dir.
func OpenDir(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cache: %w", err)
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *DiskCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *DiskCache) pathFor(key Digest) string {
	hexKey := key.String()
	// двухсимвольный подкаталог, чтобы не держать всё в одной папке
	return filepath.Join(c.dir, "files", hexKey[:2], hexKey+".mp")
}

// Put writes entry under key. The file appears atomically.
func (c *DiskCache) Put(key Digest, entry *Entry) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	stored := *entry
	stored.Schema = schemaVersion
	if stored.StoredAt == 0 {
		stored.StoredAt = time.Now().Unix()
	}
	if err = msgpack.NewEncoder(f).Encode(&stored); err != nil {
		return fmt.Errorf("cache: encode: %w", err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	// Атомарная замена
	if err = os.Rename(f.Name(), p); err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	return nil
}

// Get reads the entry for key. Entries of another schema are misses.
func (c *DiskCache) Get(key Digest, out *Entry) (bool, error) {
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
		return false, fmt.Errorf("cache: %w", err)
	}
	defer f.Close()

	var e Entry
	if err := msgpack.NewDecoder(f).Decode(&e); err != nil {
		return false, fmt.Errorf("cache: decode %s: %w", key, err)
	}
	if e.Schema != schemaVersion {
		return false, nil
	}
	*out = e
	return true, nil
}

// Has reports whether key is cached, treating read errors as misses.
func (c *DiskCache) Has(key Digest) bool {
	var e Entry
	ok, err := c.Get(key, &e)
	return ok && err == nil
}

// DropAll removes every entry.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// тривиально: переименуем каталог и удалим
	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	return os.RemoveAll(old)
}
