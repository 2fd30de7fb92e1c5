package checker

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync/atomic"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/crypto/blake2b"

	perrors "github.com/sambeau/parsley-syntax/pkg/parsley/errors"
)

// Current schema version - increment when cacheEntry changes
const cacheSchemaVersion uint16 = 1

// Cache stores check results on disk, keyed by a hash of the tool
// version, the parse options and the source. Only errors are stored,
// never trees. Safe for concurrent use.
type Cache struct {
	dir string
	enc *zstd.Encoder
	dec *zstd.Decoder

	hits   atomic.Int64
	misses atomic.Int64
}

type cacheEntry struct {
	Schema uint16
	Errors []*perrors.ParsleyError
}

// OpenCache opens (creating if needed) a cache rooted at dir.
func OpenCache(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache dir: %w", err)
	}
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return nil, err
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	return &Cache{dir: dir, enc: enc, dec: dec}, nil
}

// Dir returns the cache root.
func (c *Cache) Dir() string { return c.dir }

// Key hashes everything that can change a result.
func (c *Cache) Key(version string, opts Options, src string) string {
	h, _ := blake2b.New256(nil)
	h.Write([]byte(version))
	h.Write([]byte{0, boolByte(opts.Tolerant), boolByte(opts.Markdown)})
	h.Write([]byte(strconv.Itoa(opts.MaxDepth)))
	h.Write([]byte{0})
	h.Write([]byte(src))
	return hex.EncodeToString(h.Sum(nil))
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

func (c *Cache) pathFor(key string) string {
	return filepath.Join(c.dir, key[:2], key+".mpz")
}

// Get returns the cached errors for key.
func (c *Cache) Get(key string) ([]*perrors.ParsleyError, bool) {
	data, err := os.ReadFile(c.pathFor(key))
	if err != nil {
		c.misses.Add(1)
		return nil, false
	}
	raw, err := c.dec.DecodeAll(data, nil)
	if err != nil {
		c.misses.Add(1)
		return nil, false
	}
	var entry cacheEntry
	if err := msgpack.Unmarshal(raw, &entry); err != nil || entry.Schema != cacheSchemaVersion {
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return entry.Errors, true
}

// Put stores errs under key. The file is written to a temp name and
// renamed into place.
func (c *Cache) Put(key string, errs []*perrors.ParsleyError) error {
	raw, err := msgpack.Marshal(&cacheEntry{Schema: cacheSchemaVersion, Errors: errs})
	if err != nil {
		return err
	}
	data := c.enc.EncodeAll(raw, nil)

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, p); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

// Stats returns hit and miss counts since the cache was opened.
func (c *Cache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// Clear removes every cached entry.
func (c *Cache) Clear() error {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(c.dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the encoder and decoder.
func (c *Cache) Close() error {
	c.dec.Close()
	return c.enc.Close()
}
