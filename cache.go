// SPDX-License-Identifier: EPL-2.0

package sndkit

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/ik5/sndkit/header"
	"github.com/ik5/sndkit/internal/logger"
)

type cacheEntry struct {
	d   *header.Descriptor
	off header.PendingWriteOffsets
}

// Cache maps paths to parsed headers, keyed by absolute path so every
// spelling of a file shares one entry. An entry is trusted only while the
// file's modification time matches the one recorded when it was parsed.
// Cache is safe for concurrent use; parsing happens outside the lock.
type Cache struct {
	mtx     sync.Mutex
	entries map[string]cacheEntry
}

func NewCache() *Cache {
	return &Cache{entries: make(map[string]cacheEntry)}
}

var defaultCache = NewCache()

// DefaultCache is the cache behind the package-level functions.
func DefaultCache() *Cache { return defaultCache }

// Describe returns the header of path, parsing it on first use or when the
// file changed. The result is a copy the caller may modify.
func (c *Cache) Describe(path string) (*header.Descriptor, error) {
	e, err := c.lookup(path)
	if err != nil {
		return nil, err
	}
	return e.d.Clone(), nil
}

// cacheKey is the cleaned absolute form of path. When the working directory
// cannot be read the cleaned path is used as is.
func cacheKey(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}

func (c *Cache) lookup(path string) (cacheEntry, error) {
	key := cacheKey(path)
	fi, err := os.Stat(path)
	if err != nil {
		c.Forget(path)
		return cacheEntry{}, &Error{Kind: header.KindCantOpenFile, Path: path, Offset: -1, Err: err}
	}

	c.mtx.Lock()
	e, ok := c.entries[key]
	if ok {
		switch {
		case e.d.ModTime.Equal(fi.ModTime()):
			c.mtx.Unlock()
			return e, nil
		case e.d.Type == header.Raw && fi.Size() > e.d.TrueLength:
			e = grownRaw(e, fi)
			c.entries[key] = e
			c.mtx.Unlock()
			logger.Debug("raw file grew, refreshed from length", "path", key, "size", fi.Size())
			return e, nil
		}
		delete(c.entries, key)
		logger.Debug("cached header stale", "path", key)
	}
	c.mtx.Unlock()

	d, off, err := header.ReadFile(path)
	if err != nil {
		return cacheEntry{}, err
	}
	e = cacheEntry{d: d, off: off}
	c.store(path, e)
	return e, nil
}

// grownRaw trusts the new length of a headerless file.
func grownRaw(e cacheEntry, fi fs.FileInfo) cacheEntry {
	d := e.d.Clone()
	d.TrueLength = fi.Size()
	d.Samples = header.BytesToSamples(d.SampleType, d.TrueLength-d.DataLocation)
	d.ModTime = fi.ModTime()
	return cacheEntry{d: d, off: e.off}
}

func (c *Cache) store(path string, e cacheEntry) {
	key := cacheKey(path)
	c.mtx.Lock()
	c.entries[key] = e
	c.mtx.Unlock()
}

// Forget drops the entry for path under any spelling of it.
func (c *Cache) Forget(path string) {
	key := cacheKey(path)
	c.mtx.Lock()
	delete(c.entries, key)
	c.mtx.Unlock()
}

// PruneMissing drops entries whose file no longer exists and returns how
// many were dropped.
func (c *Cache) PruneMissing() int {
	c.mtx.Lock()
	paths := make([]string, 0, len(c.entries))
	for p := range c.entries {
		paths = append(paths, p)
	}
	c.mtx.Unlock()

	n := 0
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, fs.ErrNotExist) {
			c.Forget(p)
			n++
		}
	}
	if n > 0 {
		logger.Debug("pruned missing files from header cache", "count", n)
	}
	return n
}

// Len is the number of cached headers.
func (c *Cache) Len() int {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return len(c.entries)
}

// Describe returns the header of path through the default cache.
func Describe(path string) (*header.Descriptor, error) { return defaultCache.Describe(path) }

// Forget drops path from the default cache.
func Forget(path string) { defaultCache.Forget(path) }

// PruneMissing prunes the default cache.
func PruneMissing() int { return defaultCache.PruneMissing() }
