package asset

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// Source opens asset files by path.
type Source interface {
	// Open returns a reader for the file and its size, or -1 when unknown.
	Open(path string) (io.ReadCloser, int64, error)
}

// DirSource serves files below a root directory.
type DirSource struct {
	Root string
}

// Open opens root/path.
func (s DirSource) Open(path string) (io.ReadCloser, int64, error) {
	full := path
	if !filepath.IsAbs(path) {
		full = filepath.Join(s.Root, path)
	}
	f, err := os.Open(full)
	if err != nil {
		return nil, 0, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, err
	}
	return f, info.Size(), nil
}

// Cache is a concurrency-safe in-memory cache of fetched files.
type Cache struct {
	data map[string][]byte
	mu   sync.RWMutex

	hits   int
	misses int
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{data: make(map[string][]byte)}
}

// Get retrieves an item from cache.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return data, ok
}

// Set stores an item in cache.
func (c *Cache) Set(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}

// progressReader counts bytes read and reports them after every read.
type progressReader struct {
	r      io.Reader
	read   int64
	report func(read int64)
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.read += int64(n)
		p.report(p.read)
	}
	return n, err
}

// fetch reads a whole file through the cache, reporting progress.
func fetch(src Source, cache *Cache, path string, report func(read, total int64)) ([]byte, error) {
	if data, ok := cache.Get(path); ok {
		report(int64(len(data)), int64(len(data)))
		return data, nil
	}

	rc, size, err := src.Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	pr := &progressReader{r: rc, report: func(read int64) { report(read, size) }}
	data, err := io.ReadAll(pr)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	report(int64(len(data)), int64(len(data)))

	cache.Set(path, data)
	return data, nil
}
