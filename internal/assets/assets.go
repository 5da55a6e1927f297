// Package assets handles game asset loading and caching.
package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/jam/internal/logger"
)

// ErrNotFound is returned when no root contains the requested file.
var ErrNotFound = errors.New("assets: file not found")

// Loader resolves a slash-separated asset path to its bytes.
type Loader interface {
	Load(path string) ([]byte, error)
}

// Manager serves assets from an ordered list of file systems.
// Roots are searched in reverse order (last added = highest priority).
type Manager struct {
	roots []root
	cache *Cache
	mu    sync.RWMutex
}

type root struct {
	name string
	fsys fs.FS
}

// NewManager creates a new asset manager with no roots.
func NewManager() *Manager {
	return &Manager{
		cache: NewCache(),
	}
}

// Open builds a manager over the embedded demo set (when useDemo is set)
// followed by dirs, so later dirs override earlier ones and the demo set.
func Open(dirs []string, useDemo bool) (*Manager, error) {
	m := NewManager()
	if useDemo {
		m.AddFS("demo", Demo())
	}
	for _, dir := range dirs {
		if err := m.AddDir(dir); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// AddDir adds a directory on disk as a root.
func (m *Manager) AddDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("opening asset dir %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("opening asset dir %s: not a directory", dir)
	}
	m.AddFS(dir, os.DirFS(dir))
	return nil
}

// AddFS adds an arbitrary file system as a root.
func (m *Manager) AddFS(name string, fsys fs.FS) {
	m.mu.Lock()
	m.roots = append(m.roots, root{name: name, fsys: fsys})
	m.mu.Unlock()

	// A new root may shadow cached entries
	m.cache.Clear()
	logger.Debug("asset root added", zap.String("root", name))
}

// Roots returns the root names in search order.
func (m *Manager) Roots() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.roots))
	for i := len(m.roots) - 1; i >= 0; i-- {
		names = append(names, m.roots[i].name)
	}
	return names
}

// Load loads a file from the roots.
func (m *Manager) Load(name string) ([]byte, error) {
	p, err := cleanPath(name)
	if err != nil {
		return nil, err
	}

	if data, ok := m.cache.Get(p); ok {
		return data, nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := len(m.roots) - 1; i >= 0; i-- {
		data, err := fs.ReadFile(m.roots[i].fsys, p)
		if err == nil {
			m.cache.Set(p, data)
			return data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading %s from %s: %w", p, m.roots[i].name, err)
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrNotFound, p)
}

// Exists reports whether any root contains name.
func (m *Manager) Exists(name string) bool {
	_, err := m.Load(name)
	return err == nil
}

// CacheStats returns cache hit and miss counts.
func (m *Manager) CacheStats() (hits, misses int) {
	return m.cache.Stats()
}

// Close drops all roots and cached data.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.roots = nil
	m.cache.Clear()
}

// cleanPath normalizes a config-supplied path to an fs.FS path.
func cleanPath(name string) (string, error) {
	p := path.Clean(strings.ReplaceAll(name, "\\", "/"))
	p = strings.TrimPrefix(p, "/")
	if !fs.ValidPath(p) || p == "." {
		return "", fmt.Errorf("invalid asset path %q", name)
	}
	return p, nil
}

// Cache is a simple in-memory cache for loaded assets.
type Cache struct {
	data map[string][]byte
	mu   sync.RWMutex

	// Stats
	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string][]byte),
	}
}

// Get retrieves an item from cache.
func (c *Cache) Get(key string) ([]byte, bool) {
	// Write lock: the stats counters are updated on every lookup
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

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string][]byte)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}
