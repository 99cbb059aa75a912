package utils

import (
	"os"
	"sync"
	"time"
)

// fileStamp identifies one version of a file on disk
type fileStamp struct {
	modTime time.Time
	size    int64
}

func stampOf(path string) (fileStamp, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return fileStamp{}, err
	}
	return fileStamp{modTime: stat.ModTime(), size: stat.Size()}, nil
}

type cacheItem[V any] struct {
	value V
	stamp fileStamp
}

// FileCache caches values derived from files. An entry is dropped as soon as the
// file it was derived from changes size or modification time.
type FileCache[V any] struct {
	mu    sync.RWMutex
	items map[string]cacheItem[V]
}

// NewFileCache creates an empty cache
func NewFileCache[V any]() *FileCache[V] {
	return &FileCache[V]{items: make(map[string]cacheItem[V])}
}

// Get returns the value cached for path if the file has not changed since
func (c *FileCache[V]) Get(path string) (V, bool) {
	c.mu.RLock()
	item, exists := c.items[path]
	c.mu.RUnlock()

	var zero V
	if !exists {
		return zero, false
	}

	if current, err := stampOf(path); err == nil && current == item.stamp {
		return item.value, true
	}

	c.mu.Lock()
	delete(c.items, path)
	c.mu.Unlock()
	return zero, false
}

// Set stores value for the current version of path
func (c *FileCache[V]) Set(path string, value V) error {
	stamp, err := stampOf(path)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[path] = cacheItem[V]{value: value, stamp: stamp}
	return nil
}

// Delete removes the entry for path
func (c *FileCache[V]) Delete(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, path)
}

// Clear removes all entries
func (c *FileCache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]cacheItem[V])
}

// Size returns the number of entries, stale ones included
func (c *FileCache[V]) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
