// Package photocache keeps the most recently analyzed photo for each
// session in memory so the result view can re-serve it.
package photocache

import "sync"

// Cache maps session IDs to re-encoded JPEG bytes. Pruning a session
// drops its entry; otherwise a new upload replaces the old one.
type Cache struct {
	mu     sync.RWMutex
	photos map[string][]byte
}

func New() *Cache {
	return &Cache{photos: make(map[string][]byte)}
}

func (c *Cache) Put(sessionID string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.photos[sessionID] = data
}

func (c *Cache) Get(sessionID string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	data, ok := c.photos[sessionID]
	return data, ok
}

func (c *Cache) Drop(sessionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.photos, sessionID)
}
