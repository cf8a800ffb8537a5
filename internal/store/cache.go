package store

import (
	"strings"
	"sync"
)

// Cache stores list-query results keyed by table and query parameters. It is
// constructor-injected into the adapter so tests can substitute an in-memory
// fake and so all open views of a table can be dropped at once after a
// mutation.
type Cache interface {
	Get(key string) (Page, bool)
	Set(key string, page Page)
	// Invalidate drops every entry whose key starts with prefix. Mutations
	// pass the table name, wiping all pages/filters for that table.
	Invalidate(prefix string)
}

// MemoryCache is the default in-process Cache.
type MemoryCache struct {
	mu    sync.RWMutex
	pages map[string]Page
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{pages: make(map[string]Page)}
}

func (c *MemoryCache) Get(key string) (Page, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	page, ok := c.pages[key]
	return page, ok
}

func (c *MemoryCache) Set(key string, page Page) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pages[key] = page
}

func (c *MemoryCache) Invalidate(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.pages {
		if strings.HasPrefix(key, prefix) {
			delete(c.pages, key)
		}
	}
}

// Len reports how many entries are cached. Used by tests and the health
// endpoint.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.pages)
}
