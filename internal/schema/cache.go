package schema

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Cache memoises table metadata for the lifetime of a run.
// Concurrent lookups of the same key share a single load.
type Cache struct {
	mu     sync.RWMutex
	tables map[string]*Table
	group  singleflight.Group
}

func NewCache() *Cache {
	return &Cache{tables: make(map[string]*Table)}
}

// CacheKey builds the lookup key for a qualified table name.
func CacheKey(catalog, schemaName, name string) string {
	return strings.ToUpper(catalog + "\x00" + schemaName + "\x00" + name)
}

// Get returns the cached descriptor for key or calls load. Absent tables (nil) are
// cached too; errors are not.
func (c *Cache) Get(ctx context.Context, key string, load func(ctx context.Context) (*Table, error)) (*Table, error) {
	c.mu.RLock()
	t, ok := c.tables[key]
	c.mu.RUnlock()
	if ok {
		return t, nil
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		c.mu.RLock()
		t, ok := c.tables[key]
		c.mu.RUnlock()
		if ok {
			return t, nil
		}
		t, err := load(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.tables[key] = t
		c.mu.Unlock()
		return t, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Table), nil
}

// Invalidate drops every cached descriptor.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.tables = make(map[string]*Table)
	c.mu.Unlock()
}
