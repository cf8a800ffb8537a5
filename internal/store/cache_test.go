package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemoryCacheSetGet(t *testing.T) {
	c := NewMemoryCache()

	_, ok := c.Get("countries|page=1")
	assert.False(t, ok)

	page := Page{Rows: []Row{{"id": 1}}, Total: 1, Page: 1}
	c.Set("countries|page=1", page)

	got, ok := c.Get("countries|page=1")
	assert.True(t, ok)
	assert.Equal(t, page, got)
	assert.Equal(t, 1, c.Len())
}

func TestMemoryCacheInvalidateByPrefix(t *testing.T) {
	c := NewMemoryCache()
	c.Set("countries|page=1", Page{})
	c.Set("countries|page=2", Page{})
	c.Set("cities|page=1", Page{})

	c.Invalidate("countries")

	assert.Equal(t, 1, c.Len())
	_, ok := c.Get("cities|page=1")
	assert.True(t, ok)
	_, ok = c.Get("countries|page=1")
	assert.False(t, ok)
}
