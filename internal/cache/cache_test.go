package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCacheExpiry(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := New[string](time.Minute)
	c.now = func() time.Time { return now }

	c.Set("products:list", "payload")
	c.Set("orders:list", "short", time.Second)

	v, ok := c.Get("products:list")
	assert.True(t, ok)
	assert.Equal(t, "payload", v)

	now = now.Add(2 * time.Second)
	_, ok = c.Get("orders:list")
	assert.False(t, ok)
	_, ok = c.Get("products:list")
	assert.True(t, ok)

	c.purge()
	assert.Equal(t, 1, c.Size())
}

func TestCacheDeleteByPrefix(t *testing.T) {
	c := New[[]byte](time.Minute)
	c.Set("products:list", []byte("[]"))
	c.Set("products:1", []byte("{}"))
	c.Set("orders:list", []byte("[]"))

	c.DeleteByPrefix("products:")

	assert.Equal(t, 1, c.Size())
	_, ok := c.Get("orders:list")
	assert.True(t, ok)

	c.Clear()
	assert.Zero(t, c.Size())
}
