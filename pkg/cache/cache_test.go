package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"product-intel/pkg/logger"
)

func newTestCache(t *testing.T, maxEntries int) *Cache {
	t.Helper()
	return New(t.TempDir(), 24*time.Hour, maxEntries, logger.NewNop())
}

func TestSetGetRoundTrip(t *testing.T) {
	c := newTestCache(t, 10)

	c.Set("search_iphone 15", map[string]string{"title": "iPhone 15"}, 0)

	var got map[string]string
	require.True(t, c.Get("search_iphone 15", &got))
	assert.Equal(t, "iPhone 15", got["title"])

	var miss map[string]string
	assert.False(t, c.Get("search_pixel 9", &miss))
}

func TestDiskPromotion(t *testing.T) {
	dir := t.TempDir()
	log := logger.NewNop()

	first := New(dir, 24*time.Hour, 10, log)
	first.Set("prices_tv", []float64{100, 200}, 0)

	// A fresh instance has an empty memory tier and must fall back to disk.
	second := New(dir, 24*time.Hour, 10, log)
	var got []float64
	require.True(t, second.Get("prices_tv", &got))
	assert.Equal(t, []float64{100, 200}, got)

	second.mu.Lock()
	_, inMemory := second.memory[hashKey("prices_tv")]
	second.mu.Unlock()
	assert.True(t, inMemory, "disk hit should promote into memory")
}

func TestTTLExpiry(t *testing.T) {
	c := newTestCache(t, 10)

	now := time.Now()
	c.nowFunc = func() time.Time { return now }
	c.Set("rates", 1600.0, time.Hour)

	var got float64
	require.True(t, c.Get("rates", &got))

	c.nowFunc = func() time.Time { return now.Add(2 * time.Hour) }
	assert.False(t, c.Get("rates", &got), "expired entry must miss")

	// The expired file is deleted on read.
	_, err := os.Stat(c.path("rates"))
	assert.True(t, os.IsNotExist(err))
}

func TestEvictionDropsOldestOnly(t *testing.T) {
	c := newTestCache(t, 2)

	c.Set("a", 1, 0)
	c.Set("b", 2, 0)
	c.Set("c", 3, 0)

	c.mu.Lock()
	assert.Len(t, c.memory, 2)
	c.mu.Unlock()

	// Oldest memory entry is gone but the disk copy still serves.
	var got int
	require.True(t, c.Get("a", &got))
	assert.Equal(t, 1, got)
	require.True(t, c.Get("b", &got))
	require.True(t, c.Get("c", &got))
}

func TestInvalidateAndClear(t *testing.T) {
	c := newTestCache(t, 10)

	c.Set("x", "one", 0)
	c.Set("y", "two", 0)

	c.Invalidate("x")
	var got string
	assert.False(t, c.Get("x", &got))
	require.True(t, c.Get("y", &got))

	c.Clear()
	assert.False(t, c.Get("y", &got))
	files, err := filepath.Glob(filepath.Join(c.dir, "*.json"))
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestCorruptFileIsAMiss(t *testing.T) {
	c := newTestCache(t, 10)

	require.NoError(t, os.WriteFile(c.path("bad"), []byte("{not json"), 0o644))
	var got string
	assert.False(t, c.Get("bad", &got))
}
