package cache

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"product-intel/pkg/logger"
)

// Cache is a two-tier store for API responses and scraped data. Entries live
// in memory for fast hits and as JSON files on disk so they survive restarts.
// Disk I/O failures degrade to memory-only operation, never to errors.
type Cache struct {
	dir        string
	defaultTTL time.Duration
	maxEntries int
	log        logger.Logger

	mu      sync.Mutex
	memory  map[string]*entry
	order   []string
	nowFunc func() time.Time
}

type entry struct {
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
	TTLHours  float64         `json:"ttl_hours"`
}

func New(dir string, defaultTTL time.Duration, maxEntries int, log logger.Logger) *Cache {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Warn("cache dir unavailable, falling back to memory only",
			logger.String("dir", dir), logger.Err(err))
	}
	return &Cache{
		dir:        dir,
		defaultTTL: defaultTTL,
		maxEntries: maxEntries,
		log:        log,
		memory:     make(map[string]*entry),
		nowFunc:    time.Now,
	}
}

func hashKey(key string) string {
	sum := md5.Sum([]byte(key))
	return hex.EncodeToString(sum[:])
}

func (c *Cache) path(key string) string {
	return filepath.Join(c.dir, hashKey(key)+".json")
}

// Get looks up key and unmarshals the cached value into out. The memory tier
// is consulted first; a valid disk entry is promoted into memory. Expired
// entries are removed on read.
func (c *Cache) Get(key string, out any) bool {
	hashed := hashKey(key)

	c.mu.Lock()
	if e, ok := c.memory[hashed]; ok {
		if c.valid(e) {
			c.mu.Unlock()
			return json.Unmarshal(e.Data, out) == nil
		}
		c.evict(hashed)
	}
	c.mu.Unlock()

	raw, err := os.ReadFile(c.path(key))
	if err != nil {
		return false
	}
	var e entry
	if err := json.Unmarshal(raw, &e); err != nil {
		c.log.Warn("cache read error", logger.String("key", key), logger.Err(err))
		return false
	}
	if !c.valid(&e) {
		os.Remove(c.path(key))
		return false
	}

	c.mu.Lock()
	c.insert(hashed, &e)
	c.mu.Unlock()

	return json.Unmarshal(e.Data, out) == nil
}

// Set stores v under key in both tiers. A zero ttl uses the cache default.
func (c *Cache) Set(key string, v any, ttl time.Duration) {
	if ttl == 0 {
		ttl = c.defaultTTL
	}
	data, err := json.Marshal(v)
	if err != nil {
		c.log.Warn("cache marshal error", logger.String("key", key), logger.Err(err))
		return
	}
	e := &entry{
		Data:      data,
		Timestamp: c.nowFunc().UTC(),
		TTLHours:  ttl.Hours(),
	}

	hashed := hashKey(key)
	c.mu.Lock()
	c.insert(hashed, e)
	if len(c.order) > c.maxEntries {
		c.evict(c.order[0])
	}
	c.mu.Unlock()

	raw, err := json.Marshal(e)
	if err != nil {
		return
	}
	if err := os.WriteFile(c.path(key), raw, 0o644); err != nil {
		c.log.Warn("cache write error", logger.String("key", key), logger.Err(err))
	}
}

// Invalidate removes key from both tiers.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	c.evict(hashKey(key))
	c.mu.Unlock()
	os.Remove(c.path(key))
}

// Clear drops every entry from memory and disk.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.memory = make(map[string]*entry)
	c.order = nil
	c.mu.Unlock()

	files, err := filepath.Glob(filepath.Join(c.dir, "*.json"))
	if err != nil {
		return
	}
	for _, f := range files {
		os.Remove(f)
	}
}

func (c *Cache) valid(e *entry) bool {
	if e.Timestamp.IsZero() {
		return false
	}
	ttl := time.Duration(e.TTLHours * float64(time.Hour))
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	return c.nowFunc().Before(e.Timestamp.Add(ttl))
}

// insert keeps existing keys at their original position so eviction always
// removes the oldest insertion. Caller holds c.mu.
func (c *Cache) insert(hashed string, e *entry) {
	if _, ok := c.memory[hashed]; !ok {
		c.order = append(c.order, hashed)
	}
	c.memory[hashed] = e
}

func (c *Cache) evict(hashed string) {
	if _, ok := c.memory[hashed]; !ok {
		return
	}
	delete(c.memory, hashed)
	for i, k := range c.order {
		if k == hashed {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}
