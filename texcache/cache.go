// Package texcache caches uploaded textures by the RDRAM location and
// format they were decoded from.
//
// The cache owns the backend textures it creates: evicted and cleared
// entries are deleted on the backend. Clear is meant to be installed as the
// context's texture cache invalidator, since a filter mode change alters
// how every cached texture must be sampled.
//
//	tc := texcache.New(b, texcache.DefaultCapacity)
//	ctx, err := fast3d.NewContext(b, fast3d.WithTextureCacheInvalidator(tc.Clear))
package texcache

import (
	"sync"
	"sync/atomic"

	"github.com/gogpu/fast3d/backend"
)

// DefaultCapacity is the number of textures kept before the least recently
// used one is evicted.
const DefaultCapacity = 512

// Key identifies decoded texture data.
type Key struct {
	// Addr is the address of the texel data.
	Addr uint64

	// Format and Size are the RDP texel format and bits-per-texel code.
	Format uint8
	Size   uint8

	// Palette is the TLUT bank of colour-indexed textures.
	Palette uint8

	// Bytes is the length of the texel data.
	Bytes uint32
}

// Entry is a cached texture and the sampler state last applied to it.
type Entry struct {
	Key     Key
	Texture backend.Texture

	// Linear, CMS and CMT are recorded by the host after it sets sampler
	// parameters so unchanged state can be skipped.
	Linear   bool
	CMS, CMT backend.WrapMode

	prev, next *Entry
}

// Backend creates and deletes textures. backend.Backend and *fast3d.Context
// both satisfy it.
type Backend interface {
	NewTexture() backend.Texture
	DeleteTexture(t backend.Texture)
}

// Stats contains cache statistics.
type Stats struct {
	Len       int
	Capacity  int
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// Cache is an LRU cache of textures.
//
// Cache is safe for concurrent use, but it calls the backend under its lock,
// so it shares the backend's threading rules.
type Cache struct {
	mu       sync.Mutex
	backend  Backend
	entries  map[Key]*Entry
	lru      lruList
	capacity int

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

// New creates an empty cache. A capacity of 0 or less means unlimited.
func New(b Backend, capacity int) *Cache {
	return &Cache{
		backend:  b,
		entries:  make(map[Key]*Entry),
		capacity: max(capacity, 0),
	}
}

// Lookup returns the entry for key and marks it most recently used.
func (c *Cache) Lookup(key Key) (*Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	c.lru.moveToFront(e)
	return e, true
}

// Insert creates a texture for key and returns its entry. The caller
// selects and uploads the texture. When key is already cached its entry is
// returned unchanged. Inserting past capacity evicts the least recently
// used entry.
func (c *Cache) Insert(key Key) *Entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		c.lru.moveToFront(e)
		return e
	}

	e := &Entry{Key: key, Texture: c.backend.NewTexture()}
	c.entries[key] = e
	c.lru.pushFront(e)

	for c.capacity > 0 && c.lru.len > c.capacity {
		old := c.lru.removeOldest()
		delete(c.entries, old.Key)
		c.backend.DeleteTexture(old.Texture)
		c.evictions.Add(1)
	}
	return e
}

// Remove deletes the entry for key and its texture.
// Returns true if the entry was found and removed.
func (c *Cache) Remove(key Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return false
	}
	c.lru.remove(e)
	delete(c.entries, key)
	c.backend.DeleteTexture(e.Texture)
	return true
}

// Clear deletes every cached texture.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, e := range c.entries {
		c.backend.DeleteTexture(e.Texture)
	}
	c.entries = make(map[Key]*Entry)
	c.lru.clear()
}

// Len returns the number of cached textures.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns cache statistics.
//
// The counters are read atomically and may not be perfectly synchronized.
func (c *Cache) Stats() Stats {
	return Stats{
		Len:       c.Len(),
		Capacity:  c.capacity,
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
	}
}
