package texcache

import (
	"sync"
	"testing"

	"github.com/gogpu/fast3d/backend"
)

// fakeBackend tracks live textures.
type fakeBackend struct {
	next backend.Texture
	live map[backend.Texture]bool
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{live: make(map[backend.Texture]bool)}
}

func (b *fakeBackend) NewTexture() backend.Texture {
	b.next++
	b.live[b.next] = true
	return b.next
}

func (b *fakeBackend) DeleteTexture(t backend.Texture) { delete(b.live, t) }

func key(addr uint64) Key { return Key{Addr: addr, Format: 2, Size: 2, Bytes: 4096} }

func TestInsertLookup(t *testing.T) {
	b := newFakeBackend()
	c := New(b, 0)

	if _, ok := c.Lookup(key(1)); ok {
		t.Fatal("Lookup() found an entry in an empty cache")
	}
	e := c.Insert(key(1))
	if e.Texture == 0 || !b.live[e.Texture] {
		t.Fatalf("Insert() texture = %d, not live", e.Texture)
	}
	got, ok := c.Lookup(key(1))
	if !ok || got != e {
		t.Error("Lookup() did not return the inserted entry")
	}
	if again := c.Insert(key(1)); again != e || len(b.live) != 1 {
		t.Error("Insert() of a cached key created a new texture")
	}

	// Keys differing only in palette are distinct.
	k := key(1)
	k.Palette = 3
	if c.Insert(k) == e {
		t.Error("palette not part of the key")
	}

	st := c.Stats()
	if st.Hits != 1 || st.Misses != 1 || st.Len != 2 {
		t.Errorf("Stats() = %+v", st)
	}
}

func TestEvictsLeastRecentlyUsed(t *testing.T) {
	b := newFakeBackend()
	c := New(b, 3)

	e1 := c.Insert(key(1))
	c.Insert(key(2))
	c.Insert(key(3))
	c.Lookup(key(1))
	c.Insert(key(4))

	if _, ok := c.Lookup(key(2)); ok {
		t.Error("key 2 should have been evicted")
	}
	for _, a := range []uint64{1, 3, 4} {
		if _, ok := c.Lookup(key(a)); !ok {
			t.Errorf("key %d evicted", a)
		}
	}
	if !b.live[e1.Texture] || len(b.live) != 3 {
		t.Errorf("live textures = %d, want 3", len(b.live))
	}
	if got := c.Stats().Evictions; got != 1 {
		t.Errorf("Evictions = %d, want 1", got)
	}
}

func TestRemoveAndClear(t *testing.T) {
	b := newFakeBackend()
	c := New(b, 0)
	for a := uint64(0); a < 5; a++ {
		c.Insert(key(a))
	}

	if !c.Remove(key(2)) {
		t.Error("Remove() of a cached key = false")
	}
	if c.Remove(key(2)) {
		t.Error("Remove() of a removed key = true")
	}
	if c.Len() != 4 || len(b.live) != 4 {
		t.Errorf("after Remove: Len() = %d, live = %d, want 4", c.Len(), len(b.live))
	}

	c.Clear()
	if c.Len() != 0 || len(b.live) != 0 {
		t.Errorf("after Clear: Len() = %d, live = %d, want 0", c.Len(), len(b.live))
	}
	// The list must be reusable after Clear.
	c.Insert(key(9))
	if _, ok := c.Lookup(key(9)); !ok {
		t.Error("insert after Clear not found")
	}
}

func TestLRUOrder(t *testing.T) {
	var l lruList
	es := []*Entry{{Key: key(0)}, {Key: key(1)}, {Key: key(2)}}
	for _, e := range es {
		l.pushFront(e)
	}
	l.moveToFront(es[0])
	l.remove(es[2])

	var order []uint64
	for e := l.head; e != nil; e = e.next {
		order = append(order, e.Key.Addr)
	}
	if len(order) != 2 || order[0] != 0 || order[1] != 1 || l.len != 2 {
		t.Errorf("list = %v (len %d), want [0 1]", order, l.len)
	}
	if old := l.removeOldest(); old != es[1] {
		t.Error("removeOldest() did not return the tail")
	}
	if old := l.removeOldest(); old != es[0] || l.head != nil || l.tail != nil {
		t.Error("list not empty after removing every entry")
	}
	if l.removeOldest() != nil {
		t.Error("removeOldest() on an empty list returned an entry")
	}
}

func TestConcurrentLookups(t *testing.T) {
	b := newFakeBackend()
	c := New(b, 0)
	for a := uint64(0); a < 8; a++ {
		c.Insert(key(a))
	}

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				c.Lookup(key(uint64(i % 8)))
			}
		}()
	}
	wg.Wait()

	if got := c.Stats().Hits; got != 800 {
		t.Errorf("Hits = %d, want 800", got)
	}
}
