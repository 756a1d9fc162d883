package texture

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/opd-ai/go-devpick/internal/gradient"
)

var (
	// ErrBusy is returned by TryAcquire when the cache is already held.
	ErrBusy = errors.New("texture cache is busy")
	// ErrNoAllocator is returned when a lookup misses and no allocator is set.
	ErrNoAllocator = errors.New("no texture allocator available")
	// ErrReleased is returned when a released Guard is used.
	ErrReleased = errors.New("texture cache guard already released")
)

// debugName is the name passed to the allocator for every gradient texture.
const debugName = "gradient"

// Stats is a point-in-time copy of the cache counters.
type Stats struct {
	Entries     int
	Hits        uint64
	Misses      uint64
	Allocations uint64
	Failures    uint64
}

// Cache memoizes texture handles per gradient value.
//
// Every lookup-or-create runs under an exclusive lock. Rendering happens on
// a single goroutine, so the lock never contends in practice; it keeps the
// one-allocation-per-gradient guarantee if drawing ever moves off that
// goroutine.
type Cache struct {
	mu      sync.Mutex
	entries map[gradient.Gradient]ID

	// size mirrors len(entries) so readers on other goroutines never
	// take mu.
	size        atomic.Int64
	hits        atomic.Uint64
	misses      atomic.Uint64
	allocations atomic.Uint64
	failures    atomic.Uint64
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{entries: make(map[gradient.Gradient]ID)}
}

// GetOrAllocate returns the handle for g, allocating it on first use.
// It blocks until the cache lock is available.
func (c *Cache) GetOrAllocate(alloc Allocator, g gradient.Gradient) (ID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.getOrAllocate(alloc, g)
}

// TryAcquire takes the cache lock without blocking.
// It returns ErrBusy when another holder has it. The caller must Release
// the returned Guard.
func (c *Cache) TryAcquire() (*Guard, error) {
	if !c.mu.TryLock() {
		return nil, ErrBusy
	}
	return &Guard{cache: c}, nil
}

// getOrAllocate must be called with mu held.
func (c *Cache) getOrAllocate(alloc Allocator, g gradient.Gradient) (ID, error) {
	if id, ok := c.entries[g]; ok {
		c.hits.Add(1)
		return id, nil
	}
	c.misses.Add(1)

	if alloc == nil {
		return 0, ErrNoAllocator
	}
	img, err := Rasterize(g)
	if err != nil {
		c.failures.Add(1)
		return 0, err
	}
	id, err := alloc.Allocate(debugName, img, DefaultOptions())
	if err != nil {
		c.failures.Add(1)
		return 0, fmt.Errorf("allocate texture for %s: %w", g, err)
	}

	c.entries[g] = id
	c.size.Add(1)
	c.allocations.Add(1)
	return id, nil
}

// Lookup returns the handle for g without allocating.
func (c *Cache) Lookup(g gradient.Gradient) (ID, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id, ok := c.entries[g]
	return id, ok
}

// Len returns the number of cached gradients. It does not take the cache
// lock.
func (c *Cache) Len() int {
	return int(c.size.Load())
}

// Stats returns the current counters without taking the cache lock.
func (c *Cache) Stats() Stats {
	return Stats{
		Entries:     c.Len(),
		Hits:        c.hits.Load(),
		Misses:      c.misses.Load(),
		Allocations: c.allocations.Load(),
		Failures:    c.failures.Load(),
	}
}

// Purge drops every entry and, when f is not nil, frees its handle.
// It is meant for application shutdown; the cache never evicts on its own.
func (c *Cache) Purge(f Freer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for g, id := range c.entries {
		if f != nil {
			f.Free(id)
		}
		delete(c.entries, g)
	}
	c.size.Store(0)
}

// Guard is exclusive access to a Cache obtained with TryAcquire.
// It is held for a whole frame and is not safe for concurrent use.
type Guard struct {
	cache    *Cache
	released bool
}

// GetOrAllocate is Cache.GetOrAllocate under the already-held lock.
func (g *Guard) GetOrAllocate(alloc Allocator, grad gradient.Gradient) (ID, error) {
	if g.released {
		return 0, ErrReleased
	}
	return g.cache.getOrAllocate(alloc, grad)
}

// Release unlocks the cache. Calling it more than once is a no-op.
func (g *Guard) Release() {
	if g.released {
		return
	}
	g.released = true
	g.cache.mu.Unlock()
}
