// Package edgecache provides a concurrent transition-edge cache for
// DFA-based lexer and parser runtimes.
//
// A DFA simulator computes transitions lazily: the first time it leaves a
// state over a given symbol it pays the full transition computation and
// stores the edge; every later pass over the same (state, symbol) pair is
// a single lookup. This cache is the per-state edge store, tuned for that
// workload:
//
//   - Keys are int32 symbols. Token types and byte values cluster densely
//     near zero, with occasional outliers such as EOF markers or large
//     code points.
//   - Reads outnumber writes by orders of magnitude once hot states warm
//     up, so lookups never lock. A reader follows one atomically
//     published snapshot pointer and touches nothing a writer mutates.
//   - Writes are rare and serialized by a mutex. A writer never mutates a
//     published table: it builds a private copy (or a grown replacement)
//     and publishes it with one atomic store.
//
// Storage is two-tier behind a single contract. A bounded
// direct-addressing table (slot = key & (capacity-1), zero probing)
// serves the dense case; when the key set cannot be stored collision-free
// within the configured bound, the cache migrates, once and permanently,
// to an open-addressing linear-probing table with a 0.65 load factor.
// Every capacity in either phase is a power of two, at most 1<<29.
//
// Example:
//
//	cache := edgecache.New[*parserState]()
//	if err := cache.AddEdge(symbol, next); err != nil {
//		// reserved sentinel key, or the probing table hit its ceiling
//	}
//	if target, ok := cache.GetState(symbol); ok {
//		// cached edge, no lock taken
//	}
package edgecache

import (
	"fmt"
	"sync"
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

// Phase identifies which table variant currently backs a Cache.
type Phase uint8

const (
	// CompactPhase means the direct-addressing table is live
	CompactPhase Phase = iota

	// GeneralPhase means the probing table is live. Terminal: a cache
	// never returns to the compact phase.
	GeneralPhase
)

// String returns a human-readable phase name
func (p Phase) String() string {
	switch p {
	case CompactPhase:
		return "Compact"
	case GeneralPhase:
		return "General"
	default:
		return fmt.Sprintf("UnknownPhase(%d)", p)
	}
}

// snapshot pins one immutable table version behind a single pointer, so a
// reader takes the whole version with one atomic load.
type snapshot[T any] struct {
	table edgeMap[T]
}

// Stats is a point-in-time copy of the write-path counters.
type Stats struct {
	// Inserts counts writes that stored a new symbol.
	Inserts uint64

	// Updates counts writes that overwrote an existing symbol.
	Updates uint64

	// Grows counts table growths across both phases.
	Grows uint64

	// Migrations counts compact-to-general switches: 0 or 1.
	Migrations uint64
}

// cacheStats holds the live counters. Writers bump them under the write
// lock; Stats() reads them without it, hence the atomic types.
type cacheStats struct {
	inserts    atomic.Uint64
	updates    atomic.Uint64
	grows      atomic.Uint64
	migrations atomic.Uint64
}

// Cache maps int32 transition symbols to opaque target references.
//
// Thread safety: GetState, Size, Capacity, Keys, Values, Entries, Phase
// and Stats are lock-free and safe for any number of concurrent readers.
// AddEdge is safe for concurrent writers and serializes them internally.
//
// The zero value is not usable; construct with New, NewWithConfig or
// MustNew.
type Cache[T any] struct {
	// snap is the read path: the only field readers touch. The pad keeps
	// it off the cache line the writer fields bounce, so a burst of
	// writes does not invalidate the line every reader is loading.
	snap atomic.Pointer[snapshot[T]]
	_    cpu.CacheLinePad

	// mu serializes writers. Readers never take it.
	mu sync.Mutex

	// maxCapacity bounds the compact phase, fixed at construction.
	maxCapacity int

	stats cacheStats
}

// New returns a cache with the default configuration: a compact table
// starting at capacity 2 and growing up to 128 before migration.
func New[T any]() *Cache[T] {
	c, err := NewWithConfig[T](DefaultConfig())
	if err != nil {
		// The default configuration always validates.
		panic(err)
	}
	return c
}

// NewWithConfig returns a cache sized per cfg. Capacities are rounded up
// to powers of two; validation failures come back as InvalidCapacity
// errors.
func NewWithConfig[T any](cfg Config) (*Cache[T], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	initial, err := adjustCapacity(cfg.InitialCapacity)
	if err != nil {
		return nil, err
	}
	maxCapacity, err := adjustCapacity(cfg.MaxCapacity)
	if err != nil {
		return nil, err
	}

	c := &Cache[T]{maxCapacity: maxCapacity}
	c.publish(newPerfectMap[T](initial, maxCapacity))
	return c, nil
}

// MustNew is NewWithConfig panicking on invalid configuration.
// Convenient for package variables and tests.
func MustNew[T any](cfg Config) *Cache[T] {
	c, err := NewWithConfig[T](cfg)
	if err != nil {
		panic(err)
	}
	return c
}

// publish makes m the table every subsequent reader sees.
func (c *Cache[T]) publish(m edgeMap[T]) {
	c.snap.Store(&snapshot[T]{table: m})
}

// table returns the current snapshot's table: one atomic load.
func (c *Cache[T]) table() edgeMap[T] {
	return c.snap.Load().table
}

// AddEdge stores target under symbol, growing or migrating as needed.
//
// The write lands on a private copy of the current table; concurrent
// readers keep the previous version until the copy is published. In the
// compact phase a put that cannot be placed doubles the table up to the
// configured bound, then migrates to the probing table. In the general
// phase the table doubles without bound until the absolute ceiling.
//
// Returns ErrIllegalKey for the reserved sentinel and ErrCapacityLimit
// when the probing table cannot grow past the ceiling. The cache remains
// usable after either error; the offending edge is simply not stored.
func (c *Cache[T]) AddEdge(symbol int32, target T) error {
	if symbol == EmptyKey {
		return ErrIllegalKey
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for {
		current := c.table()
		next := current.clone()
		if next.put(symbol, target) {
			if next.size() > current.size() {
				c.stats.inserts.Add(1)
			} else {
				c.stats.updates.Add(1)
			}
			c.publish(next)
			return nil
		}

		grown, err := current.grow()
		if err != nil {
			return err
		}
		if grown != current {
			c.stats.grows.Add(1)
			c.publish(grown)
			continue
		}

		// The compact table cannot host the key set within its bound.
		// Switch to probing for the rest of the cache's life.
		c.stats.migrations.Add(1)
		c.publish(newSymbolMapFrom(current))
	}
}

// GetState returns the target cached under symbol.
//
// One atomic snapshot load, no lock, no allocation. A concurrent AddEdge
// may not be visible yet, but once a symbol has been observed it stays
// present with its newest published value. The reserved sentinel is never
// stored and always misses.
func (c *Cache[T]) GetState(symbol int32) (T, bool) {
	if symbol == EmptyKey {
		var zero T
		return zero, false
	}
	return c.table().get(symbol)
}

// Size returns the number of cached edges in the current snapshot.
func (c *Cache[T]) Size() int {
	return c.table().size()
}

// Capacity returns the slot count of the current snapshot's table,
// always a power of two.
func (c *Cache[T]) Capacity() int {
	return c.table().capacity()
}

// Keys returns the cached symbols in no particular order.
// Each call reads the then-current snapshot; pair with Values only via
// Entries when writers are active.
func (c *Cache[T]) Keys() []int32 {
	return c.table().liveKeys()
}

// Values returns the cached targets in the same unspecified order Keys
// uses for the same snapshot.
func (c *Cache[T]) Values() []T {
	return c.table().liveValues()
}

// Entries returns symbols and targets drawn from a single snapshot,
// index-aligned. Order is unspecified.
func (c *Cache[T]) Entries() ([]int32, []T) {
	t := c.table()
	return t.liveKeys(), t.liveValues()
}

// Phase reports which table variant is live.
func (c *Cache[T]) Phase() Phase {
	if _, ok := c.table().(*symbolMap[T]); ok {
		return GeneralPhase
	}
	return CompactPhase
}

// Stats returns a snapshot of the write-path counters.
func (c *Cache[T]) Stats() Stats {
	return Stats{
		Inserts:    c.stats.inserts.Load(),
		Updates:    c.stats.updates.Load(),
		Grows:      c.stats.grows.Load(),
		Migrations: c.stats.migrations.Load(),
	}
}
