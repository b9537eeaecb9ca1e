package edgecache

import (
	"math"

	"github.com/coregx/edgecache/internal/conv"
)

// Shared storage layout and sizing rules for the two table variants.

const (
	// EmptyKey marks free slots in every table and is therefore reserved:
	// it can never be stored as a symbol. AddEdge rejects it and GetState
	// reports it as absent.
	EmptyKey int32 = math.MinInt32

	// capacityLimit is the absolute ceiling on table capacity.
	// No table, in either phase, ever exceeds this many slots.
	capacityLimit = 1 << 29
)

// loadFactor is the fill ratio at which the probing table must grow.
const loadFactor = 0.65

// edgeMap is the contract shared by the two table variants.
//
// Implementations are plain mutable structures with no internal locking.
// The Cache serializes writers and publishes tables copy-on-write, so a
// table is only ever mutated before publication: freshly grown tables and
// private clones. After publish it is read-only for everyone.
//
// Keys passed in are never EmptyKey; the Cache screens the sentinel
// before delegating.
type edgeMap[T any] interface {
	// put inserts or overwrites one key. It returns false when the
	// variant cannot place the key under its policy; the caller then
	// grows or migrates. put never grows storage itself.
	put(key int32, value T) bool

	// get returns the value stored under key, if any.
	get(key int32) (T, bool)

	// size returns the live entry count.
	size() int

	// capacity returns the slot count, always a power of two.
	capacity() int

	// liveKeys returns the live keys in slot-scan order.
	// No ordering guarantee beyond index alignment with liveValues.
	liveKeys() []int32

	// liveValues returns the live values, index-aligned with liveKeys.
	liveValues() []T

	// grow builds a larger table holding every live entry. The compact
	// variant returns the receiver unchanged when no capacity within its
	// bound fits (the migration signal) and never errors. The probing
	// variant always doubles, or fails with ErrCapacityLimit at the
	// absolute ceiling.
	grow() (edgeMap[T], error)

	// clone returns a same-capacity deep copy for copy-on-write writes.
	clone() edgeMap[T]
}

// edgeTable is the storage core embedded by both variants: two parallel
// arrays addressed through key & mask. Capacity is len(keys) and always a
// power of two, so the mask selects a valid slot for any int32 key,
// negative keys included (the low bits pick the slot, not the sign).
type edgeTable[T any] struct {
	keys   []int32
	values []T
	count  int
	mask   int32
}

func newEdgeTable[T any](capacity int) edgeTable[T] {
	keys := make([]int32, capacity)
	for i := range keys {
		keys[i] = EmptyKey
	}
	return edgeTable[T]{
		keys:   keys,
		values: make([]T, capacity),
		mask:   conv.IntToInt32(capacity - 1),
	}
}

func (t *edgeTable[T]) size() int     { return t.count }
func (t *edgeTable[T]) capacity() int { return len(t.keys) }

// slot returns the home slot for key.
func (t *edgeTable[T]) slot(key int32) int {
	return int(key & t.mask)
}

// nextSlot advances a linear probe, wrapping at capacity.
func (t *edgeTable[T]) nextSlot(slot int) int {
	return (slot + 1) & int(t.mask)
}

// liveKeys collects the occupied keys in slot-scan order.
func (t *edgeTable[T]) liveKeys() []int32 {
	out := make([]int32, 0, t.count)
	for _, k := range t.keys {
		if k != EmptyKey {
			out = append(out, k)
		}
	}
	return out
}

// liveValues collects the occupied values in the same order as liveKeys.
func (t *edgeTable[T]) liveValues() []T {
	out := make([]T, 0, t.count)
	for i, k := range t.keys {
		if k != EmptyKey {
			out = append(out, t.values[i])
		}
	}
	return out
}

// cloneCore deep-copies the storage arrays.
func (t *edgeTable[T]) cloneCore() edgeTable[T] {
	keys := make([]int32, len(t.keys))
	copy(keys, t.keys)
	values := make([]T, len(t.values))
	copy(values, t.values)
	return edgeTable[T]{
		keys:   keys,
		values: values,
		count:  t.count,
		mask:   t.mask,
	}
}

// adjustCapacity rounds a requested table size up to the nearest power of
// two, with 2 as the floor. Requests below 1 and results beyond the
// absolute ceiling fail with an InvalidCapacity error.
func adjustCapacity(requested int) (int, error) {
	if requested < 1 {
		return 0, capacityError(requested)
	}
	capacity := 2
	for capacity < requested {
		capacity <<= 1
		if capacity > capacityLimit {
			return 0, capacityError(requested)
		}
	}
	return capacity, nil
}
