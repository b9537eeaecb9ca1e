package edgecache

// perfectMap is the compact table: pure direct addressing, no probing.
// A key either occupies its home slot key & mask or the table reports the
// put as impossible, and growth doubles capacity looking for a layout
// where every key keeps a private slot. Growth is bounded by maxCapacity;
// past the bound the table signals exhaustion and the Cache migrates to a
// symbolMap.
//
// The dense case this serves is the common one for DFA edges: token types
// and byte values sit in a small range near zero, so a modest power of
// two gives every key its own slot and a lookup is one mask, one load,
// one compare.
type perfectMap[T any] struct {
	edgeTable[T]
	maxCapacity int
}

// newPerfectMap builds an empty compact table. Both capacities are powers
// of two, validated by the caller.
func newPerfectMap[T any](capacity, maxCapacity int) *perfectMap[T] {
	return &perfectMap[T]{
		edgeTable:   newEdgeTable[T](capacity),
		maxCapacity: maxCapacity,
	}
}

// put stores value if key's home slot is free or already holds key.
// It refuses to consume the last free slot, keeping capacity() > size()
// true for every table the Cache ever publishes.
func (m *perfectMap[T]) put(key int32, value T) bool {
	slot := m.slot(key)
	switch m.keys[slot] {
	case key:
		m.values[slot] = value
		return true
	case EmptyKey:
		if m.count+1 == len(m.keys) {
			return false
		}
		m.keys[slot] = key
		m.values[slot] = value
		m.count++
		return true
	default:
		// Home slot held by a different key.
		return false
	}
}

func (m *perfectMap[T]) get(key int32) (T, bool) {
	slot := m.slot(key)
	if m.keys[slot] == key {
		return m.values[slot], true
	}
	var zero T
	return zero, false
}

// grow tries each doubled capacity up to maxCapacity and returns the
// first table where every live key lands collision-free with room to
// spare. When no bounded capacity fits it returns the receiver
// unchanged; the Cache treats that as the migration signal.
func (m *perfectMap[T]) grow() (edgeMap[T], error) {
	for candidate := len(m.keys) * 2; candidate <= m.maxCapacity; candidate *= 2 {
		next := newPerfectMap[T](candidate, m.maxCapacity)
		if next.absorb(&m.edgeTable) {
			return next, nil
		}
	}
	return m, nil
}

// absorb re-puts every live entry of src and reports whether all fit.
func (m *perfectMap[T]) absorb(src *edgeTable[T]) bool {
	for i, k := range src.keys {
		if k == EmptyKey {
			continue
		}
		if !m.put(k, src.values[i]) {
			return false
		}
	}
	return true
}

func (m *perfectMap[T]) clone() edgeMap[T] {
	return &perfectMap[T]{
		edgeTable:   m.cloneCore(),
		maxCapacity: m.maxCapacity,
	}
}
