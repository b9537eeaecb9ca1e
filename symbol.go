package edgecache

// symbolMap is the general table: open addressing with linear probing and
// a 0.65 load factor. The Cache switches to it, once and permanently,
// when the compact table cannot host the key set within its bound.
// Outlier keys (EOF markers, scattered code points) cost a short probe
// run here instead of forcing the compact table through futile doublings.
type symbolMap[T any] struct {
	edgeTable[T]
	threshold int
}

// growthThreshold is the live-entry count at which a table of the given
// capacity must grow. Strictly below capacity for every power of two, so
// a probe always terminates on a free slot.
func growthThreshold(capacity int) int {
	return int(float64(capacity) * loadFactor)
}

// newSymbolMap builds an empty probing table. Capacity is a power of two,
// validated by the caller.
func newSymbolMap[T any](capacity int) *symbolMap[T] {
	return &symbolMap[T]{
		edgeTable: newEdgeTable[T](capacity),
		threshold: growthThreshold(capacity),
	}
}

// newSymbolMapFrom migrates the contents of an exhausted compact table.
// Capacity is sized to the live entry count plus one free slot, and the
// entries are placed directly, bypassing the threshold gate, so the copy
// is lossless even when the count already exceeds the new threshold. In
// that case the next put fails and regrows the table the ordinary way.
func newSymbolMapFrom[T any](src edgeMap[T]) *symbolMap[T] {
	capacity, err := adjustCapacity(src.size() + 1)
	if err != nil {
		// A live table's size is always within the ceiling.
		panic(err)
	}
	m := newSymbolMap[T](capacity)
	keys := src.liveKeys()
	values := src.liveValues()
	for i, k := range keys {
		m.place(k, values[i])
	}
	return m
}

// put inserts or overwrites. At or past the growth threshold every put
// is refused before probing, updates included; the caller grows and
// retries. The count can sit past the threshold after a bulk migration.
func (m *symbolMap[T]) put(key int32, value T) bool {
	if m.count >= m.threshold {
		return false
	}
	slot := m.slot(key)
	for {
		switch m.keys[slot] {
		case key:
			m.values[slot] = value
			return true
		case EmptyKey:
			m.keys[slot] = key
			m.values[slot] = value
			m.count++
			return true
		}
		slot = m.nextSlot(slot)
	}
}

func (m *symbolMap[T]) get(key int32) (T, bool) {
	slot := m.slot(key)
	for {
		switch m.keys[slot] {
		case key:
			return m.values[slot], true
		case EmptyKey:
			var zero T
			return zero, false
		}
		slot = m.nextSlot(slot)
	}
}

// grow doubles capacity and re-places every live entry. Placement into
// the fresh table cannot fail; the only failure is the absolute ceiling.
func (m *symbolMap[T]) grow() (edgeMap[T], error) {
	if len(m.keys) >= capacityLimit {
		return nil, ErrCapacityLimit
	}
	next := newSymbolMap[T](len(m.keys) * 2)
	for i, k := range m.keys {
		if k != EmptyKey {
			next.place(k, m.values[i])
		}
	}
	return next, nil
}

// place claims a slot for key without consulting the threshold. Used for
// migration and regrowth, where the entire entry set must land. The
// receiving table always has free slots, so the probe terminates.
func (m *symbolMap[T]) place(key int32, value T) {
	slot := m.slot(key)
	for m.keys[slot] != EmptyKey && m.keys[slot] != key {
		slot = m.nextSlot(slot)
	}
	if m.keys[slot] == EmptyKey {
		m.count++
	}
	m.keys[slot] = key
	m.values[slot] = value
}

func (m *symbolMap[T]) clone() edgeMap[T] {
	return &symbolMap[T]{
		edgeTable: m.cloneCore(),
		threshold: m.threshold,
	}
}
