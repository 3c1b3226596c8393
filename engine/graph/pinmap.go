package graph

// PinID names an input or output slot on a node or graph.
type PinID string

// NodeID names a node within a graph.
type NodeID string

// PinMap is an insertion-ordered map keyed by pin id. Keys are unique;
// iteration order is declaration order, which keeps pin enumeration
// deterministic for validation and display.
type PinMap[V any] struct {
	keys   []PinID
	values map[PinID]V
}

// NewPinMap creates an empty pin map.
//
// Returns:
//   - *PinMap[V]: the new map
func NewPinMap[V any]() *PinMap[V] {
	return &PinMap[V]{values: make(map[PinID]V)}
}

// PinMapFrom creates a pin map from alternating key/value pairs,
// preserving the given order.
//
// Parameters:
//   - pairs: the entries to insert, in order
//
// Returns:
//   - *PinMap[V]: the populated map
func PinMapFrom[V any](pairs ...PinMapEntry[V]) *PinMap[V] {
	m := NewPinMap[V]()
	for _, p := range pairs {
		m.Insert(p.Key, p.Value)
	}
	return m
}

// PinMapEntry is a single key/value pair for PinMapFrom.
type PinMapEntry[V any] struct {
	Key   PinID
	Value V
}

// Insert adds or replaces an entry. Replacing keeps the key's original
// position.
//
// Parameters:
//   - k: the pin id
//   - v: the value
func (m *PinMap[V]) Insert(k PinID, v V) {
	if m.values == nil {
		m.values = make(map[PinID]V)
	}
	if _, ok := m.values[k]; !ok {
		m.keys = append(m.keys, k)
	}
	m.values[k] = v
}

// Get looks up a value by pin id.
//
// Parameters:
//   - k: the pin id
//
// Returns:
//   - V: the value, zero if absent
//   - bool: true if the key exists
func (m *PinMap[V]) Get(k PinID) (V, bool) {
	if m == nil || m.values == nil {
		var zero V
		return zero, false
	}
	v, ok := m.values[k]
	return v, ok
}

// Has reports whether the key exists.
//
// Parameters:
//   - k: the pin id
//
// Returns:
//   - bool: true if the key exists
func (m *PinMap[V]) Has(k PinID) bool {
	_, ok := m.Get(k)
	return ok
}

// Keys returns the keys in insertion order. The returned slice is shared;
// callers must not modify it.
//
// Returns:
//   - []PinID: the keys in declaration order
func (m *PinMap[V]) Keys() []PinID {
	if m == nil {
		return nil
	}
	return m.keys
}

// Len returns the number of entries.
//
// Returns:
//   - int: the entry count
func (m *PinMap[V]) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}
