package dqf

// Multimap is an ordered multimap: keys keep their first insertion order and
// each key holds an ordered sequence of values. The zero value is ready to use.
//
// Insertion order matters downstream: associations are replayed in this order
// when a project is updated remotely.
type Multimap[K comparable, V any] struct {
	keys   []K
	values map[K][]V
}

// Append adds v at the end of k's sequence, registering k if new.
func (m *Multimap[K, V]) Append(k K, v V) {
	if m.values == nil {
		m.values = make(map[K][]V)
	}
	if _, ok := m.values[k]; !ok {
		m.keys = append(m.keys, k)
	}
	m.values[k] = append(m.values[k], v)
}

// Get returns a copy of k's sequence.
func (m *Multimap[K, V]) Get(k K) []V {
	vs := m.values[k]
	if len(vs) == 0 {
		return nil
	}
	out := make([]V, len(vs))
	copy(out, vs)
	return out
}

// Has reports whether k is present.
func (m *Multimap[K, V]) Has(k K) bool {
	_, ok := m.values[k]
	return ok
}

// Keys returns the keys in insertion order.
func (m *Multimap[K, V]) Keys() []K {
	out := make([]K, len(m.keys))
	copy(out, m.keys)
	return out
}

// Len returns the number of keys.
func (m *Multimap[K, V]) Len() int {
	return len(m.keys)
}

// Size returns the number of values across all keys.
func (m *Multimap[K, V]) Size() int {
	n := 0
	for _, vs := range m.values {
		n += len(vs)
	}
	return n
}

// RemoveFunc removes every value of k for which match returns true and
// deletes k entirely once its sequence is empty. It returns the number of
// values removed.
func (m *Multimap[K, V]) RemoveFunc(k K, match func(V) bool) int {
	vs, ok := m.values[k]
	if !ok {
		return 0
	}
	kept := vs[:0]
	removed := 0
	for _, v := range vs {
		if match(v) {
			removed++
			continue
		}
		kept = append(kept, v)
	}
	if len(kept) == 0 {
		m.Delete(k)
	} else {
		m.values[k] = kept
	}
	return removed
}

// Delete removes k and all its values.
func (m *Multimap[K, V]) Delete(k K) {
	if _, ok := m.values[k]; !ok {
		return
	}
	delete(m.values, k)
	for i, key := range m.keys {
		if key == k {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// Clear removes everything.
func (m *Multimap[K, V]) Clear() {
	m.keys = nil
	m.values = nil
}

// Each calls fn for every (key, value) pair in insertion order.
func (m *Multimap[K, V]) Each(fn func(k K, v V)) {
	for _, k := range m.keys {
		for _, v := range m.values[k] {
			fn(k, v)
		}
	}
}
