// Package syncutil provides concurrency-safe containers.
package syncutil

import "sync"

// Map is a read-mostly map protected by a [sync.RWMutex].
// Writers only ever add entries, readers never block each other.
type Map[K comparable, V any] struct {
	mu   sync.RWMutex
	data map[K]V
}

// Get returns the value stored under key.
func (m *Map[K, V]) Get(key K) (V, bool) {
	if m == nil {
		var zero V
		return zero, false
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok
}

// GetOrSet stores val under key if the key is absent.
// It returns the stored value and true if the key was already present.
func (m *Map[K, V]) GetOrSet(key K, val V) (V, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.data[key]; ok {
		return v, true
	}
	if m.data == nil {
		m.data = make(map[K]V)
	}
	m.data[key] = val
	return val, false
}

// GetOrCompute returns the value stored under key, computing and storing it with fn on a miss.
// fn runs outside of the lock, so concurrent misses may compute the value more than once;
// the first stored value wins.
func (m *Map[K, V]) GetOrCompute(key K, fn func(K) V) V {
	if v, ok := m.Get(key); ok {
		return v
	}
	v, _ := m.GetOrSet(key, fn(key))
	return v
}

// Len returns the number of stored entries.
func (m *Map[K, V]) Len() int {
	if m == nil {
		return 0
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}
