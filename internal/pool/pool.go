package pool

import (
	"sort"
	"sync"
)

// Keyed lazily builds at most one value per key. The zero value is ready to
// use.
type Keyed[T any] struct {
	mu    sync.Mutex
	items map[string]T
}

// Get returns the value for key, calling build under the lock the first time
// the key is seen. A failed build stores nothing.
func (k *Keyed[T]) Get(key string, build func() (T, error)) (T, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if v, ok := k.items[key]; ok {
		return v, nil
	}
	v, err := build()
	if err != nil {
		var zero T
		return zero, err
	}
	if k.items == nil {
		k.items = make(map[string]T)
	}
	k.items[key] = v
	return v, nil
}

// Lookup returns the value for key without building it.
func (k *Keyed[T]) Lookup(key string) (T, bool) {
	k.mu.Lock()
	defer k.mu.Unlock()
	v, ok := k.items[key]
	return v, ok
}

// Drop forgets the value for key. It reports whether one was stored.
func (k *Keyed[T]) Drop(key string) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	_, ok := k.items[key]
	delete(k.items, key)
	return ok
}

// Keys returns the stored keys, sorted.
func (k *Keyed[T]) Keys() []string {
	k.mu.Lock()
	defer k.mu.Unlock()
	keys := make([]string, 0, len(k.items))
	for key := range k.items {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
