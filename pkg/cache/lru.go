package cache

import (
	"container/list"
	"sync"
)

type entry[K comparable, V any] struct {
	key   K
	value V
}

// LRU is a fixed-capacity least-recently-used cache.
type LRU[K comparable, V any] struct {
	mu       sync.Mutex
	capacity int
	items    map[K]*list.Element
	order    *list.List
	onEvict  func(key K, value V)
}

// NewLRU creates a cache. It panics when capacity is not positive.
func NewLRU[K comparable, V any](capacity int) *LRU[K, V] {
	if capacity <= 0 {
		panic(ErrInvalidCapacity)
	}
	return &LRU[K, V]{
		capacity: capacity,
		items:    make(map[K]*list.Element, capacity),
		order:    list.New(),
	}
}

// OnEvict sets the callback run for entries pushed out by capacity or Purge.
func (c *LRU[K, V]) OnEvict(fn func(key K, value V)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onEvict = fn
}

// Get returns the value for key and marks it as recently used.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[key]; ok {
		c.order.MoveToFront(el)
		return el.Value.(*entry[K, V]).value, true
	}
	var zero V
	return zero, false
}

// Put inserts or replaces the value for key.
func (c *LRU[K, V]) Put(key K, value V) {
	c.mu.Lock()
	evicted := c.put(key, value)
	fn := c.onEvict
	c.mu.Unlock()
	c.notify(fn, evicted)
}

// GetOrCreate returns the cached value or stores the result of create.
// create runs under the cache lock, so concurrent callers for any key wait
// for it; the boolean reports whether a new value was created.
func (c *LRU[K, V]) GetOrCreate(key K, create func() (V, error)) (V, bool, error) {
	c.mu.Lock()
	if el, ok := c.items[key]; ok {
		c.order.MoveToFront(el)
		v := el.Value.(*entry[K, V]).value
		c.mu.Unlock()
		return v, false, nil
	}

	v, err := create()
	if err != nil {
		c.mu.Unlock()
		var zero V
		return zero, false, err
	}
	evicted := c.put(key, v)
	fn := c.onEvict
	c.mu.Unlock()

	c.notify(fn, evicted)
	return v, true, nil
}

// Remove deletes key without running the eviction callback.
func (c *LRU[K, V]) Remove(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[key]; ok {
		c.order.Remove(el)
		delete(c.items, key)
		return el.Value.(*entry[K, V]).value, true
	}
	var zero V
	return zero, false
}

// Len returns the number of cached entries.
func (c *LRU[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Keys returns the keys from most to least recently used.
func (c *LRU[K, V]) Keys() []K {
	c.mu.Lock()
	defer c.mu.Unlock()
	keys := make([]K, 0, c.order.Len())
	for el := c.order.Front(); el != nil; el = el.Next() {
		keys = append(keys, el.Value.(*entry[K, V]).key)
	}
	return keys
}

// Purge empties the cache, running the eviction callback for every entry.
func (c *LRU[K, V]) Purge() {
	c.mu.Lock()
	evicted := make([]*entry[K, V], 0, c.order.Len())
	for el := c.order.Back(); el != nil; el = el.Prev() {
		evicted = append(evicted, el.Value.(*entry[K, V]))
	}
	c.items = make(map[K]*list.Element, c.capacity)
	c.order.Init()
	fn := c.onEvict
	c.mu.Unlock()
	c.notify(fn, evicted)
}

// put must be called with the lock held.
func (c *LRU[K, V]) put(key K, value V) []*entry[K, V] {
	if el, ok := c.items[key]; ok {
		c.order.MoveToFront(el)
		el.Value.(*entry[K, V]).value = value
		return nil
	}
	c.items[key] = c.order.PushFront(&entry[K, V]{key: key, value: value})

	var evicted []*entry[K, V]
	for c.order.Len() > c.capacity {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		e := oldest.Value.(*entry[K, V])
		delete(c.items, e.key)
		evicted = append(evicted, e)
	}
	return evicted
}

func (c *LRU[K, V]) notify(fn func(K, V), evicted []*entry[K, V]) {
	if fn == nil {
		return
	}
	for _, e := range evicted {
		fn(e.key, e.value)
	}
}
