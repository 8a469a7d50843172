// Package cache provides a generic, concurrency-safe LRU cache.
//
// The validation Manager keeps one Container per container id in an LRU so
// that long-running servers hold a bounded number of live form handles.
// Evicted entries are handed to the eviction callback after the cache lock is
// released, so callbacks may do slow work (detaching a container, flushing
// state) without blocking other callers.
//
//	c := cache.NewLRU[string, *Conn](128)
//	c.OnEvict(func(_ string, conn *Conn) { conn.Close() })
//	conn, created, err := c.GetOrCreate("a", dial)
package cache
