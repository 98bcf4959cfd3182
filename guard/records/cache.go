// Package records implements the durable record cache pattern used for
// moderation state: an in-memory, newest-first collection of records backed
// by a single serialized blob in a key-value store, with a dirty flag gating
// writes and a maximum-count eviction policy.
package records

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
)

// Entry is implemented by every record type held in a Cache.
type Entry interface {
	EntryID() string
}

// Cache holds an ordered in-memory collection of records persisted as one
// JSON array under a fixed, versioned key. The collection is kept
// newest-first and never exceeds max entries.
type Cache[T Entry] struct {
	key string
	max int
	kv  storage
	log *slog.Logger

	mu      sync.Mutex
	entries []T
	dirty   bool
}

// storage is the subset of the key-value store the cache relies on.
type storage interface {
	Get(key string) ([]byte, bool, error)
	Put(key string, value []byte) error
	Has(key string) (bool, error)
}

// NewCache creates a cache bound to the given store key and loads any
// previously persisted collection. A missing key, a corrupt blob or a blob
// that is not an array all initialize an empty collection; loading never
// fails startup.
func NewCache[T Entry](kv storage, log *slog.Logger, key string, max int) *Cache[T] {
	c := &Cache[T]{
		key: key,
		max: max,
		kv:  kv,
		log: log,
	}
	c.load()
	return c
}

// load ...
func (c *Cache[T]) load() {
	blob, ok, err := c.kv.Get(c.key)
	if err != nil {
		c.log.Warn("records: failed to read persisted collection, starting empty", "key", c.key, "error", err)
		return
	}
	if !ok {
		c.log.Debug("records: no persisted collection, starting empty", "key", c.key)
		return
	}

	var entries []T
	if err = json.Unmarshal(blob, &entries); err != nil {
		c.log.Warn("records: failed to parse persisted collection, starting empty", "key", c.key, "error", err)
		return
	}
	c.entries = entries
}

// All returns a copy of the in-memory collection, newest first. Mutating
// the returned slice does not affect cache state.
func (c *Cache[T]) All() []T {
	c.mu.Lock()
	defer c.mu.Unlock()

	cp := make([]T, len(c.entries))
	copy(cp, c.entries)
	return cp
}

// Len returns the number of records currently held.
func (c *Cache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Add prepends a record, evicts the oldest entries past the retention cap
// and marks the cache dirty. The record is not persisted until Flush.
func (c *Cache[T]) Add(entry T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = append([]T{entry}, c.entries...)
	if c.max > 0 && len(c.entries) > c.max {
		c.entries = c.entries[:c.max]
	}
	c.dirty = true
}

// Flush writes the full collection to the backing store. It is a no-op
// when the cache is clean and the key already exists. On a store error the
// dirty flag stays set so a later flush can retry; the data is not lost.
func (c *Cache[T]) Flush() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.flushLocked()
}

// flushLocked ...
func (c *Cache[T]) flushLocked() error {
	if !c.dirty {
		if ok, err := c.kv.Has(c.key); err == nil && ok {
			return nil
		}
	}

	blob, err := json.Marshal(c.entries)
	if err != nil {
		return fmt.Errorf("records: serialize %q: %w", c.key, err)
	}
	if err = c.kv.Put(c.key, blob); err != nil {
		return fmt.Errorf("records: persist %q: %w", c.key, err)
	}
	c.dirty = false
	return nil
}

// RemoveByID removes the record with the given id and flushes immediately.
// Removing an unknown id is a no-op and returns false without touching the
// dirty flag.
func (c *Cache[T]) RemoveByID(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, entry := range c.entries {
		if entry.EntryID() != id {
			continue
		}
		c.entries = append(c.entries[:i], c.entries[i+1:]...)
		c.dirty = true
		if err := c.flushLocked(); err != nil {
			c.log.Error("records: flush after removal failed", "key", c.key, "error", err)
		}
		return true
	}
	return false
}

// Clear drops every record and flushes immediately.
func (c *Cache[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = nil
	c.dirty = true
	if err := c.flushLocked(); err != nil {
		c.log.Error("records: flush after clear failed", "key", c.key, "error", err)
	}
}

// Dirty reports whether in-memory state differs from the persisted blob.
func (c *Cache[T]) Dirty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dirty
}
