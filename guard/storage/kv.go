// Package storage provides the key-value store backing the durable
// moderation caches. The store is deliberately constrained: values are
// opaque byte blobs under fixed keys and there is no query capability.
package storage

// KV is the minimal key-value contract used by the record caches.
// Reading a missing key yields ok == false rather than an error.
type KV interface {
	// Get returns the value stored under key, or ok == false if absent.
	Get(key string) (value []byte, ok bool, err error)
	// Put overwrites the whole entry under key.
	Put(key string, value []byte) error
	// Has reports whether key exists in the store.
	Has(key string) (bool, error)
	// Close releases the underlying store.
	Close() error
}
