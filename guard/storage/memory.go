package storage

import "sync"

// Memory is an in-memory KV implementation used in tests and as a
// fallback when no durable store is configured.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte

	// FailPuts makes every Put return ErrPutFailed when set. Tests use it
	// to exercise the dirty-retry path of the record caches.
	FailPuts bool
}

// ErrPutFailed is returned by Memory.Put when FailPuts is set.
var ErrPutFailed = errPutFailed{}

type errPutFailed struct{}

func (errPutFailed) Error() string { return "storage: put failed" }

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

// Get ...
func (s *Memory) Get(key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}
	cp := make([]byte, len(value))
	copy(cp, value)
	return cp, true, nil
}

// Put ...
func (s *Memory) Put(key string, value []byte) error {
	if s.FailPuts {
		return ErrPutFailed
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]byte, len(value))
	copy(cp, value)
	s.data[key] = cp
	return nil
}

// Has ...
func (s *Memory) Has(key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.data[key]
	return ok, nil
}

// Close ...
func (s *Memory) Close() error {
	return nil
}
