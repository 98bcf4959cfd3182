package session

import (
	"sync"
	"time"
)

// Flag accumulates the violations of one check type on a player.
type Flag struct {
	Count       int
	LastReason  string
	LastDetails string
}

// ItemContext records the item involved in the most recent violation of a
// check type, kept for later UI and report context.
type ItemContext struct {
	ItemTypeID string
	Timestamp  int64
}

// ModState is the per-player moderation state mutated by the automod
// pipeline. It lives for the duration of the session; an external player
// data store owns its durable lifecycle.
type ModState struct {
	mu            sync.Mutex
	flags         map[string]*Flag
	lastViolation map[string]ItemContext
	dirty         bool
}

// NewModState ...
func NewModState() *ModState {
	return &ModState{
		flags:         make(map[string]*Flag),
		lastViolation: make(map[string]ItemContext),
	}
}

// AddFlag increments the flag counter of the given type by one, recording
// the reason and formatted details of this violation, and returns the new
// count. Increments are serialized under the state's lock so the Nth
// increment observes the effect of the (N-1)th.
func (s *ModState) AddFlag(flagType, reason, details string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.flags[flagType]
	if !ok {
		f = &Flag{}
		s.flags[flagType] = f
	}
	f.Count++
	f.LastReason = reason
	f.LastDetails = details
	s.dirty = true
	return f.Count
}

// Flag returns a copy of the flag of the given type.
func (s *ModState) Flag(flagType string) (Flag, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.flags[flagType]
	if !ok {
		return Flag{}, false
	}
	return *f, true
}

// SetLastViolation stamps the item context of the most recent violation of
// the given check type and marks the state dirty.
func (s *ModState) SetLastViolation(checkType, itemTypeID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastViolation[checkType] = ItemContext{
		ItemTypeID: itemTypeID,
		Timestamp:  time.Now().UnixMilli(),
	}
	s.dirty = true
}

// LastViolation returns the item context recorded for the given check type.
func (s *ModState) LastViolation(checkType string) (ItemContext, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, ok := s.lastViolation[checkType]
	return ctx, ok
}

// Dirty reports whether the state has unflushed mutations.
func (s *ModState) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}
