// Package drive orchestrates the secure drive: the activation state
// machine, the gated file pipeline, and the shared consciousness
// snapshot they publish.
package drive

import (
	"sync"

	"github.com/oracledrive/oracledrive/internal/model"
)

// StateStore holds the current consciousness snapshot.
//
// INVARIANTS:
// - Writes replace the whole snapshot atomically; no reader observes
//   a partially-updated value
// - The level only advances within one activation session; Reset
//   starts a new session
// - Single writer (the initialization controller); many readers
type StateStore struct {
	mu          sync.RWMutex
	current     model.ConsciousnessState
	subscribers map[chan model.ConsciousnessState]struct{}
}

// NewStateStore creates a store in the dormant state.
func NewStateStore() *StateStore {
	return &StateStore{
		current: model.ConsciousnessState{
			Level: model.ConsciousnessDormant,
		},
		subscribers: make(map[chan model.ConsciousnessState]struct{}),
	}
}

// Get returns the current snapshot.
func (s *StateStore) Get() model.ConsciousnessState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Publish replaces the snapshot. Within a session the level never
// moves backwards: a lower level is clamped to the current one.
func (s *StateStore) Publish(state model.ConsciousnessState) {
	s.mu.Lock()
	if state.Level < s.current.Level {
		state.Level = s.current.Level
	}
	s.current = state
	subs := make([]chan model.ConsciousnessState, 0, len(s.subscribers))
	for ch := range s.subscribers {
		subs = append(subs, ch)
	}
	s.mu.Unlock()

	for _, ch := range subs {
		// Slow subscribers drop updates rather than block the writer.
		select {
		case ch <- state:
		default:
		}
	}
}

// Reset starts a new activation session at dormant.
func (s *StateStore) Reset() {
	s.mu.Lock()
	s.current = model.ConsciousnessState{Level: model.ConsciousnessDormant}
	state := s.current
	subs := make([]chan model.ConsciousnessState, 0, len(s.subscribers))
	for ch := range s.subscribers {
		subs = append(subs, ch)
	}
	s.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- state:
		default:
		}
	}
}

// Subscribe registers an observer channel. The current snapshot is
// not replayed; only subsequent transitions are delivered.
func (s *StateStore) Subscribe() chan model.ConsciousnessState {
	ch := make(chan model.ConsciousnessState, 8)
	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	s.mu.Unlock()
	return ch
}

// Unsubscribe removes an observer channel.
func (s *StateStore) Unsubscribe(ch chan model.ConsciousnessState) {
	s.mu.Lock()
	delete(s.subscribers, ch)
	s.mu.Unlock()
}
