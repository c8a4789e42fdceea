// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package view holds the interaction state of the dashboard surfaces.
// Each surface allows one pending request at a time, records the last
// result or failure message, and streams its transitions to subscribers.
package view

import (
	"errors"
	"fmt"
	"sync"
)

// Phase is the lifecycle position of a surface.
type Phase int

const (
	PhaseIdle Phase = iota
	PhasePending
	PhaseSuccess
	PhaseFailed
)

var phaseNames = [...]string{"idle", "pending", "success", "failed"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

// MarshalText encodes the phase by name.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText decodes a phase name.
func (p *Phase) UnmarshalText(b []byte) error {
	for i, name := range phaseNames {
		if name == string(b) {
			*p = Phase(i)
			return nil
		}
	}
	return fmt.Errorf("view: unknown phase %q", b)
}

// ErrBusy is returned when a submission arrives while the surface is pending.
var ErrBusy = errors.New("view: a request is already pending")

// Snapshot is a copy of a surface's state at one instant.
type Snapshot[T any] struct {
	Phase     Phase
	Result    T
	HasResult bool
	Message   string
}

// Event describes one transition, without the result payload.
type Event struct {
	Surface string `json:"surface"`
	Phase   Phase  `json:"phase"`
	Error   string `json:"error,omitempty"`
}

const subscriberBuffer = 16

// Surface is the Idle/Pending/Success/Failed state machine shared by the
// search and simulation views. The generation counter lets Reset discard
// answers that are still in flight.
type Surface[T any] struct {
	name string

	mu      sync.Mutex
	state   Snapshot[T]
	gen     uint64
	subs    map[int]chan Event
	nextSub int
}

// NewSurface returns an idle surface named name.
func NewSurface[T any](name string) *Surface[T] {
	return &Surface[T]{name: name, subs: map[int]chan Event{}}
}

// Name returns the surface name used in events.
func (s *Surface[T]) Name() string { return s.name }

// Snapshot returns the current state.
func (s *Surface[T]) Snapshot() Snapshot[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Pending reports whether a request is in flight.
func (s *Surface[T]) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Phase == PhasePending
}

// begin enters Pending, clearing the previous result and message, and
// returns the generation the eventual answer must carry.
func (s *Surface[T]) begin() (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Phase == PhasePending {
		return 0, ErrBusy
	}
	s.gen++
	s.state = Snapshot[T]{Phase: PhasePending}
	s.publishLocked()
	return s.gen, nil
}

// finish records the answer for gen. It reports false when the surface was
// reset after gen began, in which case the answer is dropped.
func (s *Surface[T]) finish(gen uint64, result T, message string, failed bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen || s.state.Phase != PhasePending {
		return false
	}
	if failed {
		s.state = Snapshot[T]{Phase: PhaseFailed, Message: message}
	} else {
		s.state = Snapshot[T]{Phase: PhaseSuccess, Result: result, HasResult: true}
	}
	s.publishLocked()
	return true
}

// Reset returns the surface to Idle and discards any in-flight answer.
func (s *Surface[T]) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	if s.state.Phase == PhaseIdle && !s.state.HasResult && s.state.Message == "" {
		return
	}
	s.state = Snapshot[T]{}
	s.publishLocked()
}

// Subscribe returns a channel of transitions and a function that ends the
// subscription. Slow subscribers miss events rather than block the surface.
func (s *Surface[T]) Subscribe() (<-chan Event, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	ch := make(chan Event, subscriberBuffer)
	s.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs, id)
			close(ch)
		})
	}
}

func (s *Surface[T]) publishLocked() {
	ev := Event{Surface: s.name, Phase: s.state.Phase, Error: s.state.Message}
	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
