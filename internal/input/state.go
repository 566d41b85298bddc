// Package input turns raw key events into the per-frame controls the game polls.
package input

import (
	"sync"
	"time"
)

// Input is the control state for a single frame.
type Input struct {
	Up    bool // Held
	Down  bool // Held
	Shoot bool // Edge, true for exactly one poll per press
}

// Action is a game control a key can drive.
type Action int

const (
	ActionUp Action = iota
	ActionDown
	ActionShoot
	actionCount
)

// State latches key events between frames. Writers (a stream reader, a tcell
// event loop, a websocket reader) call Press and Release from their own
// goroutine; the frame loop calls Poll.
//
// With a positive hold window a key counts as held for that long after its
// last press, for sources that never report releases (raw terminals). With a
// zero window keys stay held until Release.
type State struct {
	mu       sync.Mutex
	hold     time.Duration
	lastSeen [actionCount]time.Time
	down     [actionCount]bool
	shoot    bool
}

// NewState creates a latch with the given hold window.
func NewState(hold time.Duration) *State {
	return &State{hold: hold}
}

// Press records a key press. A press of an already held key is autorepeat
// and does not produce a new shoot edge.
func (s *State) Press(a Action, now time.Time) {
	if a < 0 || a >= actionCount {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if a == ActionShoot && !s.heldLocked(a, now) {
		s.shoot = true
	}
	s.lastSeen[a] = now
	s.down[a] = true
}

// Release records a key release. Only meaningful without a hold window.
func (s *State) Release(a Action) {
	if a < 0 || a >= actionCount {
		return
	}
	s.mu.Lock()
	s.down[a] = false
	s.mu.Unlock()
}

// Held reports whether a is currently held.
func (s *State) Held(a Action, now time.Time) bool {
	if a < 0 || a >= actionCount {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.heldLocked(a, now)
}

func (s *State) heldLocked(a Action, now time.Time) bool {
	if !s.down[a] {
		return false
	}
	if s.hold > 0 {
		return now.Sub(s.lastSeen[a]) < s.hold
	}
	return true
}

// Poll returns the controls for this frame and consumes the shoot edge.
func (s *State) Poll(now time.Time) Input {
	s.mu.Lock()
	defer s.mu.Unlock()

	in := Input{
		Up:    s.heldLocked(ActionUp, now),
		Down:  s.heldLocked(ActionDown, now),
		Shoot: s.shoot,
	}
	s.shoot = false
	return in
}

// Reset forgets every held key and pending edge.
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = [actionCount]time.Time{}
	s.down = [actionCount]bool{}
	s.shoot = false
}
