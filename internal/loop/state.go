package loop

// Phase is the current stage of a game.
type Phase int

const (
	PhaseActive   Phase = iota // Simulation running
	PhaseGameOver              // Player hit, waiting for restart
)

func (p Phase) String() string {
	switch p {
	case PhaseActive:
		return "active"
	case PhaseGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// MarshalText encodes the phase by name.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// State holds the score and phase of a game.
type State struct {
	score int
	phase Phase
}

// NewState creates a fresh active state.
func NewState() *State {
	return &State{phase: PhaseActive}
}

// Score returns the current score.
func (s *State) Score() int { return s.score }

// Phase returns the current phase.
func (s *State) Phase() Phase { return s.phase }

// Active reports whether the simulation is running.
func (s *State) Active() bool { return s.phase == PhaseActive }

// AddScore adds points. Negative amounts are ignored so the score never drops.
func (s *State) AddScore(points int) {
	if points > 0 {
		s.score += points
	}
}

// GameOver ends the game.
func (s *State) GameOver() {
	s.phase = PhaseGameOver
}

// Reset starts a new game at zero score.
func (s *State) Reset() {
	s.score = 0
	s.phase = PhaseActive
}
