package client

import "github.com/tomz197/kanji-shooter/internal/loop"

// ClientState holds per-connection presentation state.
type ClientState struct {
	prevPhase loop.Phase // Phase drawn last frame
	drawn     bool       // At least one frame drawn
	restarts  int        // Games restarted this session
}

// NewClientState creates a new initialized client state.
func NewClientState() *ClientState {
	return &ClientState{prevPhase: loop.PhaseActive}
}
