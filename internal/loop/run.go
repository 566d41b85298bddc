package loop

import (
	"context"
	"time"
)

// FrameFunc is called once per tick with the tick time. Returning an error stops Run.
type FrameFunc func(now time.Time) error

// Run calls frame at a fixed rate until ctx is cancelled or frame fails.
// A cancelled context is not an error.
func Run(ctx context.Context, tick time.Duration, frame FrameFunc) error {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			if err := frame(now); err != nil {
				return err
			}
		}
	}
}

// Step advances the game and renders the resulting frame.
func Step(g *Game, r Renderer, now time.Time) error {
	g.Advance(now)
	return r.Render(g.View())
}
