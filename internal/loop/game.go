// Package loop drives the simulation: per-frame update, spawning, collision
// resolution and pruning, plus the restart state machine.
package loop

import (
	"math/rand/v2"
	"time"

	"github.com/tomz197/kanji-shooter/internal/loop/config"
	"github.com/tomz197/kanji-shooter/internal/object"
)

//go:generate go tool mockgen -destination=mocks/mock_loop.go -package=mocks . InputProvider,Renderer

// InputProvider supplies the controls for each frame.
type InputProvider interface {
	// Poll returns held keys and the pending shoot edge, consuming the edge.
	Poll(now time.Time) object.Input
	// Reset forgets all held keys and pending edges.
	Reset()
}

// Renderer draws a frame.
type Renderer interface {
	Render(v View) error
}

// Game owns all simulation state for one player. It is not safe for
// concurrent use; only the frame loop goroutine may touch it.
type Game struct {
	cfg     config.Config
	screen  object.Screen
	state   *State
	world   *World
	spawner *object.EnemySpawner
	input   InputProvider
	rand    *rand.Rand

	lastTime time.Time
	frame    uint64
}

// NewGame creates a game ready for its first frame.
func NewGame(cfg config.Config, in InputProvider, r *rand.Rand) *Game {
	g := &Game{
		cfg:     cfg,
		screen:  object.Screen{Width: cfg.Screen.Width, Height: cfg.Screen.Height},
		state:   NewState(),
		world:   &World{Player: object.NewPlayer(cfg)},
		spawner: object.NewEnemySpawner(cfg),
		input:   in,
		rand:    r,
	}
	g.world.Stars = object.NewStarField(cfg, r)
	return g
}

// NewRand creates the random source for a game. Equal seeds replay equal games.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Advance runs one frame at wall-clock time now, deriving the elapsed time
// from the previous call. The first call only records the time.
// Returns true if the simulation stepped.
func (g *Game) Advance(now time.Time) bool {
	if g.lastTime.IsZero() {
		g.lastTime = now
		return false
	}
	dt := now.Sub(g.lastTime)
	g.lastTime = now
	return g.Update(dt, now)
}

// Update steps the simulation by dt. Nothing happens while the game is over,
// or when dt is not positive or at least config.MaxFrameDelta (a stalled frame
// is rendered but not simulated). Returns true if the simulation stepped.
func (g *Game) Update(dt time.Duration, now time.Time) bool {
	if !g.state.Active() || dt <= 0 || dt >= config.MaxFrameDelta {
		return false
	}

	ctx := object.UpdateContext{
		Delta:   dt,
		Now:     now,
		Input:   g.input.Poll(now),
		Screen:  g.screen,
		Rand:    g.rand,
		Spawner: g.world,
		Score:   g.state.Score(),
	}

	w := g.world
	w.Player.Update(ctx)
	for _, s := range w.Stars {
		s.Update(ctx)
	}
	for _, b := range w.Bullets {
		b.Update(ctx)
	}
	for _, b := range w.EnemyBullets {
		b.Update(ctx)
	}
	for _, e := range w.Enemies {
		e.Update(ctx)
	}
	for _, e := range w.Explosions {
		e.Update(ctx)
	}
	w.FlushSpawned()

	g.spawner.Update(ctx)
	w.FlushSpawned()
	g.spawner.FireShooters(ctx, w.Enemies)
	w.FlushSpawned()

	g.resolveCollisions()
	w.Compact()

	g.frame++
	return true
}

// Restart starts a new game. Only allowed once the game is over;
// returns false and changes nothing while the game is still running.
func (g *Game) Restart() bool {
	if g.state.Active() {
		return false
	}

	g.state.Reset()
	g.world.Player.Reset()
	g.world.Clear()
	g.world.Stars = object.NewStarField(g.cfg, g.rand)
	g.spawner.Reset()
	g.input.Reset()
	g.lastTime = time.Time{}
	return true
}

// Score returns the current score.
func (g *Game) Score() int { return g.state.Score() }

// Active reports whether the simulation is running.
func (g *Game) Active() bool { return g.state.Active() }

// Phase returns the current phase.
func (g *Game) Phase() Phase { return g.state.Phase() }

// Frame returns the number of simulated steps since the game was created.
func (g *Game) Frame() uint64 { return g.frame }

// World exposes the entities, mainly for tests and renderers.
func (g *Game) World() *World { return g.world }

// SpawnInterval returns the current enemy spawn interval.
func (g *Game) SpawnInterval() time.Duration {
	return time.Duration(g.spawner.Interval() * float64(time.Millisecond))
}
