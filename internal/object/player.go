package object

import (
	"github.com/tomz197/kanji-shooter/internal/loop/config"
	"github.com/tomz197/kanji-shooter/internal/physics"
)

// Player is the ship the user steers up and down the left side of the screen.
type Player struct {
	Entity
	Speed float64

	cfg    config.PlayerConfig
	bullet config.ProjectileConfig
	screen Screen
}

// NewPlayer creates the player at its start position.
func NewPlayer(cfg config.Config) *Player {
	p := &Player{
		Entity: Entity{W: cfg.Player.Width, H: cfg.Player.Height},
		Speed:  cfg.Player.Speed,
		cfg:    cfg.Player,
		bullet: cfg.Bullets,
		screen: Screen{Width: cfg.Screen.Width, Height: cfg.Screen.Height},
	}
	p.Reset()
	return p
}

// Reset moves the player back to the start position.
func (p *Player) Reset() {
	p.X = p.cfg.InitialX
	p.Y = p.screen.Height / 2
	p.destroyed = false
}

// Update moves the player from held keys and fires on a shoot edge.
func (p *Player) Update(ctx UpdateContext) {
	if ctx.Input.Up {
		p.Y -= p.Speed
	}
	if ctx.Input.Down {
		p.Y += p.Speed
	}
	p.Y = physics.Clamp(p.Y, 0, ctx.Screen.Height-p.H)

	if ctx.Input.Shoot && ctx.Spawner != nil {
		x, y := p.FirePosition()
		ctx.Spawner.SpawnBullet(NewBullet(x, y, 1, p.bullet))
	}
}

// FirePosition is where new bullets appear: the middle of the right edge.
func (p *Player) FirePosition() (float64, float64) {
	return p.X + p.W, p.Y + p.H/2
}

// Appearance returns how the player is drawn.
func (p *Player) Appearance() Appearance {
	return Appearance{Glyph: p.cfg.Glyph, Color: p.cfg.Color, Size: int(p.H)}
}
