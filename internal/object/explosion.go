package object

import "github.com/tomz197/kanji-shooter/internal/loop/config"

// Explosion is a short flash left where a bullet hit an enemy.
type Explosion struct {
	Entity
	Lifetime float64 // Seconds remaining

	cfg config.ExplosionConfig
}

// NewExplosion creates an explosion at (x, y).
func NewExplosion(x, y float64, cfg config.ExplosionConfig) *Explosion {
	return &Explosion{
		Entity:   Entity{X: x, Y: y, W: cfg.Size, H: cfg.Size},
		Lifetime: cfg.DurationSeconds,
		cfg:      cfg,
	}
}

// Update counts down the lifetime in real time.
func (e *Explosion) Update(ctx UpdateContext) {
	if e.destroyed {
		return
	}
	e.Lifetime -= ctx.Delta.Seconds()
	if e.Lifetime <= 0 {
		e.MarkDestroyed()
	}
}

// Appearance returns how the explosion is drawn.
func (e *Explosion) Appearance() Appearance {
	return Appearance{Glyph: e.cfg.Glyph, Color: e.cfg.Color, Size: e.cfg.FontSize}
}
