package object

import "github.com/tomz197/kanji-shooter/internal/loop/config"

// Bullet is a projectile fired by the player.
type Bullet struct {
	Entity
	Speed     float64
	Direction float64 // +1 travels right, -1 travels left

	cfg config.ProjectileConfig
}

// NewBullet creates a bullet with its top-left corner at (x, y).
func NewBullet(x, y, direction float64, cfg config.ProjectileConfig) *Bullet {
	return &Bullet{
		Entity:    Entity{X: x, Y: y, W: cfg.Width, H: cfg.Height},
		Speed:     cfg.Speed,
		Direction: direction,
		cfg:       cfg,
	}
}

// Update moves the bullet and retires it once it leaves the screen.
func (b *Bullet) Update(ctx UpdateContext) {
	if b.destroyed {
		return
	}
	b.X += b.Speed * b.Direction

	if b.Direction > 0 && b.X > ctx.Screen.Width {
		b.MarkDestroyed()
	} else if b.Direction < 0 && b.X < -b.W {
		b.MarkDestroyed()
	}
}

// Appearance returns how the bullet is drawn.
func (b *Bullet) Appearance() Appearance {
	return Appearance{Glyph: b.cfg.Glyph, Color: b.cfg.Color, Size: int(b.H)}
}

// EnemyBullet is a projectile fired by a shooter enemy. It always travels left.
type EnemyBullet struct {
	Entity
	Speed float64

	cfg config.ProjectileConfig
}

// NewEnemyBullet creates an enemy bullet with its top-left corner at (x, y).
func NewEnemyBullet(x, y float64, cfg config.ProjectileConfig) *EnemyBullet {
	return &EnemyBullet{
		Entity: Entity{X: x, Y: y, W: cfg.Width, H: cfg.Height},
		Speed:  cfg.Speed,
		cfg:    cfg,
	}
}

// Update moves the bullet left and retires it past the left edge.
func (b *EnemyBullet) Update(_ UpdateContext) {
	if b.destroyed {
		return
	}
	b.X -= b.Speed
	if b.X < -b.W {
		b.MarkDestroyed()
	}
}

// Appearance returns how the enemy bullet is drawn.
func (b *EnemyBullet) Appearance() Appearance {
	return Appearance{Glyph: b.cfg.Glyph, Color: b.cfg.Color, Size: int(b.H)}
}
