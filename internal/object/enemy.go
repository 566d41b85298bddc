package object

import (
	"math"
	"time"

	"github.com/tomz197/kanji-shooter/internal/loop/config"
	"github.com/tomz197/kanji-shooter/internal/physics"
)

// Variant is the behaviour family of an enemy.
type Variant int

const (
	VariantNormal Variant = iota
	VariantFlying
	VariantDurable
	VariantShooter
)

var variantNames = [...]string{
	VariantNormal:  "normal",
	VariantFlying:  "flying",
	VariantDurable: "durable",
	VariantShooter: "shooter",
}

func (v Variant) String() string {
	if v < 0 || int(v) >= len(variantNames) {
		return "unknown"
	}
	return variantNames[v]
}

// Enemy is a hostile that drifts in from the right edge.
type Enemy interface {
	Variant() Variant
	Update(ctx UpdateContext)
	Bounds() physics.Rect
	IsActive() bool
	MarkDestroyed()
	HP() int
	MaxHP() int
	// TakeDamage removes hp and reports whether this hit destroyed the enemy.
	// Damage to an inactive enemy is ignored.
	TakeDamage(n int) (killed bool)
	Appearance() Appearance
}

// Shooter is implemented by enemies that fire back.
type Shooter interface {
	Enemy
	// TryShoot fires if the cooldown has elapsed, returning the muzzle position.
	TryShoot(now time.Time) (x, y float64, ok bool)
}

// enemyBase holds what every variant shares: straight leftward drift and hp.
type enemyBase struct {
	Entity
	Speed float64
	hp    int
	maxHP int
	cfg   config.EnemyTypeConfig
}

func newEnemyBase(x, y float64, speed float64, enemies config.EnemiesConfig, t config.EnemyTypeConfig) enemyBase {
	return enemyBase{
		Entity: Entity{X: x, Y: y, W: enemies.Width, H: enemies.Height},
		Speed:  speed,
		hp:     t.HP,
		maxHP:  t.HP,
		cfg:    t,
	}
}

func (e *enemyBase) HP() int    { return e.hp }
func (e *enemyBase) MaxHP() int { return e.maxHP }

func (e *enemyBase) TakeDamage(n int) bool {
	if e.destroyed || n <= 0 {
		return false
	}
	e.hp -= n
	if e.hp <= 0 {
		e.hp = 0
		e.MarkDestroyed()
		return true
	}
	return false
}

// drift moves the enemy left and retires it past the left edge.
func (e *enemyBase) drift() {
	e.X -= e.Speed
	if e.X < -e.W {
		e.MarkDestroyed()
	}
}

func (e *enemyBase) Update(_ UpdateContext) {
	if e.destroyed {
		return
	}
	e.drift()
}

func (e *enemyBase) Appearance() Appearance {
	return Appearance{Glyph: e.cfg.Glyph, Color: e.cfg.Color, Size: e.cfg.FontSize}
}

// NormalEnemy drifts left and dies in one hit.
type NormalEnemy struct {
	enemyBase
}

func (e *NormalEnemy) Variant() Variant { return VariantNormal }

// FlyingEnemy moves faster and weaves along a sine wave around its spawn height.
// The wave phase advances per update, not per second.
type FlyingEnemy struct {
	enemyBase
	BaseY     float64
	Phase     float64
	Amplitude float64
	Frequency float64
}

func (e *FlyingEnemy) Variant() Variant { return VariantFlying }

func (e *FlyingEnemy) Update(_ UpdateContext) {
	if e.destroyed {
		return
	}
	e.X -= e.Speed
	e.Phase += e.Frequency
	e.Y = e.BaseY + math.Sin(e.Phase)*e.Amplitude
	if e.X < -e.W {
		e.MarkDestroyed()
	}
}

// DurableEnemy takes several hits and shrinks as it loses hp.
type DurableEnemy struct {
	enemyBase
}

func (e *DurableEnemy) Variant() Variant { return VariantDurable }

// Appearance depends only on remaining hp.
func (e *DurableEnemy) Appearance() Appearance {
	i := e.hp - 1
	if i < 0 {
		i = 0
	}
	a := Appearance{Color: e.cfg.Color}
	if i < len(e.cfg.Glyphs) {
		a.Glyph = e.cfg.Glyphs[i]
	}
	if i < len(e.cfg.FontSizes) {
		a.Size = e.cfg.FontSizes[i]
	}
	return a
}

// ShooterEnemy drifts left and fires enemy bullets on a fixed cadence.
type ShooterEnemy struct {
	enemyBase
	Interval time.Duration
	lastShot time.Time
}

func (e *ShooterEnemy) Variant() Variant { return VariantShooter }

// TryShoot fires immediately the first time, then once per interval.
func (e *ShooterEnemy) TryShoot(now time.Time) (float64, float64, bool) {
	if e.destroyed {
		return 0, 0, false
	}
	if !e.lastShot.IsZero() && now.Sub(e.lastShot) <= e.Interval {
		return 0, 0, false
	}
	e.lastShot = now
	return e.X, e.Y + e.H/2, true
}

// NewEnemy creates an enemy of the given variant with its top-left corner at (x, y).
func NewEnemy(v Variant, x, y float64, cfg config.EnemiesConfig) Enemy {
	switch v {
	case VariantFlying:
		t := cfg.Flying
		return &FlyingEnemy{
			enemyBase: newEnemyBase(x, y, t.Speed, cfg, t),
			BaseY:     y,
			Amplitude: t.WaveAmplitude,
			Frequency: t.WaveFrequency,
		}
	case VariantDurable:
		return &DurableEnemy{enemyBase: newEnemyBase(x, y, cfg.Speed, cfg, cfg.Durable)}
	case VariantShooter:
		t := cfg.Shooter
		return &ShooterEnemy{
			enemyBase: newEnemyBase(x, y, cfg.Speed, cfg, t),
			Interval:  time.Duration(t.ShootIntervalMs * float64(time.Millisecond)),
		}
	default:
		return &NormalEnemy{enemyBase: newEnemyBase(x, y, cfg.Speed, cfg, cfg.Normal)}
	}
}
