// Package object defines the game entities and how each one moves.
package object

import (
	"math/rand/v2"
	"time"

	"github.com/tomz197/kanji-shooter/internal/input"
	"github.com/tomz197/kanji-shooter/internal/physics"
)

// Input is an alias for the input package's Input type.
type Input = input.Input

// Spawner accepts entities created during update.
type Spawner interface {
	SpawnBullet(b *Bullet)
	SpawnEnemyBullet(b *EnemyBullet)
	SpawnEnemy(e Enemy)
}

// UpdateContext provides all the information an object needs during update.
type UpdateContext struct {
	Delta   time.Duration // Elapsed time since the previous update
	Now     time.Time     // Wall clock, used for shooter cadence
	Input   Input
	Screen  Screen
	Rand    *rand.Rand
	Spawner Spawner
	Score   int
}

// Screen is the logical playfield size.
type Screen struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Entity is the shared position, size and liveness of every game object.
// Once destroyed an entity is never reactivated.
type Entity struct {
	X, Y      float64 // Top-left corner
	W, H      float64
	destroyed bool
}

// Bounds returns the collision box.
func (e *Entity) Bounds() physics.Rect {
	return physics.Rect{X: e.X, Y: e.Y, W: e.W, H: e.H}
}

// IsActive returns false once the entity has been destroyed.
func (e *Entity) IsActive() bool {
	return !e.destroyed
}

// MarkDestroyed deactivates the entity. Repeated calls are no-ops.
func (e *Entity) MarkDestroyed() {
	e.destroyed = true
}

// Appearance is what a renderer needs to draw an entity.
type Appearance struct {
	Glyph string `json:"glyph"`
	Color string `json:"color"` // #RRGGBB
	Size  int    `json:"size"`  // Nominal font size in logical units
}

// Kind identifies the entity type of a sprite.
type Kind int

const (
	KindStar Kind = iota
	KindPlayer
	KindBullet
	KindEnemyBullet
	KindEnemy
	KindExplosion
)

var kindNames = [...]string{
	KindStar:        "star",
	KindPlayer:      "player",
	KindBullet:      "bullet",
	KindEnemyBullet: "enemy_bullet",
	KindEnemy:       "enemy",
	KindExplosion:   "explosion",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}
