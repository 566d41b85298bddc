package object

import (
	"math"
	"time"

	"github.com/tomz197/kanji-shooter/internal/loop/config"
)

// EnemySpawner releases enemies at the right edge on a timer that shortens
// as the score climbs, and triggers shooter fire.
type EnemySpawner struct {
	cfg      config.Config
	timer    float64 // Milliseconds since last spawn
	interval float64 // Milliseconds between spawns
}

// NewEnemySpawner creates a spawner at base difficulty.
func NewEnemySpawner(cfg config.Config) *EnemySpawner {
	s := &EnemySpawner{cfg: cfg}
	s.Reset()
	return s
}

// Reset returns the spawner to base difficulty with an empty timer.
func (s *EnemySpawner) Reset() {
	s.timer = 0
	s.interval = s.cfg.Enemies.SpawnIntervalMs
}

// Interval returns the current spawn interval in milliseconds.
func (s *EnemySpawner) Interval() float64 {
	return s.interval
}

// Update advances the timer and spawns at most one enemy. The interval is
// recomputed from the score only when an enemy spawns.
func (s *EnemySpawner) Update(ctx UpdateContext) {
	s.timer += float64(ctx.Delta) / float64(time.Millisecond)
	if s.timer < s.interval {
		return
	}

	enemies := s.cfg.Enemies
	y := ctx.Rand.Float64() * (ctx.Screen.Height - enemies.Height)
	v := PickVariant(enemies, ctx.Rand.Float64())
	ctx.Spawner.SpawnEnemy(NewEnemy(v, ctx.Screen.Width, y, enemies))

	s.timer = 0
	s.interval = SpawnInterval(enemies, ctx.Score)
}

// FireShooters lets every active shooter whose cooldown has elapsed fire an
// enemy bullet from its left edge.
func (s *EnemySpawner) FireShooters(ctx UpdateContext, enemies []Enemy) {
	for _, e := range enemies {
		sh, ok := e.(Shooter)
		if !ok || !sh.IsActive() {
			continue
		}
		if x, y, ok := sh.TryShoot(ctx.Now); ok {
			ctx.Spawner.SpawnEnemyBullet(NewEnemyBullet(x, y, s.cfg.EnemyBullets))
		}
	}
}

// SpawnInterval returns the spawn interval in milliseconds for a score:
// the base interval shrinks by the rate once per threshold points, down to the minimum.
func SpawnInterval(cfg config.EnemiesConfig, score int) float64 {
	if score < 0 {
		score = 0
	}
	level := score / cfg.DifficultyScoreThreshold
	interval := cfg.SpawnIntervalMs * math.Pow(cfg.DifficultyIncreaseRate, float64(level))
	return math.Max(interval, cfg.MinSpawnIntervalMs)
}

// PickVariant maps a uniform draw r in [0, 1) to a variant using cumulative
// probabilities in the order flying, durable, shooter. The remainder is normal.
func PickVariant(cfg config.EnemiesConfig, r float64) Variant {
	p := cfg.Flying.Probability
	if r < p {
		return VariantFlying
	}
	p += cfg.Durable.Probability
	if r < p {
		return VariantDurable
	}
	p += cfg.Shooter.Probability
	if r < p {
		return VariantShooter
	}
	return VariantNormal
}
