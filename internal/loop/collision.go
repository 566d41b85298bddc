package loop

import (
	"github.com/tomz197/kanji-shooter/internal/object"
	"github.com/tomz197/kanji-shooter/internal/physics"
)

// resolveCollisions runs after every entity has moved.
func (g *Game) resolveCollisions() {
	g.checkBulletEnemyCollisions()
	if g.checkPlayerEnemyCollisions() {
		return
	}
	g.checkPlayerEnemyBulletCollisions()
}

// checkBulletEnemyCollisions lets each bullet hit at most one enemy.
// Both lists are scanned newest first.
func (g *Game) checkBulletEnemyCollisions() {
	w := g.world
	for i := len(w.Bullets) - 1; i >= 0; i-- {
		b := w.Bullets[i]
		if !b.IsActive() {
			continue
		}
		bb := b.Bounds()

		for j := len(w.Enemies) - 1; j >= 0; j-- {
			e := w.Enemies[j]
			if !e.IsActive() || !physics.Intersects(bb, e.Bounds()) {
				continue
			}

			w.Explosions = append(w.Explosions, object.NewExplosion(b.X, b.Y, g.cfg.Explosions))
			b.MarkDestroyed()
			if e.TakeDamage(1) {
				g.state.AddScore(g.cfg.Score.PointsPerEnemy)
			}
			break
		}
	}
}

// checkPlayerEnemyCollisions ends the game on contact with any enemy.
func (g *Game) checkPlayerEnemyCollisions() bool {
	pb := g.world.Player.Bounds()
	for _, e := range g.world.Enemies {
		if e.IsActive() && physics.Intersects(pb, e.Bounds()) {
			g.state.GameOver()
			return true
		}
	}
	return false
}

// checkPlayerEnemyBulletCollisions ends the game on contact with any enemy bullet.
func (g *Game) checkPlayerEnemyBulletCollisions() bool {
	pb := g.world.Player.Bounds()
	for _, b := range g.world.EnemyBullets {
		if b.IsActive() && physics.Intersects(pb, b.Bounds()) {
			g.state.GameOver()
			return true
		}
	}
	return false
}
