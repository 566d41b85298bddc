package loop

import "github.com/tomz197/kanji-shooter/internal/object"

// World holds every entity in a game. The player lives outside the
// removable collections.
type World struct {
	Player       *object.Player
	Bullets      []*object.Bullet
	EnemyBullets []*object.EnemyBullet
	Enemies      []object.Enemy
	Stars        []*object.Star
	Explosions   []*object.Explosion

	// Entities spawned during update, added by FlushSpawned
	newBullets      []*object.Bullet
	newEnemyBullets []*object.EnemyBullet
	newEnemies      []object.Enemy
}

// Compile-time check that World implements object.Spawner.
var _ object.Spawner = (*World)(nil)

// SpawnBullet queues a player bullet.
func (w *World) SpawnBullet(b *object.Bullet) {
	w.newBullets = append(w.newBullets, b)
}

// SpawnEnemyBullet queues an enemy bullet.
func (w *World) SpawnEnemyBullet(b *object.EnemyBullet) {
	w.newEnemyBullets = append(w.newEnemyBullets, b)
}

// SpawnEnemy queues an enemy.
func (w *World) SpawnEnemy(e object.Enemy) {
	w.newEnemies = append(w.newEnemies, e)
}

// FlushSpawned adds all queued entities to the world and clears the queues.
func (w *World) FlushSpawned() {
	w.Bullets = append(w.Bullets, w.newBullets...)
	w.EnemyBullets = append(w.EnemyBullets, w.newEnemyBullets...)
	w.Enemies = append(w.Enemies, w.newEnemies...)

	clear(w.newBullets)
	clear(w.newEnemyBullets)
	clear(w.newEnemies)
	w.newBullets = w.newBullets[:0]
	w.newEnemyBullets = w.newEnemyBullets[:0]
	w.newEnemies = w.newEnemies[:0]
}

// Compact drops every inactive entity, keeping order.
func (w *World) Compact() {
	w.Bullets = compact(w.Bullets)
	w.EnemyBullets = compact(w.EnemyBullets)
	w.Enemies = compact(w.Enemies)
	w.Explosions = compact(w.Explosions)
}

// Clear removes every bullet, enemy and explosion, including queued ones.
func (w *World) Clear() {
	w.FlushSpawned()
	clear(w.Bullets)
	clear(w.EnemyBullets)
	clear(w.Enemies)
	clear(w.Explosions)
	w.Bullets = w.Bullets[:0]
	w.EnemyBullets = w.EnemyBullets[:0]
	w.Enemies = w.Enemies[:0]
	w.Explosions = w.Explosions[:0]
}

type activeEntity interface {
	IsActive() bool
}

// compact filters objs in place.
func compact[T activeEntity](objs []T) []T {
	kept := objs[:0]
	for _, o := range objs {
		if o.IsActive() {
			kept = append(kept, o)
		}
	}
	clear(objs[len(kept):])
	return kept
}
