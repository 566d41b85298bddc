package loop

import "github.com/tomz197/kanji-shooter/internal/object"

// Sprite is one entity as a renderer sees it.
type Sprite struct {
	Kind object.Kind `json:"kind"`
	X    float64     `json:"x"`
	Y    float64     `json:"y"`
	W    float64     `json:"w"`
	H    float64     `json:"h"`
	object.Appearance
}

// View is a read-only snapshot of a frame, safe to hand to another goroutine.
type View struct {
	Screen  object.Screen `json:"screen"`
	Frame   uint64        `json:"frame"`
	Score   int           `json:"score"`
	Phase   Phase         `json:"phase"`
	Sprites []Sprite      `json:"sprites"`
}

// View snapshots the world in draw order: stars, player, bullets,
// enemy bullets, enemies, explosions.
func (g *Game) View() View {
	w := g.world
	sprites := make([]Sprite, 0, 1+len(w.Stars)+len(w.Bullets)+len(w.EnemyBullets)+len(w.Enemies)+len(w.Explosions))

	add := func(kind object.Kind, e *object.Entity, a object.Appearance) {
		sprites = append(sprites, Sprite{Kind: kind, X: e.X, Y: e.Y, W: e.W, H: e.H, Appearance: a})
	}

	for _, s := range w.Stars {
		add(object.KindStar, &s.Entity, s.Appearance())
	}
	add(object.KindPlayer, &w.Player.Entity, w.Player.Appearance())
	for _, b := range w.Bullets {
		if b.IsActive() {
			add(object.KindBullet, &b.Entity, b.Appearance())
		}
	}
	for _, b := range w.EnemyBullets {
		if b.IsActive() {
			add(object.KindEnemyBullet, &b.Entity, b.Appearance())
		}
	}
	for _, e := range w.Enemies {
		if !e.IsActive() {
			continue
		}
		r := e.Bounds()
		sprites = append(sprites, Sprite{Kind: object.KindEnemy, X: r.X, Y: r.Y, W: r.W, H: r.H, Appearance: e.Appearance()})
	}
	for _, e := range w.Explosions {
		if e.IsActive() {
			add(object.KindExplosion, &e.Entity, e.Appearance())
		}
	}

	return View{
		Screen:  g.screen,
		Frame:   g.frame,
		Score:   g.state.Score(),
		Phase:   g.state.Phase(),
		Sprites: sprites,
	}
}
