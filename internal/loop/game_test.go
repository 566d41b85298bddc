package loop_test

import (
	"errors"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/tomz197/kanji-shooter/internal/loop"
	"github.com/tomz197/kanji-shooter/internal/loop/config"
	"github.com/tomz197/kanji-shooter/internal/loop/mocks"
	"github.com/tomz197/kanji-shooter/internal/object"
)

const frame = 16 * time.Millisecond

var epoch = time.Unix(1_700_000_000, 0)

func newTestGame(t *testing.T) (*loop.Game, *mocks.MockInputProvider) {
	t.Helper()
	ctrl := gomock.NewController(t)
	in := mocks.NewMockInputProvider(ctrl)
	in.EXPECT().Poll(gomock.Any()).Return(object.Input{}).AnyTimes()
	return loop.NewGame(config.Default(), in, loop.NewRand(1)), in
}

func TestNewGame(t *testing.T) {
	g, _ := newTestGame(t)
	w := g.World()

	if !g.Active() || g.Score() != 0 {
		t.Errorf("expected active game at score 0, got active=%v score=%d", g.Active(), g.Score())
	}
	if len(w.Stars) != 30 {
		t.Errorf("expected 30 stars, got %d", len(w.Stars))
	}
	if w.Player.X != 100 || w.Player.Y != 300 {
		t.Errorf("expected player at (100, 300), got (%v, %v)", w.Player.X, w.Player.Y)
	}
}

func TestUpdateSkipsBadDeltas(t *testing.T) {
	g, _ := newTestGame(t)

	tests := []struct {
		name string
		dt   time.Duration
		want bool
	}{
		{"zero", 0, false},
		{"negative", -frame, false},
		{"at limit", config.MaxFrameDelta, false},
		{"stalled", time.Second, false},
		{"just under limit", config.MaxFrameDelta - time.Millisecond, true},
		{"normal", frame, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.Update(tt.dt, epoch); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestAdvancePrimesOnFirstCall(t *testing.T) {
	g, _ := newTestGame(t)

	if g.Advance(epoch) {
		t.Error("expected first advance to only record the time")
	}
	if !g.Advance(epoch.Add(frame)) {
		t.Error("expected second advance to step")
	}
	if g.Advance(epoch.Add(frame + time.Second)) {
		t.Error("expected a stalled frame to be skipped")
	}
	if g.Frame() != 1 {
		t.Errorf("expected 1 simulated frame, got %d", g.Frame())
	}
}

func TestBulletKillsEnemy(t *testing.T) {
	g, _ := newTestGame(t)
	cfg := config.Default()
	w := g.World()

	w.Enemies = append(w.Enemies, object.NewEnemy(object.VariantNormal, 400, 100, cfg.Enemies))
	w.Bullets = append(w.Bullets, object.NewBullet(400, 100, 1, cfg.Bullets))

	g.Update(frame, epoch)

	if g.Score() != 10 {
		t.Errorf("expected score 10, got %d", g.Score())
	}
	if len(w.Enemies) != 0 || len(w.Bullets) != 0 {
		t.Errorf("expected enemy and bullet removed, got %d enemies %d bullets", len(w.Enemies), len(w.Bullets))
	}
	if len(w.Explosions) != 1 {
		t.Fatalf("expected 1 explosion, got %d", len(w.Explosions))
	}
	if e := w.Explosions[0]; e.X != 407 || e.Y != 100 {
		t.Errorf("expected explosion at bullet position (407, 100), got (%v, %v)", e.X, e.Y)
	}
}

func TestBulletHitsOnlyNewestEnemy(t *testing.T) {
	g, _ := newTestGame(t)
	cfg := config.Default()
	w := g.World()

	older := object.NewEnemy(object.VariantNormal, 400, 100, cfg.Enemies)
	newer := object.NewEnemy(object.VariantNormal, 400, 100, cfg.Enemies)
	w.Enemies = append(w.Enemies, older, newer)
	w.Bullets = append(w.Bullets, object.NewBullet(400, 100, 1, cfg.Bullets))

	g.Update(frame, epoch)

	if newer.IsActive() {
		t.Error("expected the last enemy in the list to take the hit")
	}
	if !older.IsActive() {
		t.Error("expected the bullet to stop after one hit")
	}
}

func TestDurableEnemyScoresOnce(t *testing.T) {
	g, _ := newTestGame(t)
	cfg := config.Default()
	w := g.World()

	durable := object.NewEnemy(object.VariantDurable, 400, 100, cfg.Enemies)
	w.Enemies = append(w.Enemies, durable)
	for range 4 {
		w.Bullets = append(w.Bullets, object.NewBullet(400, 100, 1, cfg.Bullets))
	}

	g.Update(frame, epoch)

	if g.Score() != 10 {
		t.Errorf("expected score 10 for one kill, got %d", g.Score())
	}
	if durable.IsActive() {
		t.Error("expected durable enemy destroyed after three hits")
	}
	if len(w.Bullets) != 1 {
		t.Errorf("expected one bullet to pass through, got %d", len(w.Bullets))
	}
	if len(w.Explosions) != 3 {
		t.Errorf("expected 3 explosions, got %d", len(w.Explosions))
	}
}

func TestDurableEnemyOneHitPerFrame(t *testing.T) {
	g, _ := newTestGame(t)
	cfg := config.Default()
	w := g.World()

	durable := object.NewEnemy(object.VariantDurable, 400, 100, cfg.Enemies)
	w.Enemies = append(w.Enemies, durable)

	steps := []struct {
		hp    int
		score int
		glyph string
	}{
		{2, 0, "中"},
		{1, 0, "小"},
		{0, 10, ""},
	}
	if got := durable.Appearance().Glyph; got != "大" {
		t.Fatalf("expected full hp glyph 大, got %s", got)
	}

	now := epoch
	for i, step := range steps {
		w.Bullets = append(w.Bullets, object.NewBullet(durable.Bounds().X, 100, 1, cfg.Bullets))
		now = now.Add(frame)
		g.Update(frame, now)

		if durable.HP() != step.hp {
			t.Errorf("frame %d: expected hp %d, got %d", i+1, step.hp, durable.HP())
		}
		if g.Score() != step.score {
			t.Errorf("frame %d: expected score %d, got %d", i+1, step.score, g.Score())
		}
		if step.glyph != "" && durable.Appearance().Glyph != step.glyph {
			t.Errorf("frame %d: expected glyph %s, got %s", i+1, step.glyph, durable.Appearance().Glyph)
		}
	}
	if durable.IsActive() || len(w.Enemies) != 0 {
		t.Error("expected durable enemy removed after its third hit")
	}

	// Nothing left to hit, so the score stays put
	w.Bullets = append(w.Bullets, object.NewBullet(400, 100, 1, cfg.Bullets))
	g.Update(frame, now.Add(frame))
	if g.Score() != 10 {
		t.Errorf("expected score to stay 10, got %d", g.Score())
	}
}

func TestOffscreenEntitiesPruned(t *testing.T) {
	cfg := config.Default()
	width := cfg.Screen.Width

	tests := []struct {
		name string
		add  func(w *loop.World)
		kept int
	}{
		{"bullet past right edge", func(w *loop.World) {
			w.Bullets = append(w.Bullets, object.NewBullet(width+1, 10, 1, cfg.Bullets))
		}, 0},
		{"bullet crossing right edge", func(w *loop.World) {
			w.Bullets = append(w.Bullets, object.NewBullet(width-cfg.Bullets.Speed+1, 10, 1, cfg.Bullets))
		}, 0},
		{"bullet reaching right edge", func(w *loop.World) {
			w.Bullets = append(w.Bullets, object.NewBullet(width-cfg.Bullets.Speed, 10, 1, cfg.Bullets))
		}, 1},
		{"enemy past left edge", func(w *loop.World) {
			w.Enemies = append(w.Enemies, object.NewEnemy(object.VariantNormal, -cfg.Enemies.Width-1, 500, cfg.Enemies))
		}, 0},
		{"flying enemy past left edge", func(w *loop.World) {
			w.Enemies = append(w.Enemies, object.NewEnemy(object.VariantFlying, -cfg.Enemies.Width-1, 500, cfg.Enemies))
		}, 0},
		{"enemy crossing left edge", func(w *loop.World) {
			w.Enemies = append(w.Enemies, object.NewEnemy(object.VariantNormal, -cfg.Enemies.Width+1, 500, cfg.Enemies))
		}, 0},
		{"enemy reaching left edge", func(w *loop.World) {
			w.Enemies = append(w.Enemies, object.NewEnemy(object.VariantNormal, -cfg.Enemies.Width+cfg.Enemies.Speed, 500, cfg.Enemies))
		}, 1},
		{"enemy bullet past left edge", func(w *loop.World) {
			w.EnemyBullets = append(w.EnemyBullets, object.NewEnemyBullet(-cfg.EnemyBullets.Width-1, 10, cfg.EnemyBullets))
		}, 0},
		{"enemy bullet crossing left edge", func(w *loop.World) {
			w.EnemyBullets = append(w.EnemyBullets, object.NewEnemyBullet(-cfg.EnemyBullets.Width+1, 10, cfg.EnemyBullets))
		}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, _ := newTestGame(t)
			w := g.World()
			tt.add(w)

			g.Update(frame, epoch)

			if got := len(w.Bullets) + len(w.Enemies) + len(w.EnemyBullets); got != tt.kept {
				t.Errorf("expected %d entities kept, got %d", tt.kept, got)
			}
		})
	}
}

func TestShooterFiresOnFirstFrame(t *testing.T) {
	g, _ := newTestGame(t)
	cfg := config.Default()
	w := g.World()

	w.Enemies = append(w.Enemies, object.NewEnemy(object.VariantShooter, 600, 50, cfg.Enemies))

	g.Update(frame, epoch)
	if len(w.EnemyBullets) != 1 {
		t.Fatalf("expected 1 enemy bullet, got %d", len(w.EnemyBullets))
	}

	g.Update(frame, epoch.Add(time.Second))
	if len(w.EnemyBullets) != 1 {
		t.Errorf("expected cooldown to hold fire, got %d", len(w.EnemyBullets))
	}
}

func TestPlayerEnemyCollisionEndsGame(t *testing.T) {
	g, _ := newTestGame(t)
	cfg := config.Default()
	w := g.World()

	w.Enemies = append(w.Enemies, object.NewEnemy(object.VariantNormal, w.Player.X+10, w.Player.Y, cfg.Enemies))
	g.Update(frame, epoch)

	if g.Active() || g.Phase() != loop.PhaseGameOver {
		t.Fatalf("expected game over, got %s", g.Phase())
	}

	before := g.View()
	for i := range 10 {
		if g.Update(frame, epoch.Add(time.Duration(i)*frame)) {
			t.Fatal("expected no update after game over")
		}
	}
	after := g.View()

	if before.Frame != after.Frame || len(before.Sprites) != len(after.Sprites) {
		t.Fatal("expected frozen state after game over")
	}
	for i := range before.Sprites {
		if before.Sprites[i] != after.Sprites[i] {
			t.Errorf("sprite %d changed after game over: %+v -> %+v", i, before.Sprites[i], after.Sprites[i])
		}
	}
}

func TestPlayerEnemyBulletCollisionEndsGame(t *testing.T) {
	g, _ := newTestGame(t)
	cfg := config.Default()
	w := g.World()

	w.EnemyBullets = append(w.EnemyBullets, object.NewEnemyBullet(w.Player.X+10, w.Player.Y+10, cfg.EnemyBullets))
	g.Update(frame, epoch)

	if g.Active() {
		t.Error("expected game over after enemy bullet hit")
	}
}

func TestRestart(t *testing.T) {
	g, in := newTestGame(t)
	cfg := config.Default()
	w := g.World()

	if g.Restart() {
		t.Fatal("expected restart to be refused while active")
	}

	w.Bullets = append(w.Bullets, object.NewBullet(400, 400, 1, cfg.Bullets))
	w.Bullets = append(w.Bullets, object.NewBullet(400, 100, 1, cfg.Bullets))
	w.Enemies = append(w.Enemies, object.NewEnemy(object.VariantNormal, 400, 100, cfg.Enemies))
	w.Enemies = append(w.Enemies, object.NewEnemy(object.VariantNormal, w.Player.X, w.Player.Y, cfg.Enemies))
	g.Update(frame, epoch)
	if g.Active() || g.Score() != 10 {
		t.Fatalf("expected game over with score 10, got active=%v score=%d", g.Active(), g.Score())
	}

	in.EXPECT().Reset().Times(1)
	if !g.Restart() {
		t.Fatal("expected restart from game over")
	}

	if !g.Active() || g.Score() != 0 {
		t.Errorf("expected active game at score 0, got active=%v score=%d", g.Active(), g.Score())
	}
	if len(w.Bullets) != 0 || len(w.Enemies) != 0 || len(w.EnemyBullets) != 0 || len(w.Explosions) != 0 {
		t.Error("expected all collections cleared")
	}
	if len(w.Stars) != cfg.Stars.Count {
		t.Errorf("expected %d stars, got %d", cfg.Stars.Count, len(w.Stars))
	}
	if w.Player.X != cfg.Player.InitialX || w.Player.Y != cfg.Screen.Height/2 {
		t.Errorf("expected player repositioned, got (%v, %v)", w.Player.X, w.Player.Y)
	}
	if g.SpawnInterval() != 2*time.Second {
		t.Errorf("expected base spawn interval, got %v", g.SpawnInterval())
	}
	if g.Restart() {
		t.Error("expected a second restart to be refused")
	}
}

func TestEnemiesSpawnOverTime(t *testing.T) {
	g, _ := newTestGame(t)
	w := g.World()

	// Keep the player out of the way at the top
	w.Player.X = -1000
	now := epoch
	for range 130 {
		now = now.Add(frame)
		g.Update(frame, now)
	}

	if len(w.Enemies) != 1 {
		t.Errorf("expected 1 enemy after ~2s, got %d", len(w.Enemies))
	}
}

func TestRunStopsOnCancelAndError(t *testing.T) {
	ctrl := gomock.NewController(t)
	in := mocks.NewMockInputProvider(ctrl)
	in.EXPECT().Poll(gomock.Any()).Return(object.Input{}).AnyTimes()
	r := mocks.NewMockRenderer(ctrl)
	g := loop.NewGame(config.Default(), in, loop.NewRand(7))

	errDone := errors.New("done")
	calls := 0
	r.EXPECT().Render(gomock.Any()).DoAndReturn(func(v loop.View) error {
		calls++
		if v.Phase != loop.PhaseActive {
			t.Errorf("expected active phase, got %s", v.Phase)
		}
		if calls == 3 {
			return errDone
		}
		return nil
	}).Times(3)

	err := loop.Run(t.Context(), time.Millisecond, func(now time.Time) error {
		return loop.Step(g, r, now)
	})
	if !errors.Is(err, errDone) {
		t.Errorf("expected render error, got %v", err)
	}
}

func TestUpdateAfterRestartMatchesFreshGame(t *testing.T) {
	fresh, _ := newTestGame(t)
	restarted, in := newTestGame(t)
	cfg := config.Default()

	w := restarted.World()
	w.Enemies = append(w.Enemies, object.NewEnemy(object.VariantNormal, w.Player.X, w.Player.Y, cfg.Enemies))
	now := epoch.Add(frame)
	restarted.Advance(epoch)
	restarted.Advance(now)
	if restarted.Active() {
		t.Fatal("expected game over before restart")
	}
	in.EXPECT().Reset().Times(1)
	restarted.Restart()

	// Both first advances only prime the clock
	start := now.Add(time.Hour)
	if fresh.Advance(start) || restarted.Advance(start) {
		t.Fatal("expected first advance after (re)start to only prime the clock")
	}

	for _, g := range []*loop.Game{fresh, restarted} {
		g.World().Player.X = -1000
	}
	at := start
	for i := range 130 {
		at = at.Add(frame)
		a, b := fresh.Advance(at), restarted.Advance(at)
		if a != b {
			t.Fatalf("frame %d: expected both games to step alike, got %v and %v", i+1, a, b)
		}
		fw, rw := fresh.World(), restarted.World()
		// Variants come from diverging random streams, so enemy bullets are not compared
		if len(fw.Enemies) != len(rw.Enemies) || len(fw.Bullets) != len(rw.Bullets) || len(fw.Explosions) != len(rw.Explosions) {
			t.Fatalf("frame %d: entity counts differ: fresh %d/%d/%d restarted %d/%d/%d", i+1,
				len(fw.Enemies), len(fw.Bullets), len(fw.Explosions),
				len(rw.Enemies), len(rw.Bullets), len(rw.Explosions))
		}
		if fresh.Score() != restarted.Score() || fresh.SpawnInterval() != restarted.SpawnInterval() {
			t.Fatalf("frame %d: expected equal score and spawn interval", i+1)
		}
		if fw.Player.Y != rw.Player.Y {
			t.Fatalf("frame %d: expected equal player position", i+1)
		}
	}
	if len(restarted.World().Enemies) != 1 {
		t.Errorf("expected first enemy on the fresh schedule, got %d", len(restarted.World().Enemies))
	}
}
