// Package config centralizes all tunable game parameters.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Frame timing
const (
	TargetFPS       = 60
	TargetFrameTime = time.Second / TargetFPS

	// MaxFrameDelta is the largest elapsed time a frame may simulate.
	// Longer gaps (backgrounded terminal, stalled connection) only re-render.
	MaxFrameDelta = 100 * time.Millisecond
)

// Terminal rendering
const (
	MaxTermWidth  = 160 // Columns beyond this are left as border
	MaxTermHeight = 60  // Rows beyond this are left as border
)

// Input
const (
	// KeyHoldWindow is how long a terminal key counts as held after its last byte.
	// Terminals report no key releases, so autorepeat keeps a key alive.
	KeyHoldWindow = 80 * time.Millisecond
)

// ErrInvalidConfig is wrapped by every error returned from Validate.
var ErrInvalidConfig = errors.New("invalid game config")

// Config holds every gameplay tunable. Sizes and speeds are in logical units
// of a Screen.Width x Screen.Height playfield; speeds are per frame.
type Config struct {
	Screen       ScreenConfig     `yaml:"screen"`
	Player       PlayerConfig     `yaml:"player"`
	Bullets      ProjectileConfig `yaml:"bullets"`
	EnemyBullets ProjectileConfig `yaml:"enemy_bullets"`
	Enemies      EnemiesConfig    `yaml:"enemies"`
	Stars        StarsConfig      `yaml:"stars"`
	Explosions   ExplosionConfig  `yaml:"explosions"`
	Score        ScoreConfig      `yaml:"score"`
}

// ScreenConfig is the logical playfield size.
type ScreenConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// PlayerConfig describes the player ship.
type PlayerConfig struct {
	InitialX float64 `yaml:"initial_x"`
	Speed    float64 `yaml:"speed"`
	Width    float64 `yaml:"width"`
	Height   float64 `yaml:"height"`
	Color    string  `yaml:"color"`
	Glyph    string  `yaml:"glyph"`
}

// ProjectileConfig describes player and enemy bullets.
type ProjectileConfig struct {
	Speed  float64 `yaml:"speed"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Color  string  `yaml:"color"`
	Glyph  string  `yaml:"glyph"`
}

// EnemiesConfig holds shared enemy settings, spawn pacing and per-variant settings.
type EnemiesConfig struct {
	Speed  float64 `yaml:"speed"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`

	SpawnIntervalMs          float64 `yaml:"spawn_interval_ms"`
	MinSpawnIntervalMs       float64 `yaml:"min_spawn_interval_ms"`
	DifficultyIncreaseRate   float64 `yaml:"difficulty_increase_rate"`
	DifficultyScoreThreshold int     `yaml:"difficulty_score_threshold"`

	Normal  EnemyTypeConfig `yaml:"normal"`
	Flying  EnemyTypeConfig `yaml:"flying"`
	Durable EnemyTypeConfig `yaml:"durable"`
	Shooter EnemyTypeConfig `yaml:"shooter"`
}

// EnemyTypeConfig describes one enemy variant. Fields that do not apply to a
// variant are ignored. Probability of the normal variant is informational:
// normal is whatever the other three leave over.
type EnemyTypeConfig struct {
	Probability float64 `yaml:"probability"`
	HP          int     `yaml:"hp"`
	Color       string  `yaml:"color"`
	Glyph       string  `yaml:"glyph"`
	FontSize    int     `yaml:"font_size"`

	// Flying
	Speed         float64 `yaml:"speed"`
	WaveAmplitude float64 `yaml:"wave_amplitude"`
	WaveFrequency float64 `yaml:"wave_frequency"`

	// Durable, indexed by hp-1
	Glyphs    []string `yaml:"glyphs"`
	FontSizes []int    `yaml:"font_sizes"`

	// Shooter
	ShootIntervalMs float64 `yaml:"shoot_interval_ms"`
}

// StarsConfig describes the scrolling background.
type StarsConfig struct {
	Count      int     `yaml:"count"`
	MinSpeed   float64 `yaml:"min_speed"`
	MaxSpeed   float64 `yaml:"max_speed"`
	Size       float64 `yaml:"size"`
	WrapMargin float64 `yaml:"wrap_margin"`
	Color      string  `yaml:"color"`
	Glyph      string  `yaml:"glyph"`
	FontSize   int     `yaml:"font_size"`
}

// ExplosionConfig describes the hit flash.
type ExplosionConfig struct {
	DurationSeconds float64 `yaml:"duration_seconds"`
	Size            float64 `yaml:"size"`
	Color           string  `yaml:"color"`
	Glyph           string  `yaml:"glyph"`
	FontSize        int     `yaml:"font_size"`
}

// ScoreConfig holds scoring rules.
type ScoreConfig struct {
	PointsPerEnemy int `yaml:"points_per_enemy"`
}

// Default returns the stock tuning of the game.
func Default() Config {
	return Config{
		Screen: ScreenConfig{Width: 800, Height: 600},
		Player: PlayerConfig{
			InitialX: 100,
			Speed:    5,
			Width:    48,
			Height:   48,
			Color:    "#00FFFF",
			Glyph:    "味",
		},
		Bullets: ProjectileConfig{
			Speed:  7,
			Width:  24,
			Height: 24,
			Color:  "#FFFF00",
			Glyph:  "弾",
		},
		EnemyBullets: ProjectileConfig{
			Speed:  5,
			Width:  24,
			Height: 24,
			Color:  "#FFA500",
			Glyph:  "矢",
		},
		Enemies: EnemiesConfig{
			Speed:                    2,
			Width:                    48,
			Height:                   48,
			SpawnIntervalMs:          2000,
			MinSpawnIntervalMs:       500,
			DifficultyIncreaseRate:   0.9,
			DifficultyScoreThreshold: 30,
			Normal: EnemyTypeConfig{
				Probability: 0.45,
				HP:          1,
				Color:       "#FF0000",
				Glyph:       "敵",
				FontSize:    48,
			},
			Flying: EnemyTypeConfig{
				Probability:   0.15,
				HP:            1,
				Color:         "#FFFF00",
				Glyph:         "飛",
				FontSize:      48,
				Speed:         5,
				WaveAmplitude: 30,
				WaveFrequency: 0.1,
			},
			Durable: EnemyTypeConfig{
				Probability: 0.2,
				HP:          3,
				Color:       "#800080",
				Glyphs:      []string{"小", "中", "大"},
				FontSizes:   []int{28, 40, 64},
			},
			Shooter: EnemyTypeConfig{
				Probability:     0.2,
				HP:              1,
				Color:           "#FFA500",
				Glyph:           "攻",
				FontSize:        48,
				ShootIntervalMs: 2000,
			},
		},
		Stars: StarsConfig{
			Count:      30,
			MinSpeed:   1,
			MaxSpeed:   3,
			Size:       16,
			WrapMargin: 10,
			Color:      "#666666",
			Glyph:      "星",
			FontSize:   16,
		},
		Explosions: ExplosionConfig{
			DurationSeconds: 0.1,
			Size:            32,
			Color:           "#FFA500",
			Glyph:           "爆",
			FontSize:        32,
		},
		Score: ScoreConfig{PointsPerEnemy: 10},
	}
}

// Load reads a YAML tuning file on top of Default and validates the result.
// An empty path returns the validated defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, cfg.Validate()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read game config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse game config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every contract violation in the config. The returned
// error matches ErrInvalidConfig with errors.Is.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
		}
	}

	check(c.Screen.Width > 0 && c.Screen.Height > 0, "screen must be positive, got %vx%v", c.Screen.Width, c.Screen.Height)
	check(c.Player.Width > 0 && c.Player.Height > 0, "player size must be positive")
	check(c.Player.Height <= c.Screen.Height, "player taller than screen")
	check(c.Player.Speed >= 0, "player speed must not be negative")
	check(c.Bullets.Speed > 0, "bullet speed must be positive")
	check(c.EnemyBullets.Speed > 0, "enemy bullet speed must be positive")
	check(c.Enemies.Speed >= 0, "enemy speed must not be negative")
	check(c.Enemies.Width > 0 && c.Enemies.Height > 0, "enemy size must be positive")
	check(c.Enemies.Height <= c.Screen.Height, "enemy taller than screen")

	check(c.Enemies.SpawnIntervalMs > 0, "spawn interval must be positive")
	check(c.Enemies.MinSpawnIntervalMs > 0, "min spawn interval must be positive")
	check(c.Enemies.MinSpawnIntervalMs <= c.Enemies.SpawnIntervalMs,
		"min spawn interval %v exceeds base %v", c.Enemies.MinSpawnIntervalMs, c.Enemies.SpawnIntervalMs)
	check(c.Enemies.DifficultyIncreaseRate > 0 && c.Enemies.DifficultyIncreaseRate <= 1,
		"difficulty rate must be in (0,1], got %v", c.Enemies.DifficultyIncreaseRate)
	check(c.Enemies.DifficultyScoreThreshold > 0, "difficulty threshold must be positive")

	types := map[string]EnemyTypeConfig{
		"normal":  c.Enemies.Normal,
		"flying":  c.Enemies.Flying,
		"durable": c.Enemies.Durable,
		"shooter": c.Enemies.Shooter,
	}
	for name, t := range types {
		check(t.Probability >= 0 && t.Probability <= 1, "%s probability must be in [0,1]", name)
		check(t.HP >= 1, "%s hp must be at least 1", name)
	}
	sum := c.Enemies.Flying.Probability + c.Enemies.Durable.Probability + c.Enemies.Shooter.Probability
	check(sum <= 1, "flying+durable+shooter probability %v exceeds 1", sum)

	durable := c.Enemies.Durable
	check(len(durable.Glyphs) >= durable.HP, "durable needs one glyph per hp, got %d for hp %d", len(durable.Glyphs), durable.HP)
	check(len(durable.FontSizes) >= durable.HP, "durable needs one font size per hp")
	check(c.Enemies.Shooter.ShootIntervalMs > 0, "shooter interval must be positive")

	check(c.Stars.Count >= 0, "star count must not be negative")
	check(c.Stars.MinSpeed <= c.Stars.MaxSpeed, "star speed range is inverted")
	check(c.Explosions.DurationSeconds > 0, "explosion duration must be positive")
	check(c.Score.PointsPerEnemy >= 0, "points per enemy must not be negative")

	return errors.Join(errs...)
}
