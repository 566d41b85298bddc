package object

import (
	"math/rand/v2"

	"github.com/tomz197/kanji-shooter/internal/loop/config"
)

// Star is a background glyph scrolling left at its own speed. Stars never die;
// they wrap back to the right edge at a new random height.
type Star struct {
	Entity
	Speed float64

	cfg config.StarsConfig
}

// NewStar creates a star at (x, y).
func NewStar(x, y, speed float64, cfg config.StarsConfig) *Star {
	return &Star{
		Entity: Entity{X: x, Y: y, W: cfg.Size, H: cfg.Size},
		Speed:  speed,
		cfg:    cfg,
	}
}

// NewStarField scatters cfg.Stars.Count stars across the screen.
func NewStarField(cfg config.Config, r *rand.Rand) []*Star {
	stars := make([]*Star, 0, cfg.Stars.Count)
	for range cfg.Stars.Count {
		x := r.Float64() * cfg.Screen.Width
		y := r.Float64() * cfg.Screen.Height
		speed := cfg.Stars.MinSpeed + r.Float64()*(cfg.Stars.MaxSpeed-cfg.Stars.MinSpeed)
		stars = append(stars, NewStar(x, y, speed, cfg.Stars))
	}
	return stars
}

// Update scrolls the star and wraps it past the left margin.
func (s *Star) Update(ctx UpdateContext) {
	s.X -= s.Speed
	if s.X < -s.cfg.WrapMargin {
		s.X = ctx.Screen.Width + s.cfg.WrapMargin
		s.Y = ctx.Rand.Float64() * ctx.Screen.Height
	}
}

// Appearance returns how the star is drawn.
func (s *Star) Appearance() Appearance {
	return Appearance{Glyph: s.cfg.Glyph, Color: s.cfg.Color, Size: s.cfg.FontSize}
}
