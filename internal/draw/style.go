package draw

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Styles renders coloured glyphs and overlay boxes for one output.
// Each session gets its own, since colour support depends on the client terminal.
type Styles struct {
	r      *lipgloss.Renderer
	glyphs map[string]lipgloss.Style

	border lipgloss.Style
	hud    lipgloss.Style
	box    lipgloss.Style
	title  lipgloss.Style
	hint   lipgloss.Style
}

// NewStyles creates styles for w using an explicit colour profile.
func NewStyles(w io.Writer, profile termenv.Profile) *Styles {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(profile)
	r.SetHasDarkBackground(true)

	return &Styles{
		r:      r,
		glyphs: make(map[string]lipgloss.Style),
		border: r.NewStyle().Foreground(lipgloss.Color("#444466")),
		hud:    r.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Bold(true),
		box: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#FF0000")).
			Padding(1, 4).
			Align(lipgloss.Center),
		title: r.NewStyle().Foreground(lipgloss.Color("#FF0000")).Bold(true),
		hint:  r.NewStyle().Foreground(lipgloss.Color("#888888")),
	}
}

// ColorProfile picks a colour profile from a client's TERM and COLORTERM values.
func ColorProfile(term, colorTerm string) termenv.Profile {
	colorTerm = strings.ToLower(colorTerm)
	switch {
	case colorTerm == "truecolor" || colorTerm == "24bit":
		return termenv.TrueColor
	case term == "" || term == "dumb":
		return termenv.Ascii
	case strings.Contains(term, "256color"), strings.Contains(term, "kitty"), strings.Contains(term, "alacritty"):
		return termenv.ANSI256
	default:
		return termenv.ANSI
	}
}

// Glyph renders glyph in a #RRGGBB colour.
func (s *Styles) Glyph(color, glyph string) string {
	if color == "" {
		return glyph
	}
	st, ok := s.glyphs[color]
	if !ok {
		st = s.r.NewStyle().Foreground(lipgloss.Color(color))
		s.glyphs[color] = st
	}
	return st.Render(glyph)
}

// Border renders border line art.
func (s *Styles) Border(text string) string {
	return s.border.Render(text)
}

// HUD renders the score line.
func (s *Styles) HUD(score int) string {
	return s.hud.Render(fmt.Sprintf("SCORE: %-8d", score))
}

// GameOverBox renders the end-of-game panel.
func (s *Styles) GameOverBox(score int) string {
	return s.box.Render(lipgloss.JoinVertical(lipgloss.Center,
		s.title.Render("終"),
		"",
		fmt.Sprintf("SCORE: %d", score),
		"",
		s.hint.Render("Press R to restart · Q to quit"),
	))
}
