// Package screen drives a game on a tcell screen. It is the alternative to the
// raw ANSI client for local terminals where tcell handles terminfo and resizes.
package screen

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/tomz197/kanji-shooter/internal/input"
	"github.com/tomz197/kanji-shooter/internal/loop"
	"github.com/tomz197/kanji-shooter/internal/loop/config"
)

var errQuit = errors.New("player quit")

const restartHint = "Press R to restart · Q to quit"

var _ loop.Renderer = (*Screen)(nil)

// Screen renders frames through tcell and feeds its key events to the game.
type Screen struct {
	screen tcell.Screen
	game   *loop.Game
	keys   *input.State
	styles map[string]tcell.Style
	events chan tcell.Event
	done   chan struct{}
	logger *log.Logger
}

// Options configures a Screen.
type Options struct {
	Config config.Config
	Seed   uint64
	Logger *log.Logger
}

// New wraps an initialised tcell screen. The caller owns s and calls Fini
// after Run returns.
func New(s tcell.Screen, opts Options) *Screen {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	keys := input.NewState(config.KeyHoldWindow)
	return &Screen{
		screen: s,
		game:   loop.NewGame(opts.Config, keys, loop.NewRand(opts.Seed)),
		keys:   keys,
		styles: make(map[string]tcell.Style),
		events: make(chan tcell.Event, 64),
		done:   make(chan struct{}),
		logger: logger,
	}
}

// Game returns the simulation driven by this screen.
func (s *Screen) Game() *loop.Game {
	return s.game
}

// Run polls tcell events and renders frames until the player quits or ctx is
// cancelled.
func (s *Screen) Run(ctx context.Context) error {
	defer close(s.done)
	s.screen.HideCursor()
	go s.pollEvents()

	err := loop.Run(ctx, config.TargetFrameTime, s.frame)
	s.logger.Debug("screen stopped", "score", s.game.Score(), "err", err)
	if errors.Is(err, errQuit) {
		return nil
	}
	return err
}

// pollEvents forwards tcell events until the screen is finalised or Run returns.
func (s *Screen) pollEvents() {
	for {
		ev := s.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case s.events <- ev:
		case <-s.done:
			return
		}
	}
}

func (s *Screen) frame(now time.Time) error {
	for {
		select {
		case ev := <-s.events:
			if err := s.handleEvent(ev, now); err != nil {
				return err
			}
		default:
			return loop.Step(s.game, s, now)
		}
	}
}

func (s *Screen) handleEvent(ev tcell.Event, now time.Time) error {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		s.screen.Sync()
	case *tcell.EventKey:
		return s.handleKey(translateKey(ev), now)
	}
	return nil
}

func (s *Screen) handleKey(k input.Key, now time.Time) error {
	switch k {
	case input.KeyQuit:
		return errQuit
	case input.KeyRestart:
		if s.game.Restart() {
			s.logger.Debug("game restarted")
		}
	default:
		if a, ok := k.Action(); ok {
			s.keys.Press(a, now)
		}
	}
	return nil
}

// translateKey maps a tcell key event onto the shared key set.
func translateKey(ev *tcell.EventKey) input.Key {
	switch ev.Key() {
	case tcell.KeyUp:
		return input.KeyUp
	case tcell.KeyDown:
		return input.KeyDown
	case tcell.KeyEnter:
		return input.KeyRestart
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return input.KeyQuit
	case tcell.KeyRune:
		if keys := input.ParseKeys([]byte(string(ev.Rune()))); len(keys) > 0 {
			return keys[0]
		}
	}
	return input.KeyNone
}

// Render draws one frame. Sprites are centred on their logical bounds scaled
// to the current screen size.
func (s *Screen) Render(v loop.View) error {
	s.screen.Clear()
	cols, rows := s.screen.Size()
	if cols <= 0 || rows <= 0 || v.Screen.Width <= 0 || v.Screen.Height <= 0 {
		s.screen.Show()
		return nil
	}
	scaleX := float64(cols) / v.Screen.Width
	scaleY := float64(rows) / v.Screen.Height

	for _, sp := range v.Sprites {
		r, _ := utf8.DecodeRuneInString(sp.Glyph)
		if r == utf8.RuneError {
			continue
		}
		col := int((sp.X+sp.W/2)*scaleX) - runewidth.RuneWidth(r)/2
		row := int((sp.Y + sp.H/2) * scaleY)
		if col < 0 || row < 0 || col >= cols || row >= rows {
			continue
		}
		s.screen.SetContent(col, row, r, nil, s.style(sp.Color))
	}

	hud := tcell.StyleDefault.Bold(true)
	s.drawText(1, 0, fmt.Sprintf("SCORE: %d", v.Score), hud)
	if v.Phase == loop.PhaseGameOver {
		over := tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
		mid := rows / 2
		s.drawCentered(mid-1, "終", over)
		s.drawCentered(mid, fmt.Sprintf("SCORE: %d", v.Score), hud)
		s.drawCentered(mid+1, restartHint, tcell.StyleDefault)
	}

	s.screen.Show()
	return nil
}

// style caches one tcell style per hex colour.
func (s *Screen) style(color string) tcell.Style {
	if st, ok := s.styles[color]; ok {
		return st
	}
	st := tcell.StyleDefault.Foreground(tcell.GetColor(color))
	s.styles[color] = st
	return st
}

func (s *Screen) drawText(col, row int, text string, st tcell.Style) {
	for _, r := range text {
		s.screen.SetContent(col, row, r, nil, st)
		col += runewidth.RuneWidth(r)
	}
}

func (s *Screen) drawCentered(row int, text string, st tcell.Style) {
	cols, _ := s.screen.Size()
	s.drawText((cols-runewidth.StringWidth(text))/2, row, text, st)
}
