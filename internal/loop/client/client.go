// Package client runs one game in an ANSI terminal: it reads keys from a
// byte stream, advances the simulation and draws glyph frames.
package client

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"

	"github.com/tomz197/kanji-shooter/internal/draw"
	"github.com/tomz197/kanji-shooter/internal/input"
	"github.com/tomz197/kanji-shooter/internal/loop"
	"github.com/tomz197/kanji-shooter/internal/loop/config"
)

// errQuit ends the frame loop when the player quits.
var errQuit = errors.New("player quit")

// Client handles rendering and input for a single connection.
type Client struct {
	game         *loop.Game
	keys         *input.State
	inputStream  *input.Stream
	state        *ClientState
	canvas       *draw.Canvas
	styles       *draw.Styles
	chunkWriter  *draw.ChunkWriter // Accumulates frame output for chunked writes
	writer       io.Writer
	termSizeFunc draw.TermSizeFunc
	logger       *log.Logger
}

// ClientOptions configures the client.
type ClientOptions struct {
	TermSizeFunc draw.TermSizeFunc
	Profile      termenv.Profile
	Config       config.Config
	Seed         uint64
	Logger       *log.Logger
}

// NewClient creates a client reading keys from r and drawing to w.
func NewClient(r io.Reader, w io.Writer, opts ClientOptions) *Client {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	keys := input.NewState(config.KeyHoldWindow)
	styles := draw.NewStyles(w, opts.Profile)

	// Create canvas with clamped dimensions for max render resolution
	termWidth, termHeight, _ := termSizeFunc()
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)
	canvas := draw.NewScaledCanvas(renderWidth, renderHeight, opts.Config.Screen.Width, opts.Config.Screen.Height, styles)
	canvas.SetOffset(offsetCol, offsetRow)

	return &Client{
		game:         loop.NewGame(opts.Config, keys, loop.NewRand(opts.Seed)),
		keys:         keys,
		inputStream:  input.StartStream(r),
		state:        NewClientState(),
		canvas:       canvas,
		styles:       styles,
		chunkWriter:  draw.NewChunkWriter(w, offsetCol, offsetRow),
		writer:       w,
		termSizeFunc: termSizeFunc,
		logger:       logger,
	}
}

// Game returns the simulation driven by this client.
func (c *Client) Game() *loop.Game {
	return c.game
}

// Run starts the client loop. Blocks until the player quits, the input
// ends or ctx is cancelled.
func (c *Client) Run(ctx context.Context) error {
	defer c.inputStream.Close()

	draw.EnterAltScreen(c.writer)
	draw.HideCursor(c.writer)
	draw.ClearScreen(c.writer)
	defer func() {
		draw.ShowCursor(c.writer)
		draw.ExitAltScreen(c.writer)
	}()

	err := loop.Run(ctx, config.TargetFrameTime, c.frame)
	c.logger.Debug("client stopped", "score", c.game.Score(), "restarts", c.state.restarts, "err", err)
	if errors.Is(err, errQuit) || errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// frame runs one Input → Update → Draw cycle.
func (c *Client) frame(now time.Time) error {
	if err := c.processInput(now); err != nil {
		return err
	}
	c.updateScreen()
	c.game.Advance(now)
	return c.drawFrame()
}

// processInput drains pending keys into the key latch.
func (c *Client) processInput(now time.Time) error {
	keys, open := c.inputStream.Read()
	for _, k := range keys {
		if err := c.handleKey(k, now); err != nil {
			return err
		}
	}
	if !open {
		return io.EOF
	}
	return nil
}

func (c *Client) handleKey(k input.Key, now time.Time) error {
	switch k {
	case input.KeyQuit:
		return errQuit
	case input.KeyRestart:
		if c.game.Restart() {
			c.state.restarts++
			c.logger.Debug("game restarted", "restarts", c.state.restarts)
		}
	default:
		if a, ok := k.Action(); ok {
			c.keys.Press(a, now)
		}
	}
	return nil
}

// updateScreen handles terminal resize, clamping to max render resolution.
// On actual size changes, clears the terminal to remove residual glyphs
// outside the new canvas area (e.g. old borders or offset content).
func (c *Client) updateScreen() {
	termWidth, termHeight, err := c.termSizeFunc()
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)

	if renderWidth != c.canvas.TerminalWidth() || renderHeight != c.canvas.TerminalHeight() ||
		offsetCol != c.canvas.OffsetCol() || offsetRow != c.canvas.OffsetRow() {
		c.chunkWriter.WriteString("\033[H\033[2J")
		c.canvas.ForceRedraw()
	}

	c.canvas.Resize(renderWidth, renderHeight)
	c.canvas.SetOffset(offsetCol, offsetRow)
	c.chunkWriter.SetOffset(offsetCol, offsetRow)
}

// clampTermSize clamps terminal dimensions to the max render resolution and computes
// the centering offset for the render area.
func clampTermSize(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderWidth = min(termWidth, config.MaxTermWidth)
	renderHeight = min(termHeight, config.MaxTermHeight)
	offsetCol = (termWidth - renderWidth) / 2
	offsetRow = (termHeight - renderHeight) / 2
	return
}
