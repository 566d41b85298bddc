package client

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/tomz197/kanji-shooter/internal/loop"
)

// drawFrame draws the current frame.
func (c *Client) drawFrame() error {
	view := c.game.View()

	// On phase transitions, do a full terminal clear so the game over
	// panel does not persist into the next game.
	if !c.state.drawn || view.Phase != c.state.prevPhase {
		c.chunkWriter.WriteString("\033[H\033[2J")
		c.canvas.ForceRedraw()
		c.state.prevPhase = view.Phase
		c.state.drawn = true
	}

	c.canvas.Clear()
	for _, s := range view.Sprites {
		c.canvas.Put(s.X+s.W/2, s.Y+s.H/2, s.Glyph, s.Color)
	}

	// Canvas output goes through the chunk writer so the frame is flushed at once
	c.canvas.Render(c.chunkWriter)
	c.canvas.RenderBorder(c.chunkWriter)

	c.drawUI(view)

	return c.chunkWriter.Flush()
}

// drawUI draws the score and, once the game is over, the end panel.
func (c *Client) drawUI(view loop.View) {
	hud := c.styles.HUD(view.Score)
	c.chunkWriter.WriteAt(2, 1, hud)
	c.canvas.MarkTextDirty(2, 1, lipgloss.Width(hud))

	if view.Phase != loop.PhaseGameOver {
		return
	}

	box := c.styles.GameOverBox(view.Score)
	centerX := c.canvas.TerminalWidth() / 2
	centerY := c.canvas.TerminalHeight() / 2
	c.chunkWriter.WriteBlock(centerX, centerY, box)
}
