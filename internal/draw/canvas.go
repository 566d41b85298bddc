// Package draw renders glyph sprites to ANSI terminals.
package draw

import (
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
)

// cell is one terminal column. A double-width glyph occupies its lead cell
// and a continuation cell to the right.
type cell struct {
	glyph string
	color string
	cont  bool
}

// Canvas is a terminal-sized glyph buffer. Sprites are placed in logical
// coordinates and scaled to terminal cells. Render only writes cells that
// changed since the previous Render.
type Canvas struct {
	termWidth  int // Actual terminal columns
	termHeight int // Actual terminal rows
	cells      []cell
	prev       []cell
	redraw     bool

	// Scaling from logical to cell coordinates
	logicalWidth  float64
	logicalHeight float64
	scaleX        float64 // termWidth / logicalWidth
	scaleY        float64 // termHeight / logicalHeight

	// Offset for centering the render area when terminal is larger than max resolution.
	// These are 0-based terminal offsets (columns/rows to skip).
	offsetCol int
	offsetRow int

	styles    *Styles
	renderBuf strings.Builder
	numBuf    [20]byte
}

// NewScaledCanvas creates a canvas that scales from logical coordinates to terminal cells.
func NewScaledCanvas(termWidth, termHeight int, logicalWidth, logicalHeight float64, styles *Styles) *Canvas {
	c := &Canvas{
		logicalWidth:  logicalWidth,
		logicalHeight: logicalHeight,
		styles:        styles,
	}
	c.Resize(termWidth, termHeight)
	return c
}

// Resize updates the canvas for new terminal dimensions while keeping logical size.
// A size change forces a full redraw.
func (c *Canvas) Resize(termWidth, termHeight int) {
	termWidth = max(termWidth, 0)
	termHeight = max(termHeight, 0)
	if termWidth != c.termWidth || termHeight != c.termHeight || c.cells == nil {
		c.cells = make([]cell, termWidth*termHeight)
		c.prev = make([]cell, termWidth*termHeight)
		c.termWidth = termWidth
		c.termHeight = termHeight
		c.redraw = true
	}
	c.scaleX = float64(termWidth) / c.logicalWidth
	c.scaleY = float64(termHeight) / c.logicalHeight
}

// SetOffset sets the column and row offset for centering the canvas.
func (c *Canvas) SetOffset(col, row int) {
	if col != c.offsetCol || row != c.offsetRow {
		c.redraw = true
	}
	c.offsetCol = col
	c.offsetRow = row
}

// OffsetCol returns the column offset used for centering.
func (c *Canvas) OffsetCol() int { return c.offsetCol }

// OffsetRow returns the row offset used for centering.
func (c *Canvas) OffsetRow() int { return c.offsetRow }

// TerminalWidth returns the canvas column count.
func (c *Canvas) TerminalWidth() int { return c.termWidth }

// TerminalHeight returns the canvas row count.
func (c *Canvas) TerminalHeight() int { return c.termHeight }

// Clear empties the buffer for a new frame.
func (c *Canvas) Clear() {
	clear(c.cells)
}

// ForceRedraw makes the next Render write every cell, e.g. after the
// terminal was cleared.
func (c *Canvas) ForceRedraw() {
	c.redraw = true
}

// MarkTextDirty records that overlay text covered canvas cells, so the next
// Render repaints them. col and row are 1-based canvas coordinates.
func (c *Canvas) MarkTextDirty(col, row, width int) {
	row--
	col--
	if row < 0 || row >= c.termHeight {
		return
	}
	for x := max(col, 0); x < min(col+width, c.termWidth); x++ {
		c.prev[row*c.termWidth+x] = cell{glyph: dirtyGlyph}
	}
}

// dirtyGlyph never matches a drawn cell.
const dirtyGlyph = "\x00"

// LogicalToTerminal converts logical coordinates to 0-based canvas cell (col, row).
func (c *Canvas) LogicalToTerminal(x, y float64) (col, row int) {
	return int(math.Floor(x * c.scaleX)), int(math.Floor(y * c.scaleY))
}

// Put draws the first rune of glyph centred on logical point (cx, cy).
// Glyphs falling outside the canvas are dropped.
func (c *Canvas) Put(cx, cy float64, glyph, color string) {
	if glyph == "" {
		return
	}
	r := []rune(glyph)[0]
	g := string(r)
	w := runewidth.RuneWidth(r)
	if w < 1 {
		return
	}

	col, row := c.LogicalToTerminal(cx, cy)
	col -= w / 2
	if row < 0 || row >= c.termHeight || col < 0 || col+w > c.termWidth {
		return
	}

	c.unlink(row, col)
	if w == 2 {
		c.unlink(row, col+1)
	}
	c.cells[row*c.termWidth+col] = cell{glyph: g, color: color}
	if w == 2 {
		c.cells[row*c.termWidth+col+1] = cell{cont: true}
	}
}

// unlink clears the other half of any double-width glyph touching (row, col).
func (c *Canvas) unlink(row, col int) {
	i := row*c.termWidth + col
	switch {
	case c.cells[i].cont && col > 0:
		c.cells[i-1] = cell{}
	case c.cells[i].glyph != "" && runewidth.StringWidth(c.cells[i].glyph) == 2 && col+1 < c.termWidth:
		c.cells[i+1] = cell{}
	}
}

// Render writes changed cells to w in a single write. Pass a ChunkWriter to
// split the frame for the network.
func (c *Canvas) Render(w io.Writer) {
	c.renderBuf.Reset()

	for row := 0; row < c.termHeight; row++ {
		for col := 0; col < c.termWidth; col++ {
			i := row*c.termWidth + col
			cur := c.cells[i]
			if !c.redraw && cur == c.prev[i] {
				continue
			}
			if cur.cont {
				continue // Written together with its lead cell
			}

			c.moveCursor(col+1+c.offsetCol, row+1+c.offsetRow)
			if cur.glyph == "" {
				c.renderBuf.WriteByte(' ')
				continue
			}
			c.renderBuf.WriteString(c.styles.Glyph(cur.color, cur.glyph))
		}
	}

	copy(c.prev, c.cells)
	c.redraw = false

	io.WriteString(w, c.renderBuf.String())
}

func (c *Canvas) moveCursor(col, row int) {
	c.renderBuf.WriteString("\033[")
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(row), 10))
	c.renderBuf.WriteByte(';')
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(col), 10))
	c.renderBuf.WriteByte('H')
}

// RenderBorder draws a box border around the canvas area when the terminal
// exceeds the max render resolution on either axis.
func (c *Canvas) RenderBorder(w io.Writer) {
	hasH := c.offsetCol >= 1 // Room for left/right vertical bars
	hasV := c.offsetRow >= 1 // Room for top/bottom horizontal bars
	if !hasH && !hasV {
		return
	}

	// Border positions (1-based terminal coordinates)
	left := c.offsetCol
	right := c.offsetCol + c.termWidth + 1
	top := c.offsetRow
	bottom := c.offsetRow + c.termHeight + 1
	st := c.styles.Border
	line := strings.Repeat("─", c.termWidth)

	var buf strings.Builder
	if hasV {
		if hasH {
			buf.WriteString(cursorTo(left, top) + st("┌"+line+"┐"))
			buf.WriteString(cursorTo(left, bottom) + st("└"+line+"┘"))
		} else {
			buf.WriteString(cursorTo(c.offsetCol+1, top) + st(line))
			buf.WriteString(cursorTo(c.offsetCol+1, bottom) + st(line))
		}
	}
	if hasH {
		bar := st("│")
		for row := c.offsetRow + 1; row < c.offsetRow+c.termHeight+1; row++ {
			buf.WriteString(cursorTo(left, row) + bar + cursorTo(right, row) + bar)
		}
	}

	io.WriteString(w, buf.String())
}

func cursorTo(col, row int) string {
	return "\033[" + strconv.Itoa(row) + ";" + strconv.Itoa(col) + "H"
}
