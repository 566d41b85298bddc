package draw

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// maxChunkSize caps a single write to the terminal. It stays under a typical
// 1500-byte MTU so an SSH frame is not split across packets.
const maxChunkSize = 1400

// ChunkWriter collects one frame of terminal output and sends it with Flush,
// at most maxChunkSize bytes per write. Cursor positions are 1-based canvas
// coordinates shifted by the canvas offset.
type ChunkWriter struct {
	out    io.Writer
	frame  bytes.Buffer
	num    [20]byte
	offCol int
	offRow int
}

var _ io.Writer = (*ChunkWriter)(nil)

// NewChunkWriter creates a ChunkWriter sending to w.
func NewChunkWriter(w io.Writer, offsetCol, offsetRow int) *ChunkWriter {
	return &ChunkWriter{out: w, offCol: offsetCol, offRow: offsetRow}
}

// SetOffset moves the canvas origin, e.g. after a resize.
func (cw *ChunkWriter) SetOffset(offsetCol, offsetRow int) {
	cw.offCol, cw.offRow = offsetCol, offsetRow
}

// MoveCursor queues a cursor move to a canvas position.
func (cw *ChunkWriter) MoveCursor(col, row int) {
	cw.frame.WriteString("\033[")
	cw.frame.Write(strconv.AppendInt(cw.num[:0], int64(row+cw.offRow), 10))
	cw.frame.WriteByte(';')
	cw.frame.Write(strconv.AppendInt(cw.num[:0], int64(col+cw.offCol), 10))
	cw.frame.WriteByte('H')
}

// Write queues raw bytes. Canvas.Render writes through it.
func (cw *ChunkWriter) Write(p []byte) (int, error) {
	return cw.frame.Write(p)
}

// WriteString queues raw text.
func (cw *ChunkWriter) WriteString(s string) {
	cw.frame.WriteString(s)
}

// WriteAt queues text at a canvas position.
func (cw *ChunkWriter) WriteAt(col, row int, s string) {
	cw.MoveCursor(col, row)
	cw.frame.WriteString(s)
}

// WriteBlock queues a multi-line block centred on a canvas position.
func (cw *ChunkWriter) WriteBlock(centerCol, centerRow int, block string) {
	lines := strings.Split(block, "\n")
	top := centerRow - len(lines)/2
	for i, line := range lines {
		col := centerCol - lipgloss.Width(line)/2
		cw.WriteAt(max(col, 1), max(top+i, 1), line)
	}
}

// Flush sends the queued frame and empties the queue. The queue is dropped
// even when a write fails.
func (cw *ChunkWriter) Flush() error {
	defer cw.frame.Reset()
	for cw.frame.Len() > 0 {
		if _, err := cw.out.Write(cw.frame.Next(maxChunkSize)); err != nil {
			return fmt.Errorf("write frame: %w", err)
		}
	}
	return nil
}

// TermSizeFunc reports the terminal size in cells.
type TermSizeFunc func() (width, height int, err error)

// DefaultTermSizeFunc reads the size of the local terminal.
var DefaultTermSizeFunc TermSizeFunc = func() (int, int, error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// Escape sequences written outside of frames.
const (
	seqClear        = "\033[H\033[2J"
	seqHideCursor   = "\033[?25l"
	seqShowCursor   = "\033[?25h"
	seqEnterAltScrn = "\033[?1049h"
	seqExitAltScrn  = "\033[?1049l"
)

// ClearScreen clears the terminal and homes the cursor.
func ClearScreen(w io.Writer) { io.WriteString(w, seqClear) }

// HideCursor hides the terminal cursor.
func HideCursor(w io.Writer) { io.WriteString(w, seqHideCursor) }

// ShowCursor shows the terminal cursor.
func ShowCursor(w io.Writer) { io.WriteString(w, seqShowCursor) }

// EnterAltScreen switches to the alternate screen buffer.
func EnterAltScreen(w io.Writer) { io.WriteString(w, seqEnterAltScrn) }

// ExitAltScreen restores the main screen buffer.
func ExitAltScreen(w io.Writer) { io.WriteString(w, seqExitAltScrn) }
