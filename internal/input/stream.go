package input

import (
	"bufio"
	"io"
	"sync"
)

// Key is a decoded terminal key.
type Key int

const (
	KeyNone Key = iota
	KeyUp
	KeyDown
	KeyShoot
	KeyRestart
	KeyQuit
)

// Action maps a key to the game control it drives, if any.
func (k Key) Action() (Action, bool) {
	switch k {
	case KeyUp:
		return ActionUp, true
	case KeyDown:
		return ActionDown, true
	case KeyShoot:
		return ActionShoot, true
	}
	return 0, false
}

// Stream delivers input bytes from a terminal via a channel.
type Stream struct {
	ch        chan byte
	done      chan struct{}
	closeOnce sync.Once
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
// The goroutine ends when r returns an error or the stream is closed and the
// next byte arrives.
func StartStream(r io.Reader) *Stream {
	s := &Stream{
		ch:   make(chan byte, 128),
		done: make(chan struct{}),
	}
	br := bufio.NewReader(r)
	go func() {
		defer close(s.ch)
		for {
			b, err := br.ReadByte()
			if err != nil {
				return
			}
			select {
			case s.ch <- b:
			case <-s.done:
				return
			}
		}
	}()
	return s
}

// Close detaches the stream from its reader. Safe to call more than once.
func (s *Stream) Close() {
	s.closeOnce.Do(func() { close(s.done) })
}

// Read drains all available bytes (non-blocking) and decodes them into keys.
// The second result is false once the underlying reader has ended.
func (s *Stream) Read() ([]Key, bool) {
	var buf []byte
	open := true

drain:
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				open = false
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	return ParseKeys(buf), open
}

// ParseKeys decodes raw terminal bytes. Arrow keys arrive as CSI sequences.
func ParseKeys(buf []byte) []Key {
	var keys []Key
	for i := 0; i < len(buf); i++ {
		b := buf[i]

		if b == '\x1b' && i+2 < len(buf) && buf[i+1] == '[' {
			switch buf[i+2] {
			case 'A':
				keys = append(keys, KeyUp)
				i += 2
				continue
			case 'B':
				keys = append(keys, KeyDown)
				i += 2
				continue
			case 'C', 'D': // Left/right are unused
				i += 2
				continue
			}
		}

		if k := byteKey(b); k != KeyNone {
			keys = append(keys, k)
		}
	}
	return keys
}

func byteKey(b byte) Key {
	switch b {
	case 'q', 'Q', '\x03':
		return KeyQuit
	case 'w', 'W', 'k', 'K':
		return KeyUp
	case 's', 'S', 'j', 'J':
		return KeyDown
	case ' ':
		return KeyShoot
	case 'r', 'R', '\n', '\r':
		return KeyRestart
	}
	return KeyNone
}
