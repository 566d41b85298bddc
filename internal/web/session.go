// Package web serves the game to browsers over a websocket. Each connection
// gets its own simulation; the browser sends key messages and draws the
// frames it receives on a canvas.
package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"golang.org/x/sync/errgroup"

	"github.com/tomz197/kanji-shooter/internal/input"
	"github.com/tomz197/kanji-shooter/internal/loop"
	"github.com/tomz197/kanji-shooter/internal/loop/config"
)

const writeTimeout = time.Second

var (
	// ErrUnknownMessage is returned for client messages with an unrecognised type.
	ErrUnknownMessage = errors.New("unknown client message")

	errStopped = errors.New("session stopped")
)

var _ loop.Renderer = (*Session)(nil)

// Message types
const (
	TypeHello   = "hello"
	TypeFrame   = "frame"
	TypeKey     = "key"
	TypeRestart = "restart"
)

// ClientMessage is sent by the browser. Key messages carry the action and
// whether the key went down or up; restart messages carry nothing else.
type ClientMessage struct {
	Type   string `json:"type"`
	Action string `json:"action,omitempty"`
	Down   bool   `json:"down,omitempty"`
}

// ServerMessage is sent to the browser.
type ServerMessage struct {
	Type    string     `json:"type"`
	Session string     `json:"session,omitempty"`
	View    *loop.View `json:"view,omitempty"`
}

var actions = map[string]input.Action{
	"up":    input.ActionUp,
	"down":  input.ActionDown,
	"shoot": input.ActionShoot,
}

// Session runs one game for one websocket connection.
type Session struct {
	id      string
	conn    *websocket.Conn
	game    *loop.Game
	keys    *input.State
	restart chan struct{}
	stop    chan struct{}
	once    sync.Once
	logger  *log.Logger

	ctx context.Context // Run context, used by Render
}

// SessionOptions configures a Session.
type SessionOptions struct {
	Config config.Config
	Seed   uint64
	Logger *log.Logger
}

// NewSession creates a session on an accepted connection.
func NewSession(id string, conn *websocket.Conn, opts SessionOptions) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	// Browsers report key releases, so keys stay held until released.
	keys := input.NewState(0)
	return &Session{
		id:      id,
		conn:    conn,
		game:    loop.NewGame(opts.Config, keys, loop.NewRand(opts.Seed)),
		keys:    keys,
		restart: make(chan struct{}, 1),
		stop:    make(chan struct{}),
		logger:  logger.With("session", id),
		ctx:     context.Background(),
	}
}

// ID returns the session id.
func (s *Session) ID() string {
	return s.id
}

// Game returns the simulation driven by this session.
func (s *Session) Game() *loop.Game {
	return s.game
}

// Stop ends Run. Safe to call more than once and from any goroutine.
func (s *Session) Stop() {
	s.once.Do(func() { close(s.stop) })
}

// Run streams frames and reads key messages until the browser disconnects,
// Stop is called or ctx is cancelled.
func (s *Session) Run(ctx context.Context) error {
	eg, ctx := errgroup.WithContext(ctx)
	s.ctx = ctx

	if err := s.send(ServerMessage{Type: TypeHello, Session: s.id}); err != nil {
		return fmt.Errorf("send hello: %w", err)
	}

	eg.Go(func() error {
		return s.readLoop(ctx)
	})
	eg.Go(func() error {
		return loop.Run(ctx, config.TargetFrameTime, s.frame)
	})
	eg.Go(func() error {
		select {
		case <-s.stop:
			return errStopped
		case <-ctx.Done():
			return nil
		}
	})

	err := eg.Wait()
	s.logger.Debug("session ended", "score", s.game.Score(), "err", err)
	if errors.Is(err, errStopped) || isClosed(err) {
		return nil
	}
	return err
}

func (s *Session) frame(now time.Time) error {
	select {
	case <-s.restart:
		if s.game.Restart() {
			s.logger.Debug("game restarted")
		}
	default:
	}
	return loop.Step(s.game, s, now)
}

// Render sends the frame to the browser.
func (s *Session) Render(v loop.View) error {
	return s.send(ServerMessage{Type: TypeFrame, View: &v})
}

func (s *Session) send(msg ServerMessage) error {
	ctx, cancel := context.WithTimeout(s.ctx, writeTimeout)
	defer cancel()
	return wsjson.Write(ctx, s.conn, msg)
}

func (s *Session) readLoop(ctx context.Context) error {
	for {
		var msg ClientMessage
		if err := wsjson.Read(ctx, s.conn, &msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read client message: %w", err)
		}
		if err := s.handleMessage(msg, time.Now()); err != nil {
			s.logger.Warn("dropping message", "type", msg.Type, "err", err)
		}
	}
}

// handleMessage applies one client message. Restarts are handed to the frame
// loop, which owns the game.
func (s *Session) handleMessage(msg ClientMessage, now time.Time) error {
	switch msg.Type {
	case TypeKey:
		a, ok := actions[msg.Action]
		if !ok {
			return fmt.Errorf("%w: action %q", ErrUnknownMessage, msg.Action)
		}
		if msg.Down {
			s.keys.Press(a, now)
		} else {
			s.keys.Release(a)
		}
	case TypeRestart:
		select {
		case s.restart <- struct{}{}:
		default:
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMessage, msg.Type)
	}
	return nil
}

func isClosed(err error) bool {
	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		return true
	}
	return false
}
