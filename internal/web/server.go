package web

import (
	"io"
	"math/rand/v2"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/tomz197/kanji-shooter/internal/loop/config"
)

// ServerOptions configures a Server.
type ServerOptions struct {
	Config config.Config
	// Seed returns the seed for a new session. Nil draws a random one.
	Seed func() uint64
	// OriginPatterns lists extra origins allowed to connect.
	OriginPatterns []string
	Logger         *log.Logger
}

// Server accepts websocket connections and runs one Session per connection.
type Server struct {
	opts   ServerOptions
	logger *log.Logger

	mu       sync.Mutex
	sessions map[string]*Session
	closing  bool
	wg       sync.WaitGroup
}

// NewServer creates a websocket game server.
func NewServer(opts ServerOptions) *Server {
	if opts.Seed == nil {
		opts.Seed = rand.Uint64
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Server{
		opts:     opts,
		logger:   logger,
		sessions: make(map[string]*Session),
	}
}

// ServeHTTP upgrades the request and plays until the connection ends.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !s.begin() {
		http.Error(w, "server shutting down", http.StatusServiceUnavailable)
		return
	}
	defer s.wg.Done()

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: s.opts.OriginPatterns,
	})
	if err != nil {
		s.logger.Error("failed to accept", "remote", r.RemoteAddr, "err", err)
		return
	}
	defer conn.CloseNow()

	sess := NewSession(uuid.NewString(), conn, SessionOptions{
		Config: s.opts.Config,
		Seed:   s.opts.Seed(),
		Logger: s.logger,
	})
	s.add(sess)
	defer s.remove(sess)

	s.logger.Info("session started", "session", sess.ID(), "remote", r.RemoteAddr)
	if err := sess.Run(r.Context()); err != nil {
		s.logger.Warn("session failed", "session", sess.ID(), "err", err)
	}
	conn.Close(websocket.StatusNormalClosure, "")
	s.logger.Info("session ended", "session", sess.ID(), "score", sess.Game().Score())
}

// Active returns the number of running sessions.
func (s *Server) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Shutdown refuses new connections, stops every running session and waits
// for all handlers to return.
func (s *Server) Shutdown() {
	s.mu.Lock()
	s.closing = true
	for _, sess := range s.sessions {
		sess.Stop()
	}
	s.mu.Unlock()
	s.wg.Wait()
}

// begin counts a handler in, unless the server is shutting down.
func (s *Server) begin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closing {
		return false
	}
	s.wg.Add(1)
	return true
}

// add registers a session. A session accepted while Shutdown runs is
// stopped straight away.
func (s *Server) add(sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closing {
		sess.Stop()
	}
	s.sessions[sess.ID()] = sess
}

func (s *Server) remove(sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sess.ID())
}
