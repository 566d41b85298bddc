package web

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/tomz197/kanji-shooter/internal/input"
	"github.com/tomz197/kanji-shooter/internal/loop/config"
)

var epoch = time.Unix(1_700_000_000, 0)

// frameMessage mirrors ServerMessage with plain strings for decoding.
type frameMessage struct {
	Type    string `json:"type"`
	Session string `json:"session"`
	View    struct {
		Score   int    `json:"score"`
		Phase   string `json:"phase"`
		Sprites []struct {
			Kind  string `json:"kind"`
			Glyph string `json:"glyph"`
			Color string `json:"color"`
		} `json:"sprites"`
	} `json:"view"`
}

func (m frameMessage) has(kind, glyph string) bool {
	for _, sp := range m.View.Sprites {
		if sp.Kind == kind && (glyph == "" || sp.Glyph == glyph) {
			return true
		}
	}
	return false
}

func TestHandleMessage(t *testing.T) {
	tests := []struct {
		name    string
		msgs    []ClientMessage
		wantUp  bool
		wantErr error
	}{
		{"key down holds", []ClientMessage{{Type: TypeKey, Action: "up", Down: true}}, true, nil},
		{"key up releases", []ClientMessage{
			{Type: TypeKey, Action: "up", Down: true},
			{Type: TypeKey, Action: "up"},
		}, false, nil},
		{"unknown action", []ClientMessage{{Type: TypeKey, Action: "left", Down: true}}, false, ErrUnknownMessage},
		{"unknown type", []ClientMessage{{Type: "pause"}}, false, ErrUnknownMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSession("test", nil, SessionOptions{Config: config.Default()})
			var err error
			for _, m := range tt.msgs {
				err = s.handleMessage(m, epoch)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected error %v, got %v", tt.wantErr, err)
			}
			if got := s.keys.Held(input.ActionUp, epoch); got != tt.wantUp {
				t.Errorf("expected up held %v, got %v", tt.wantUp, got)
			}
		})
	}
}

func TestRestartMessageQueuesOnce(t *testing.T) {
	s := NewSession("test", nil, SessionOptions{Config: config.Default()})

	for range 3 {
		if err := s.handleMessage(ClientMessage{Type: TypeRestart}, epoch); err != nil {
			t.Fatalf("restart: %v", err)
		}
	}
	if len(s.restart) != 1 {
		t.Errorf("expected one pending restart, got %d", len(s.restart))
	}
}

func TestStopIsIdempotent(t *testing.T) {
	s := NewSession("test", nil, SessionOptions{Config: config.Default()})
	s.Stop()
	s.Stop()

	select {
	case <-s.stop:
	default:
		t.Error("expected stop channel closed")
	}
}

func dial(t *testing.T, ctx context.Context, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(url, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	conn.SetReadLimit(1 << 20)
	t.Cleanup(func() { conn.CloseNow() })
	return conn
}

func readUntil(t *testing.T, ctx context.Context, conn *websocket.Conn, match func(frameMessage) bool) frameMessage {
	t.Helper()
	for {
		var msg frameMessage
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			t.Fatalf("read: %v", err)
		}
		if match(msg) {
			return msg
		}
	}
}

func TestServerStreamsFrames(t *testing.T) {
	srv := NewServer(ServerOptions{
		Config: config.Default(),
		Seed:   func() uint64 { return 1 },
	})
	ts := httptest.NewServer(srv)
	defer ts.Close()
	defer srv.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn := dial(t, ctx, ts.URL)

	hello := readUntil(t, ctx, conn, func(m frameMessage) bool { return m.Type == TypeHello })
	if hello.Session == "" {
		t.Error("expected session id in hello")
	}
	if srv.Active() != 1 {
		t.Errorf("expected 1 active session, got %d", srv.Active())
	}

	first := readUntil(t, ctx, conn, func(m frameMessage) bool { return m.Type == TypeFrame })
	if !first.has("player", "味") {
		t.Error("expected player sprite in frame")
	}
	if first.View.Phase != "active" || first.View.Score != 0 {
		t.Errorf("expected active frame at score 0, got %s/%d", first.View.Phase, first.View.Score)
	}

	if err := wsjson.Write(ctx, conn, ClientMessage{Type: TypeKey, Action: "shoot", Down: true}); err != nil {
		t.Fatalf("write key: %v", err)
	}
	readUntil(t, ctx, conn, func(m frameMessage) bool { return m.has("bullet", "弾") })

	conn.Close(websocket.StatusNormalClosure, "")
}

func TestServerShutdownEndsSessions(t *testing.T) {
	srv := NewServer(ServerOptions{Config: config.Default()})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn := dial(t, ctx, ts.URL)
	readUntil(t, ctx, conn, func(m frameMessage) bool { return m.Type == TypeHello })

	closed := make(chan error, 1)
	go func() {
		for {
			var msg frameMessage
			if err := wsjson.Read(ctx, conn, &msg); err != nil {
				closed <- err
				return
			}
		}
	}()

	srv.Shutdown()
	if srv.Active() != 0 {
		t.Errorf("expected no active sessions, got %d", srv.Active())
	}
	<-closed
	if ctx.Err() != nil {
		t.Error("expected connection closed before timeout")
	}
}

func TestServerRefusesAfterShutdown(t *testing.T) {
	srv := NewServer(ServerOptions{Config: config.Default()})
	ts := httptest.NewServer(srv)
	defer ts.Close()
	srv.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn, resp, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(ts.URL, "http"), nil)
	if err == nil {
		conn.CloseNow()
		t.Fatal("expected dial refused after shutdown")
	}
	if resp == nil || resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("expected 503 response, got %v", resp)
	}
	if srv.begin() {
		t.Error("expected no handler admitted after shutdown")
	}
}

func TestSessionAcceptedDuringShutdownIsStopped(t *testing.T) {
	srv := NewServer(ServerOptions{Config: config.Default()})
	srv.Shutdown()

	sess := NewSession("late", nil, SessionOptions{Config: config.Default()})
	srv.add(sess)
	defer srv.remove(sess)

	select {
	case <-sess.stop:
	default:
		t.Error("expected late session stopped")
	}
}
