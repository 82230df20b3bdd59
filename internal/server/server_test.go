package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"testing/fstest"
	"time"

	"github.com/gorilla/websocket"

	"github.com/soar/exilepad/internal/hub"
	"github.com/soar/exilepad/internal/orchestrator"
)

type fakePauser struct {
	paused atomic.Bool
	calls  atomic.Int32
}

func (p *fakePauser) SetPaused(v bool) {
	p.paused.Store(v)
	p.calls.Add(1)
}

type testServer struct {
	ts      *httptest.Server
	changes chan orchestrator.Status
	pauser  *fakePauser
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	logger := slog.New(slog.DiscardHandler)
	changes := make(chan orchestrator.Status, 8)
	h := hub.NewHub(logger)
	go h.Run(ctx)
	b := hub.NewBroadcaster(h, changes, logger)
	go b.Run(ctx)

	frontend := fstest.MapFS{
		"index.html": {Data: []byte("<!doctype html>\n<html>\n  <!-- status page -->\n  <body>\n    <p id=\"state\">waiting</p>\n  </body>\n</html>\n")},
	}
	pauser := &fakePauser{}
	srv := New(h, b, pauser, frontend, "", logger)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	return &testServer{ts: ts, changes: changes, pauser: pauser}
}

func (s *testServer) dial(t *testing.T) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(s.ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readUntil returns the first message of the given type.
func readUntil(t *testing.T, conn *websocket.Conn, typ string) hub.WSMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		var msg hub.WSMessage
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("waiting for %q message: %v", typ, err)
		}
		if msg.Type == typ {
			return msg
		}
	}
}

func TestServer_WebSocketFeed(t *testing.T) {
	s := newTestServer(t)
	conn := s.dial(t)

	full := readUntil(t, conn, "full")
	if full.Data == nil || full.Data.Session.Connected {
		t.Fatalf("expected an empty initial status, got %+v", full.Data)
	}

	s.changes <- orchestrator.Status{
		Session: orchestrator.Session{Connected: true, ControllerType: "xbox"},
		Motion:  orchestrator.Motion{Walking: true, WalkAngle: 1.5},
	}
	delta := readUntil(t, conn, "delta")
	if delta.Changes == nil || delta.Changes.Session == nil || !delta.Changes.Session.Connected {
		t.Fatalf("expected session change, got %+v", delta.Changes)
	}
	if delta.Changes.Motion == nil || !delta.Changes.Motion.Walking {
		t.Errorf("expected motion change, got %+v", delta.Changes.Motion)
	}
	if delta.Changes.Abilities != nil {
		t.Errorf("unchanged abilities must be omitted")
	}
	if delta.Seq <= full.Seq {
		t.Errorf("expected increasing sequence, got %d after %d", delta.Seq, full.Seq)
	}
}

func TestServer_SetPaused(t *testing.T) {
	s := newTestServer(t)
	conn := s.dial(t)
	readUntil(t, conn, "full")

	if err := conn.WriteJSON(hub.ClientMessage{Type: "set_paused", Paused: true}); err != nil {
		t.Fatalf("write: %v", err)
	}
	msg := readUntil(t, conn, "paused")
	if msg.Paused == nil || !*msg.Paused {
		t.Errorf("expected paused confirmation, got %+v", msg)
	}
	if !s.pauser.paused.Load() || s.pauser.calls.Load() != 1 {
		t.Errorf("expected one pause call")
	}
}

func TestServer_StatusEndpoint(t *testing.T) {
	s := newTestServer(t)

	s.changes <- orchestrator.Status{Abilities: orchestrator.Abilities{Held: true, Names: []string{"x"}}}

	deadline := time.Now().Add(2 * time.Second)
	for {
		resp, err := http.Get(s.ts.URL + "/api/status")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		var st orchestrator.Status
		err = json.NewDecoder(resp.Body).Decode(&st)
		resp.Body.Close()
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if resp.Header.Get("Content-Type") != "application/json" {
			t.Errorf("unexpected content type %q", resp.Header.Get("Content-Type"))
		}
		if st.Abilities.Held {
			if len(st.Abilities.Names) != 1 || st.Abilities.Names[0] != "x" {
				t.Errorf("unexpected names %v", st.Abilities.Names)
			}
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("status endpoint never reflected the change")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestServer_StatusPageIsMinified(t *testing.T) {
	s := newTestServer(t)
	resp, err := http.Get(s.ts.URL + "/")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	page := string(body)
	if !strings.Contains(page, "waiting") {
		t.Errorf("expected page content, got %q", page)
	}
	if strings.Contains(page, "status page") || strings.Contains(page, "\n  ") {
		t.Errorf("expected minified page, got %q", page)
	}
}
