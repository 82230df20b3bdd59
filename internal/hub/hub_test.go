package hub

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/soar/exilepad/internal/orchestrator"
)

func waitUntil(t *testing.T, timeout time.Duration, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal(msg)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func newTestClient(h *Hub, buf int) *Client {
	return &Client{hub: h, send: make(chan []byte, buf), logger: slog.New(slog.DiscardHandler)}
}

func TestHub_BroadcastDeliveredToAllClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := NewHub(slog.New(slog.DiscardHandler))
	go h.Run(ctx)

	c1, c2 := newTestClient(h, 4), newTestClient(h, 4)
	h.Register(c1)
	h.Register(c2)
	waitUntil(t, time.Second, func() bool { return h.Count() == 2 }, "clients not registered in time")

	h.Broadcast([]byte(`{"type":"delta"}`))
	for i, c := range []*Client{c1, c2} {
		select {
		case got := <-c.send:
			if string(got) != `{"type":"delta"}` {
				t.Errorf("client %d: unexpected message %s", i, got)
			}
		case <-time.After(time.Second):
			t.Errorf("client %d: no message", i)
		}
	}
}

func TestHub_SlowClientDisconnected(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := NewHub(slog.New(slog.DiscardHandler))
	go h.Run(ctx)

	slow := newTestClient(h, 1)
	h.Register(slow)
	waitUntil(t, time.Second, func() bool { return h.Count() == 1 }, "client not registered in time")

	h.Broadcast([]byte("1"))
	h.Broadcast([]byte("2"))
	waitUntil(t, time.Second, func() bool { return h.Count() == 0 }, "slow client not evicted")

	<-slow.send
	if _, ok := <-slow.send; ok {
		t.Errorf("expected send channel closed")
	}
}

func TestBroadcaster_DeltaAndLatest(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	logger := slog.New(slog.DiscardHandler)
	h := NewHub(logger)
	go h.Run(ctx)

	changes := make(chan orchestrator.Status, 4)
	b := NewBroadcaster(h, changes, logger)
	go b.Run(ctx)

	c := newTestClient(h, 8)
	h.Register(c)
	waitUntil(t, time.Second, func() bool { return h.Count() == 1 }, "client not registered in time")

	changes <- orchestrator.Status{Session: orchestrator.Session{Paused: true}}

	select {
	case data := <-c.send:
		var msg WSMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if msg.Type != "delta" || msg.Changes == nil || msg.Changes.Session == nil || !msg.Changes.Session.Paused {
			t.Errorf("expected paused session delta, got %s", data)
		}
		if msg.Changes.Motion != nil || msg.Changes.Controller != nil {
			t.Errorf("unchanged sections must be omitted: %s", data)
		}
	case <-time.After(time.Second):
		t.Fatal("no delta broadcast")
	}

	if !b.Latest().Session.Paused {
		t.Errorf("expected latest status to be paused")
	}
}

func TestHub_UnregisterAfterStopDoesNotBlock(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	h := NewHub(slog.New(slog.DiscardHandler))
	stopped := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(stopped)
	}()

	c := newTestClient(h, 1)
	h.Register(c)
	waitUntil(t, time.Second, func() bool { return h.Count() == 1 }, "client not registered in time")
	cancel()
	<-stopped

	done := make(chan struct{})
	go func() {
		h.Unregister(c)
		h.Broadcast([]byte("late"))
		h.Register(newTestClient(h, 1))
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("hub calls blocked after Run returned")
	}
	if _, ok := <-c.send; ok {
		t.Errorf("expected send channel closed on stop")
	}
}
