package hub

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/soar/exilepad/internal/orchestrator"
)

const (
	fullSyncInterval = 5 * time.Second
	deltaCountSync   = 100
)

// Broadcaster listens for status changes and broadcasts them to the hub.
type Broadcaster struct {
	hub     *Hub
	changes <-chan orchestrator.Status
	logger  *slog.Logger

	mu        sync.Mutex
	lastState orchestrator.Status
	seq       int64
}

func NewBroadcaster(h *Hub, changes <-chan orchestrator.Status, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hub:     h,
		changes: changes,
		logger:  logger,
	}
}

// Run starts the broadcaster loop. Should be run in a goroutine.
func (b *Broadcaster) Run(ctx context.Context) {
	ticker := time.NewTicker(fullSyncInterval)
	defer ticker.Stop()

	var deltaCount int64

	for {
		select {
		case <-ctx.Done():
			return

		case state, ok := <-b.changes:
			if !ok {
				return
			}

			b.mu.Lock()
			delta := orchestrator.ComputeDelta(b.lastState, state)
			b.lastState = state
			if delta.IsEmpty() {
				b.mu.Unlock()
				continue
			}
			b.seq++
			seq := b.seq
			b.mu.Unlock()

			deltaCount++
			// Send full sync periodically
			if deltaCount >= deltaCountSync {
				b.broadcast(NewFullMessage(seq, &state))
				deltaCount = 0
			} else {
				b.broadcast(NewDeltaMessage(seq, delta))
			}

		case <-ticker.C:
			b.mu.Lock()
			b.seq++
			state, seq := b.lastState, b.seq
			b.mu.Unlock()
			b.broadcast(NewFullMessage(seq, &state))
		}
	}
}

// Latest returns the most recently received status.
func (b *Broadcaster) Latest() orchestrator.Status {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastState
}

// SendInitialState sends the current full status to a newly connected client.
func (b *Broadcaster) SendInitialState(c *Client) {
	b.mu.Lock()
	b.seq++
	state, seq := b.lastState, b.seq
	b.mu.Unlock()

	data, err := json.Marshal(NewFullMessage(seq, &state))
	if err != nil {
		b.logger.Error("Error marshaling initial state", "error", err)
		return
	}
	c.trySend(data)
}

func (b *Broadcaster) broadcast(msg *WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		b.logger.Error("Error marshaling message", "type", msg.Type, "error", err)
		return
	}
	b.hub.Broadcast(data)
}
