package hub

import (
	"time"

	"github.com/soar/exilepad/internal/orchestrator"
)

// WSMessage represents a WebSocket message sent from server to client.
type WSMessage struct {
	Type      string               `json:"type"`              // "full", "delta" or "paused"
	Seq       int64                `json:"seq"`               // Sequence number for ordering
	Timestamp int64                `json:"timestamp"`         // Unix timestamp in milliseconds
	Data      *orchestrator.Status `json:"data,omitempty"`    // Full status for type "full"
	Changes   *orchestrator.Delta  `json:"changes,omitempty"` // Changed sections for type "delta"
	Paused    *bool                `json:"paused,omitempty"`  // Pause state for type "paused"
}

// NewFullMessage creates a "full" type message containing the complete status.
func NewFullMessage(seq int64, status *orchestrator.Status) *WSMessage {
	return &WSMessage{
		Type:      "full",
		Seq:       seq,
		Timestamp: time.Now().UnixMilli(),
		Data:      status,
	}
}

// NewDeltaMessage creates a "delta" type message containing only changed sections.
func NewDeltaMessage(seq int64, changes *orchestrator.Delta) *WSMessage {
	return &WSMessage{
		Type:      "delta",
		Seq:       seq,
		Timestamp: time.Now().UnixMilli(),
		Changes:   changes,
	}
}

// NewPausedMessage confirms a pause request from a client.
func NewPausedMessage(paused bool) *WSMessage {
	return &WSMessage{
		Type:      "paused",
		Timestamp: time.Now().UnixMilli(),
		Paused:    &paused,
	}
}

// ClientMessage represents a message sent from the client to the server.
type ClientMessage struct {
	Type   string `json:"type"` // "set_paused"
	Paused bool   `json:"paused"`
}
