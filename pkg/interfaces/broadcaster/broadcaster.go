package broadcaster

import "context"

// Event carries a live notification destined for connected clients. Topic is
// the wire event name; Payload is the JSON object delivered with it. An empty
// Room means every connection; otherwise delivery is restricted to the
// connections joined to that user room.
type Event struct {
	Topic   string
	Room    string
	Payload map[string]any
}

// Broadcaster pushes events to a real-time transport (WebSocket hub).
type Broadcaster interface {
	Broadcast(ctx context.Context, event Event) error
}

// Nop discards events.
type Nop struct{}

var _ Broadcaster = (*Nop)(nil)

func (n *Nop) Broadcast(ctx context.Context, event Event) error { return nil }
