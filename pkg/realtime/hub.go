package realtime

import (
	"context"
	"encoding/json"
	"time"

	"github.com/taskboardhq/taskboard/pkg/interfaces/broadcaster"
	"github.com/taskboardhq/taskboard/pkg/interfaces/logger"
)

// RoomKey returns the fan-out room for a user.
func RoomKey(userID string) string { return "user_" + userID }

// Client is one live connection. Its lifetime is owned by the hub: created on
// connect, discarded on disconnect, never persisted. Send is drained by the
// connection's write pump, preserving per-connection delivery order.
type Client struct {
	ID          string
	Send        chan []byte
	ConnectedAt time.Time

	room string
}

// Room returns the user room the client currently belongs to, empty when it
// has not joined one. Only valid to call from hub callbacks and tests that
// have synchronized with the hub loop.
func (c *Client) Room() string { return c.room }

// NewClient allocates a connection handle with a buffered send queue.
func NewClient(id string) *Client {
	return &Client{
		ID:          id,
		Send:        make(chan []byte, 256),
		ConnectedAt: time.Now().UTC(),
	}
}

type joinRequest struct {
	clientID string
	userID   string
}

type delivery struct {
	room string
	data []byte
}

// Hub is the connection registry: it tracks live connections and room
// membership and provides broadcast and room-targeted delivery. A single Run
// goroutine owns the maps, so every mutation flows through a channel and no
// two dispatches interleave their registry updates.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	join       chan joinRequest
	outbound   chan delivery
	count      chan chan int
	done       chan struct{}
	logger     logger.Logger
}

var _ broadcaster.Broadcaster = (*Hub)(nil)

// NewHub builds a hub. Call Run in its own goroutine before use.
func NewHub(lgr logger.Logger) *Hub {
	if lgr == nil {
		lgr = &logger.Nop{}
	}
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		join:       make(chan joinRequest),
		outbound:   make(chan delivery, 256),
		count:      make(chan chan int),
		done:       make(chan struct{}),
		logger:     lgr,
	}
}

// Run owns the connection and room state until Close is called.
func (h *Hub) Run() {
	clients := make(map[string]*Client)
	rooms := make(map[string]map[string]*Client)

	drop := func(client *Client) {
		if _, ok := clients[client.ID]; !ok {
			return
		}
		delete(clients, client.ID)
		if client.room != "" {
			h.leaveRoom(rooms, client)
		}
		close(client.Send)
	}

	for {
		select {
		case client := <-h.register:
			clients[client.ID] = client
			h.logger.Debug("client registered",
				logger.Field{Key: "conn", Value: client.ID},
				logger.Field{Key: "total", Value: len(clients)},
			)

		case req := <-h.join:
			client, ok := clients[req.clientID]
			if !ok {
				// Connection closed before the join landed; a race, not an error.
				h.logger.Debug("join for unknown connection", logger.Field{Key: "conn", Value: req.clientID})
				continue
			}
			room := RoomKey(req.userID)
			if client.room == room {
				continue
			}
			if client.room != "" {
				h.leaveRoom(rooms, client)
			}
			client.room = room
			if rooms[room] == nil {
				rooms[room] = make(map[string]*Client)
			}
			rooms[room][client.ID] = client
			h.logger.Info("client joined room",
				logger.Field{Key: "conn", Value: client.ID},
				logger.Field{Key: "room", Value: room},
			)

		case client := <-h.unregister:
			drop(client)

		case msg := <-h.outbound:
			var targets map[string]*Client
			if msg.room == "" {
				targets = clients
			} else {
				targets = rooms[msg.room]
			}
			for _, client := range targets {
				select {
				case client.Send <- msg.data:
				default:
					// Slow consumer: drop it rather than stall everyone else.
					h.logger.Warn("dropping client, send buffer full", logger.Field{Key: "conn", Value: client.ID})
					drop(client)
				}
			}

		case reply := <-h.count:
			reply <- len(clients)

		case <-h.done:
			for _, client := range clients {
				drop(client)
			}
			return
		}
	}
}

// Close stops the hub loop and disconnects every client.
func (h *Hub) Close() {
	close(h.done)
}

// Register tracks a new connection with no room membership.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

// Unregister discards a connection. Safe to call for a connection that was
// never registered or was already dropped.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Join moves the connection into the user's room. A connection belongs to at
// most one room; a later join replaces the membership.
func (h *Hub) Join(clientID, userID string) {
	select {
	case h.join <- joinRequest{clientID: clientID, userID: userID}:
	case <-h.done:
	}
}

// Broadcast queues an event for delivery: to every connection when the event
// has no room, to the room's members otherwise. An empty room is a no-op.
func (h *Hub) Broadcast(ctx context.Context, event broadcaster.Event) error {
	data, err := MarshalEnvelope(event.Topic, event.Payload)
	if err != nil {
		return err
	}
	select {
	case h.outbound <- delivery{room: event.Room, data: data}:
		return nil
	case <-h.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(5 * time.Second):
		return context.DeadlineExceeded
	}
}

// Count reports the number of live connections, for health reporting.
func (h *Hub) Count() int {
	reply := make(chan int, 1)
	select {
	case h.count <- reply:
		return <-reply
	case <-h.done:
		return 0
	}
}

func (h *Hub) leaveRoom(rooms map[string]map[string]*Client, client *Client) {
	members, ok := rooms[client.room]
	if !ok {
		client.room = ""
		return
	}
	delete(members, client.ID)
	if len(members) == 0 {
		delete(rooms, client.room)
	}
	client.room = ""
}

// Envelope is the wire framing shared by both directions: a named event plus
// its JSON payload.
type Envelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// MarshalEnvelope frames a server-to-client message.
func MarshalEnvelope(topic string, payload map[string]any) ([]byte, error) {
	return json.Marshal(map[string]any{
		"event":   topic,
		"payload": payload,
	})
}
