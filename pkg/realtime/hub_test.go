package realtime

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/taskboardhq/taskboard/pkg/interfaces/broadcaster"
)

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(nil)
	go hub.Run()
	t.Cleanup(hub.Close)
	return hub
}

func waitMessage(t *testing.T, c *Client) Envelope {
	t.Helper()
	select {
	case data, ok := <-c.Send:
		if !ok {
			t.Fatal("send channel closed")
		}
		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		return env
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
	}
	return Envelope{}
}

func assertNoMessage(t *testing.T, c *Client) {
	t.Helper()
	select {
	case data, ok := <-c.Send:
		if ok {
			t.Fatalf("unexpected message: %s", data)
		}
	case <-time.After(100 * time.Millisecond):
	}
}

func TestBroadcastReachesAllClients(t *testing.T) {
	hub := newTestHub(t)
	a := NewClient("a")
	b := NewClient("b")
	hub.Register(a)
	hub.Register(b)

	err := hub.Broadcast(context.Background(), broadcaster.Event{
		Topic:   "project-created",
		Payload: map[string]any{"message": "hola"},
	})
	if err != nil {
		t.Fatalf("broadcast: %v", err)
	}

	for _, c := range []*Client{a, b} {
		env := waitMessage(t, c)
		if env.Event != "project-created" {
			t.Fatalf("unexpected event %q", env.Event)
		}
	}
}

func TestRoomTargetedDelivery(t *testing.T) {
	hub := newTestHub(t)
	member := NewClient("member")
	outsider := NewClient("outsider")
	hub.Register(member)
	hub.Register(outsider)
	hub.Join(member.ID, "u-1")

	err := hub.Broadcast(context.Background(), broadcaster.Event{
		Topic:   "task-assigned",
		Room:    RoomKey("u-1"),
		Payload: map[string]any{"message": "para ti"},
	})
	if err != nil {
		t.Fatalf("broadcast: %v", err)
	}

	env := waitMessage(t, member)
	if env.Event != "task-assigned" {
		t.Fatalf("unexpected event %q", env.Event)
	}
	assertNoMessage(t, outsider)
}

func TestJoinReplacesRoom(t *testing.T) {
	hub := newTestHub(t)
	client := NewClient("c")
	hub.Register(client)

	hub.Join(client.ID, "u-1")
	hub.Join(client.ID, "u-2")

	// Old room no longer receives.
	if err := hub.Broadcast(context.Background(), broadcaster.Event{
		Topic:   "task-assigned",
		Room:    RoomKey("u-1"),
		Payload: map[string]any{"message": "viejo"},
	}); err != nil {
		t.Fatalf("broadcast: %v", err)
	}
	assertNoMessage(t, client)

	if err := hub.Broadcast(context.Background(), broadcaster.Event{
		Topic:   "task-assigned",
		Room:    RoomKey("u-2"),
		Payload: map[string]any{"message": "nuevo"},
	}); err != nil {
		t.Fatalf("broadcast: %v", err)
	}
	env := waitMessage(t, client)
	if env.Event != "task-assigned" {
		t.Fatalf("unexpected event %q", env.Event)
	}
}

func TestJoinUnknownConnectionIsIgnored(t *testing.T) {
	hub := newTestHub(t)
	hub.Join("ghost", "u-1")

	// The hub keeps serving afterwards.
	client := NewClient("c")
	hub.Register(client)
	if got := hub.Count(); got != 1 {
		t.Fatalf("expected 1 client, got %d", got)
	}
}

func TestUnregisterRemovesFromRoom(t *testing.T) {
	hub := newTestHub(t)
	client := NewClient("c")
	hub.Register(client)
	hub.Join(client.ID, "u-1")
	hub.Unregister(client)

	if _, ok := <-client.Send; ok {
		t.Fatal("expected send channel to close")
	}
	if got := hub.Count(); got != 0 {
		t.Fatalf("expected 0 clients, got %d", got)
	}

	// Delivery to the abandoned room is a no-op.
	if err := hub.Broadcast(context.Background(), broadcaster.Event{
		Topic:   "task-assigned",
		Room:    RoomKey("u-1"),
		Payload: map[string]any{"message": "nadie"},
	}); err != nil {
		t.Fatalf("broadcast: %v", err)
	}
}

func TestSlowConsumerIsDropped(t *testing.T) {
	hub := newTestHub(t)
	slow := &Client{ID: "slow", Send: make(chan []byte)} // no buffer, never drained
	healthy := NewClient("healthy")
	hub.Register(slow)
	hub.Register(healthy)

	if err := hub.Broadcast(context.Background(), broadcaster.Event{
		Topic:   "project-updated",
		Payload: map[string]any{"message": "hola"},
	}); err != nil {
		t.Fatalf("broadcast: %v", err)
	}

	waitMessage(t, healthy)
	if _, ok := <-slow.Send; ok {
		t.Fatal("expected slow client to be dropped")
	}

	deadline := time.Now().Add(2 * time.Second)
	for hub.Count() != 1 {
		if time.Now().After(deadline) {
			t.Fatalf("expected 1 client after drop, got %d", hub.Count())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestCountAfterClose(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()
	client := NewClient("c")
	hub.Register(client)
	hub.Close()

	select {
	case _, ok := <-client.Send:
		if ok {
			t.Fatal("expected close, got message")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for disconnect")
	}
	if got := hub.Count(); got != 0 {
		t.Fatalf("expected 0 after close, got %d", got)
	}
}

func TestMarshalEnvelopeShape(t *testing.T) {
	data, err := MarshalEnvelope("task-created", map[string]any{"message": "hola"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if env.Event != "task-created" {
		t.Fatalf("unexpected event %q", env.Event)
	}
	var payload map[string]any
	if err := json.Unmarshal(env.Payload, &payload); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if payload["message"] != "hola" {
		t.Fatalf("unexpected payload %v", payload)
	}
}
