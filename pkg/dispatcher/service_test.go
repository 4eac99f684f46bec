package dispatcher

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/taskboardhq/taskboard/pkg/domain"
	"github.com/taskboardhq/taskboard/pkg/events"
	"github.com/taskboardhq/taskboard/pkg/interfaces/broadcaster"
	"github.com/taskboardhq/taskboard/pkg/notifications"
	"github.com/taskboardhq/taskboard/pkg/realtime"
	"github.com/taskboardhq/taskboard/pkg/sink"
)

type captureRegistry struct {
	mu     sync.Mutex
	events []broadcaster.Event
	err    error
}

func (c *captureRegistry) Broadcast(ctx context.Context, event broadcaster.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
	return c.err
}

func (c *captureRegistry) all() []broadcaster.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]broadcaster.Event(nil), c.events...)
}

type stubNotifications struct {
	mu     sync.Mutex
	inputs []notifications.CreateInput
	err    error
}

func (s *stubNotifications) Create(ctx context.Context, input notifications.CreateInput) (*domain.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inputs = append(s.inputs, input)
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Notification{
		Title:    input.Title,
		Message:  input.Message,
		Severity: input.Severity,
		UserID:   input.UserID,
	}, nil
}

func (s *stubNotifications) all() []notifications.CreateInput {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]notifications.CreateInput(nil), s.inputs...)
}

type stubSink struct {
	mu      sync.Mutex
	notices []sink.Notice
	err     error
}

func (s *stubSink) Send(ctx context.Context, notice sink.Notice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notices = append(s.notices, notice)
	return s.err
}

func (s *stubSink) all() []sink.Notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]sink.Notice(nil), s.notices...)
}

func newTestService(t *testing.T, registry *captureRegistry, notes *stubNotifications, out *stubSink) *Service {
	t.Helper()
	svc, err := New(Dependencies{
		Registry:      registry,
		Notifications: notes,
		Sink:          out,
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	return svc
}

func TestDispatchBroadcastIsEphemeral(t *testing.T) {
	registry := &captureRegistry{}
	notes := &stubNotifications{}
	out := &stubSink{}
	svc := newTestService(t, registry, notes, out)

	event := events.New(events.ProjectCreated, events.Subject{
		ID:     "p-1",
		Name:   "Plataforma",
		Entity: map[string]any{"id": "p-1", "name": "Plataforma"},
	}, events.BroadcastAudience())

	if err := svc.Dispatch(context.Background(), event); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	svc.Close()

	got := registry.all()
	if len(got) != 1 {
		t.Fatalf("expected 1 live push, got %d", len(got))
	}
	if got[0].Topic != "project-created" {
		t.Fatalf("unexpected topic %q", got[0].Topic)
	}
	if got[0].Room != "" {
		t.Fatalf("broadcast must not target a room, got %q", got[0].Room)
	}
	if len(notes.all()) != 0 {
		t.Fatal("broadcast must not create a durable record")
	}
	if len(out.all()) != 0 {
		t.Fatal("broadcast must not reach the sink")
	}
}

func TestDispatchTargetedFansOutEverywhere(t *testing.T) {
	registry := &captureRegistry{}
	notes := &stubNotifications{}
	out := &stubSink{}
	svc := newTestService(t, registry, notes, out)

	event := events.New(events.TaskCreated, events.Subject{
		ID:     "t-1",
		Name:   "Deploy",
		Entity: map[string]any{"id": "t-1", "title": "Deploy"},
	}, events.TargetedUser("u-7"))

	if err := svc.Dispatch(context.Background(), event); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	svc.Close()

	pushes := registry.all()
	if len(pushes) != 1 {
		t.Fatalf("expected 1 live push, got %d", len(pushes))
	}
	if pushes[0].Topic != "task-assigned" {
		t.Fatalf("unexpected topic %q", pushes[0].Topic)
	}
	if pushes[0].Room != realtime.RoomKey("u-7") {
		t.Fatalf("unexpected room %q", pushes[0].Room)
	}
	if pushes[0].Payload["message"] != "Se te ha asignado la tarea: Deploy" {
		t.Fatalf("unexpected message %v", pushes[0].Payload["message"])
	}

	stored := notes.all()
	if len(stored) != 1 {
		t.Fatalf("expected exactly 1 durable record, got %d", len(stored))
	}
	if stored[0].UserID != "u-7" || stored[0].Title != "Nueva Tarea Asignada" {
		t.Fatalf("unexpected record %+v", stored[0])
	}

	notices := out.all()
	if len(notices) != 1 {
		t.Fatalf("expected 1 sink notice, got %d", len(notices))
	}
	if notices[0].UserID != "u-7" || notices[0].Severity != domain.SeverityInfo {
		t.Fatalf("unexpected notice %+v", notices[0])
	}
}

func TestDispatchLivePushFailureDoesNotGateDurable(t *testing.T) {
	registry := &captureRegistry{err: errors.New("boom")}
	notes := &stubNotifications{}
	out := &stubSink{}
	svc := newTestService(t, registry, notes, out)

	event := events.New(events.TaskCreated, events.Subject{ID: "t-1", Name: "Deploy"}, events.TargetedUser("u-7"))
	if err := svc.Dispatch(context.Background(), event); err != nil {
		t.Fatalf("dispatch must swallow live push failure: %v", err)
	}
	svc.Close()

	if len(notes.all()) != 1 {
		t.Fatal("durable record missing after live push failure")
	}
	if len(out.all()) != 1 {
		t.Fatal("sink notice missing after live push failure")
	}
}

func TestDispatchStoreFailureDoesNotGateSink(t *testing.T) {
	registry := &captureRegistry{}
	notes := &stubNotifications{err: errors.New("db down")}
	out := &stubSink{}
	svc := newTestService(t, registry, notes, out)

	event := events.New(events.TaskCreated, events.Subject{ID: "t-1", Name: "Deploy"}, events.TargetedUser("u-7"))
	if err := svc.Dispatch(context.Background(), event); err != nil {
		t.Fatalf("dispatch must swallow store failure: %v", err)
	}
	svc.Close()

	if len(out.all()) != 1 {
		t.Fatal("sink notice missing after store failure")
	}
}

func TestDispatchSinkFailureIsSwallowed(t *testing.T) {
	registry := &captureRegistry{}
	notes := &stubNotifications{}
	out := &stubSink{err: errors.New("unreachable")}
	svc := newTestService(t, registry, notes, out)

	event := events.New(events.TaskCreated, events.Subject{ID: "t-1", Name: "Deploy"}, events.TargetedUser("u-7"))
	if err := svc.Dispatch(context.Background(), event); err != nil {
		t.Fatalf("dispatch must swallow sink failure: %v", err)
	}
	svc.Close()

	if len(notes.all()) != 1 {
		t.Fatal("durable record missing after sink failure")
	}
}

func TestDispatchRejectsInvalidEvent(t *testing.T) {
	registry := &captureRegistry{}
	notes := &stubNotifications{}
	out := &stubSink{}
	svc := newTestService(t, registry, notes, out)

	err := svc.Dispatch(context.Background(), events.Event{Kind: events.Kind("bogus")})
	if err == nil {
		t.Fatal("expected validation error")
	}
	svc.Close()

	if len(registry.all()) != 0 || len(notes.all()) != 0 || len(out.all()) != 0 {
		t.Fatal("invalid event must not fan out")
	}
}

func TestDispatchStatusChangeEndToEnd(t *testing.T) {
	registry := &captureRegistry{}
	notes := &stubNotifications{}
	out := &stubSink{}
	svc := newTestService(t, registry, notes, out)

	event := events.New(events.TaskStatusChanged, events.Subject{
		ID:        "t-9",
		Name:      "Deploy",
		OldStatus: domain.TaskStatusPending,
		NewStatus: domain.TaskStatusCompleted,
		Entity:    map[string]any{"id": "t-9", "title": "Deploy"},
	}, events.TargetedUser("u-3"))

	if err := svc.Dispatch(context.Background(), event); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	svc.Close()

	pushes := registry.all()
	if len(pushes) != 1 {
		t.Fatalf("expected 1 push, got %d", len(pushes))
	}
	if pushes[0].Topic != "task-status-changed" {
		t.Fatalf("unexpected topic %q", pushes[0].Topic)
	}
	if pushes[0].Payload["oldStatus"] != domain.TaskStatusPending || pushes[0].Payload["newStatus"] != domain.TaskStatusCompleted {
		t.Fatalf("missing status payload: %v", pushes[0].Payload)
	}

	stored := notes.all()
	if len(stored) != 1 {
		t.Fatalf("expected 1 record, got %d", len(stored))
	}
	if stored[0].Severity != domain.SeveritySuccess {
		t.Fatalf("unexpected severity %q", stored[0].Severity)
	}
	if stored[0].Message != `La tarea "Deploy" cambió a: completada` {
		t.Fatalf("unexpected message %q", stored[0].Message)
	}
}

func TestNewRequiresCollaborators(t *testing.T) {
	if _, err := New(Dependencies{Notifications: &stubNotifications{}}); !errors.Is(err, ErrMissingRegistry) {
		t.Fatalf("expected ErrMissingRegistry, got %v", err)
	}
	if _, err := New(Dependencies{Registry: &captureRegistry{}}); !errors.Is(err, ErrMissingNotifications) {
		t.Fatalf("expected ErrMissingNotifications, got %v", err)
	}
}
