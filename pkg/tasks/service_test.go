package tasks

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/taskboardhq/taskboard/internal/storage/memory"
	"github.com/taskboardhq/taskboard/pkg/domain"
	"github.com/taskboardhq/taskboard/pkg/events"
	"github.com/taskboardhq/taskboard/pkg/interfaces/store"
)

type captureDispatcher struct {
	events []events.Event
}

func (c *captureDispatcher) Dispatch(ctx context.Context, event events.Event) error {
	c.events = append(c.events, event)
	return nil
}

func newTestService(t *testing.T) (*Service, *captureDispatcher, uuid.UUID) {
	t.Helper()
	provider := memory.NewProvider()
	disp := &captureDispatcher{}
	svc, err := New(Dependencies{
		Repository: provider.Tasks(),
		Projects:   provider.Projects(),
		Dispatcher: disp,
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	project := &domain.Project{Name: "Plataforma"}
	if err := provider.Projects().Create(context.Background(), project); err != nil {
		t.Fatalf("project: %v", err)
	}
	return svc, disp, project.ID
}

func TestCreateUnassignedBroadcasts(t *testing.T) {
	svc, disp, projectID := newTestService(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, CreateInput{Title: "Deploy", ProjectID: projectID})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if task.Status != domain.TaskStatusPending || task.Priority != domain.PriorityMedium {
		t.Fatalf("unexpected defaults %s/%s", task.Status, task.Priority)
	}

	if len(disp.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(disp.events))
	}
	e := disp.events[0]
	if e.Kind != events.TaskCreated || e.Audience.Targeted() {
		t.Fatalf("expected broadcast task.created, got %s targeted=%v", e.Kind, e.Audience.Targeted())
	}
	if e.Topic() != "task-created" {
		t.Fatalf("unexpected topic %q", e.Topic())
	}
}

func TestCreateAssignedBroadcastsAndTargetsAssignee(t *testing.T) {
	svc, disp, projectID := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateInput{Title: "Deploy", ProjectID: projectID, Assignee: "u-5"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	// Everyone hears about the new task; the assignee additionally gets a
	// targeted copy that becomes a durable notification.
	if len(disp.events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(disp.events))
	}
	announce := disp.events[0]
	if announce.Kind != events.TaskCreated || announce.Audience.Targeted() {
		t.Fatalf("expected broadcast task.created first, got %s targeted=%v", announce.Kind, announce.Audience.Targeted())
	}
	if announce.Topic() != "task-created" {
		t.Fatalf("unexpected broadcast topic %q", announce.Topic())
	}

	assigned := disp.events[1]
	if !assigned.Audience.Targeted() || assigned.Audience.UserID() != "u-5" {
		t.Fatalf("expected targeted audience, got %+v", assigned.Audience)
	}
	if assigned.Topic() != "task-assigned" {
		t.Fatalf("unexpected topic %q", assigned.Topic())
	}
}

func TestCreateValidation(t *testing.T) {
	svc, disp, projectID := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		input CreateInput
	}{
		{"missing title", CreateInput{ProjectID: projectID}},
		{"missing project", CreateInput{Title: "x"}},
		{"bad priority", CreateInput{Title: "x", ProjectID: projectID, Priority: "urgente"}},
		{"bad status", CreateInput{Title: "x", ProjectID: projectID, Status: "hecha"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, tc.input); !errors.Is(err, store.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}

	if _, err := svc.Create(ctx, CreateInput{Title: "x", ProjectID: uuid.New()}); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown project, got %v", err)
	}
	if len(disp.events) != 0 {
		t.Fatal("rejected input must not dispatch")
	}
}

func TestUpdateStatusChangeTargetsAssignee(t *testing.T) {
	svc, disp, projectID := newTestService(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, CreateInput{Title: "Deploy", ProjectID: projectID, Assignee: "u-5"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	disp.events = nil

	status := domain.TaskStatusInProgress
	if _, err := svc.Update(ctx, task.ID, UpdateInput{Status: &status}); err != nil {
		t.Fatalf("update: %v", err)
	}

	if len(disp.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(disp.events))
	}
	e := disp.events[0]
	if e.Kind != events.TaskStatusChanged {
		t.Fatalf("unexpected kind %s", e.Kind)
	}
	if e.Subject.OldStatus != domain.TaskStatusPending || e.Subject.NewStatus != domain.TaskStatusInProgress {
		t.Fatalf("unexpected transition %+v", e.Subject)
	}
	if !e.Audience.Targeted() || e.Audience.UserID() != "u-5" {
		t.Fatalf("status change must target the assignee, got %+v", e.Audience)
	}
}

func TestUpdateStatusChangeWithoutAssigneeBroadcasts(t *testing.T) {
	svc, disp, projectID := newTestService(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, CreateInput{Title: "Deploy", ProjectID: projectID})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	disp.events = nil

	status := domain.TaskStatusCancelled
	if _, err := svc.Update(ctx, task.ID, UpdateInput{Status: &status}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if disp.events[0].Audience.Targeted() {
		t.Fatal("status change without assignee must broadcast")
	}
}

func TestUpdateReassignmentDispatchesAssignment(t *testing.T) {
	svc, disp, projectID := newTestService(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, CreateInput{Title: "Deploy", ProjectID: projectID})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	disp.events = nil

	assignee := "u-9"
	if _, err := svc.Update(ctx, task.ID, UpdateInput{Assignee: &assignee}); err != nil {
		t.Fatalf("update: %v", err)
	}

	if len(disp.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(disp.events))
	}
	e := disp.events[0]
	if e.Topic() != "task-assigned" {
		t.Fatalf("unexpected topic %q", e.Topic())
	}
	if e.Audience.UserID() != "u-9" {
		t.Fatalf("unexpected recipient %q", e.Audience.UserID())
	}
}

func TestUpdatePlainChangeBroadcastsUpdate(t *testing.T) {
	svc, disp, projectID := newTestService(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, CreateInput{Title: "Deploy", ProjectID: projectID})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	disp.events = nil

	title := "Deploy v2"
	if _, err := svc.Update(ctx, task.ID, UpdateInput{Title: &title}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(disp.events) != 1 || disp.events[0].Kind != events.TaskUpdated {
		t.Fatalf("expected task.updated, got %+v", disp.events)
	}
}

func TestDeleteAnnouncesRemoval(t *testing.T) {
	svc, disp, projectID := newTestService(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, CreateInput{Title: "Deploy", ProjectID: projectID})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	disp.events = nil

	if err := svc.Delete(ctx, task.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(ctx, task.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	e := disp.events[0]
	if e.Kind != events.TaskDeleted {
		t.Fatalf("unexpected kind %s", e.Kind)
	}
	if e.Subject.ID != task.ID.String() {
		t.Fatalf("unexpected subject %+v", e.Subject)
	}
}
