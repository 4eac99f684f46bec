package events

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Kind identifies the state change that produced an event.
type Kind string

const (
	ProjectCreated    Kind = "project.created"
	ProjectUpdated    Kind = "project.updated"
	ProjectDeleted    Kind = "project.deleted"
	TaskCreated       Kind = "task.created"
	TaskUpdated       Kind = "task.updated"
	TaskDeleted       Kind = "task.deleted"
	TaskStatusChanged Kind = "task.status_changed"
)

// Audience selects the fan-out targets for an event. The zero value is a
// broadcast to every connected client.
type Audience struct {
	userID string
}

// BroadcastAudience addresses every connected client.
func BroadcastAudience() Audience { return Audience{} }

// TargetedUser restricts delivery to the given user's room and produces a
// durable notification record for that user.
func TargetedUser(userID string) Audience {
	return Audience{userID: strings.TrimSpace(userID)}
}

// Targeted reports whether the audience is a single user room.
func (a Audience) Targeted() bool { return a.userID != "" }

// UserID returns the targeted recipient, empty for broadcasts.
func (a Audience) UserID() string { return a.userID }

// Subject is the affected entity's identifier plus a minimal display
// snapshot. Entity carries the JSON document pushed on the wire.
type Subject struct {
	ID        string
	Name      string
	OldStatus string
	NewStatus string
	Entity    map[string]any
}

// Event is an immutable record of a committed write, created by the CRUD
// layer and consumed by the dispatcher.
type Event struct {
	Kind       Kind
	Subject    Subject
	Audience   Audience
	OccurredAt time.Time
}

// New builds an event stamped with the current time.
func New(kind Kind, subject Subject, audience Audience) Event {
	return Event{
		Kind:       kind,
		Subject:    subject,
		Audience:   audience,
		OccurredAt: time.Now().UTC(),
	}
}

var (
	errUnknownKind    = errors.New("events: unknown kind")
	errMissingSubject = errors.New("events: subject id is required")
)

// Validate rejects malformed events before any fan-out I/O.
func (e Event) Validate() error {
	switch e.Kind {
	case ProjectCreated, ProjectUpdated, ProjectDeleted,
		TaskCreated, TaskUpdated, TaskDeleted, TaskStatusChanged:
	default:
		return fmt.Errorf("%w: %q", errUnknownKind, e.Kind)
	}
	if strings.TrimSpace(e.Subject.ID) == "" {
		return errMissingSubject
	}
	if e.Kind == TaskStatusChanged && (e.Subject.OldStatus == "" || e.Subject.NewStatus == "") {
		return errors.New("events: status change requires old and new status")
	}
	return nil
}

// Topic resolves the wire event name. A targeted task creation is announced
// as an assignment; every other kind maps one-to-one.
func (e Event) Topic() string {
	if e.Kind == TaskCreated && e.Audience.Targeted() {
		return "task-assigned"
	}
	switch e.Kind {
	case ProjectCreated:
		return "project-created"
	case ProjectUpdated:
		return "project-updated"
	case ProjectDeleted:
		return "project-deleted"
	case TaskCreated:
		return "task-created"
	case TaskUpdated:
		return "task-updated"
	case TaskDeleted:
		return "task-deleted"
	case TaskStatusChanged:
		return "task-status-changed"
	}
	return string(e.Kind)
}

// WirePayload is the JSON object delivered to live clients: the rendered
// message plus kind-specific fields.
func (e Event) WirePayload(note Note) map[string]any {
	payload := map[string]any{"message": note.Message}
	switch e.Kind {
	case ProjectCreated, ProjectUpdated:
		payload["project"] = e.Subject.Entity
	case ProjectDeleted:
		payload["projectId"] = e.Subject.ID
	case TaskCreated, TaskUpdated:
		payload["task"] = e.Subject.Entity
	case TaskDeleted:
		payload["taskId"] = e.Subject.ID
	case TaskStatusChanged:
		payload["task"] = e.Subject.Entity
		payload["oldStatus"] = e.Subject.OldStatus
		payload["newStatus"] = e.Subject.NewStatus
	}
	return payload
}
