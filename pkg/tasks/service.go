package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/taskboardhq/taskboard/pkg/domain"
	"github.com/taskboardhq/taskboard/pkg/events"
	"github.com/taskboardhq/taskboard/pkg/interfaces/logger"
	"github.com/taskboardhq/taskboard/pkg/interfaces/store"
)

// CreateInput captures the fields accepted when opening a task.
type CreateInput struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ProjectID   uuid.UUID `json:"project_id"`
	Assignee    string    `json:"assignee"`
	Priority    string    `json:"priority"`
	Status      string    `json:"status"`
	DueDate     time.Time `json:"due_date"`
}

// UpdateInput applies a partial update; nil fields are left untouched.
type UpdateInput struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Assignee    *string    `json:"assignee"`
	Priority    *string    `json:"priority"`
	Status      *string    `json:"status"`
	DueDate     *time.Time `json:"due_date"`
}

type eventDispatcher interface {
	Dispatch(ctx context.Context, event events.Event) error
}

// Dependencies wires the repositories and the fan-out entry point.
type Dependencies struct {
	Repository store.TaskRepository
	Projects   store.ProjectRepository
	Dispatcher eventDispatcher
	Logger     logger.Logger
}

// Service owns task lifecycle. Assignments and status changes target the
// assignee's room; everything else is announced to all clients.
type Service struct {
	repo       store.TaskRepository
	projects   store.ProjectRepository
	dispatcher eventDispatcher
	logger     logger.Logger
}

var errRepositoryRequired = errors.New("tasks: repository is required")

// New constructs the task service.
func New(deps Dependencies) (*Service, error) {
	if deps.Repository == nil {
		return nil, errRepositoryRequired
	}
	if deps.Logger == nil {
		deps.Logger = &logger.Nop{}
	}
	return &Service{
		repo:       deps.Repository,
		projects:   deps.Projects,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}, nil
}

// Create validates and persists a task, then announces it to every connected
// client. When an assignee is set a targeted copy follows, so the recipient
// also gets a durable notification besides the live push.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.Task, error) {
	if err := s.validateCreate(ctx, input); err != nil {
		return nil, err
	}

	task := &domain.Task{
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		ProjectID:   input.ProjectID,
		Assignee:    strings.TrimSpace(input.Assignee),
		Priority:    input.Priority,
		Status:      input.Status,
		DueDate:     input.DueDate,
	}
	if err := s.repo.Create(ctx, task); err != nil {
		return nil, err
	}

	subject := s.subject(task)
	s.dispatch(ctx, events.New(events.TaskCreated, subject, events.BroadcastAudience()))
	if task.Assignee != "" {
		s.dispatch(ctx, events.New(events.TaskCreated, subject, events.TargetedUser(task.Assignee)))
	}
	return task, nil
}

// Update applies a partial update. A status transition produces a status
// change event; handing the task to a new assignee produces an assignment
// event; any other modification is announced as a plain update.
func (s *Service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*domain.Task, error) {
	task, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	oldStatus := task.Status
	oldAssignee := task.Assignee

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, fmt.Errorf("tasks: title cannot be empty: %w", store.ErrValidation)
		}
		task.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Assignee != nil {
		task.Assignee = strings.TrimSpace(*input.Assignee)
	}
	if input.Priority != nil {
		if !domain.ValidPriority(*input.Priority) {
			return nil, fmt.Errorf("tasks: priority %q is not valid: %w", *input.Priority, store.ErrValidation)
		}
		task.Priority = *input.Priority
	}
	if input.Status != nil {
		if !domain.ValidTaskStatus(*input.Status) {
			return nil, fmt.Errorf("tasks: status %q is not valid: %w", *input.Status, store.ErrValidation)
		}
		task.Status = *input.Status
	}
	if input.DueDate != nil {
		task.DueDate = *input.DueDate
	}

	if err := s.repo.Update(ctx, task); err != nil {
		return nil, err
	}

	statusChanged := task.Status != oldStatus
	assigned := task.Assignee != "" && task.Assignee != oldAssignee

	if assigned {
		s.dispatch(ctx, events.New(events.TaskCreated, s.subject(task), events.TargetedUser(task.Assignee)))
	}
	if statusChanged {
		subject := s.subject(task)
		subject.OldStatus = oldStatus
		subject.NewStatus = task.Status
		audience := events.BroadcastAudience()
		if task.Assignee != "" {
			audience = events.TargetedUser(task.Assignee)
		}
		s.dispatch(ctx, events.New(events.TaskStatusChanged, subject, audience))
	}
	if !assigned && !statusChanged {
		s.dispatch(ctx, events.New(events.TaskUpdated, s.subject(task), events.BroadcastAudience()))
	}
	return task, nil
}

// Get returns a single live task.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns tasks, newest first.
func (s *Service) List(ctx context.Context, opts store.ListOptions) (store.ListResult[domain.Task], error) {
	return s.repo.List(ctx, opts)
}

// ListByProject returns one project's tasks, newest first.
func (s *Service) ListByProject(ctx context.Context, projectID uuid.UUID, opts store.ListOptions) (store.ListResult[domain.Task], error) {
	return s.repo.ListByProject(ctx, projectID, opts)
}

// Delete soft-deletes the task and announces the removal.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	task, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}

	s.dispatch(ctx, events.New(events.TaskDeleted, events.Subject{
		ID:   task.ID.String(),
		Name: task.Title,
	}, events.BroadcastAudience()))
	return nil
}

func (s *Service) validateCreate(ctx context.Context, input CreateInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return fmt.Errorf("tasks: title is required: %w", store.ErrValidation)
	}
	if input.ProjectID == uuid.Nil {
		return fmt.Errorf("tasks: project_id is required: %w", store.ErrValidation)
	}
	if input.Priority != "" && !domain.ValidPriority(input.Priority) {
		return fmt.Errorf("tasks: priority %q is not valid: %w", input.Priority, store.ErrValidation)
	}
	if input.Status != "" && !domain.ValidTaskStatus(input.Status) {
		return fmt.Errorf("tasks: status %q is not valid: %w", input.Status, store.ErrValidation)
	}
	if s.projects != nil {
		if _, err := s.projects.GetByID(ctx, input.ProjectID); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) subject(task *domain.Task) events.Subject {
	return events.Subject{
		ID:     task.ID.String(),
		Name:   task.Title,
		Entity: domain.Document(task),
	}
}

func (s *Service) dispatch(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Dispatch(ctx, event); err != nil {
		s.logger.Warn("event dispatch failed",
			logger.Field{Key: "kind", Value: string(event.Kind)},
			logger.Field{Key: "error", Value: err},
		)
	}
}
