package projects

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/taskboardhq/taskboard/pkg/domain"
	"github.com/taskboardhq/taskboard/pkg/events"
	"github.com/taskboardhq/taskboard/pkg/interfaces/logger"
	"github.com/taskboardhq/taskboard/pkg/interfaces/store"
)

// CreateInput captures the fields accepted when opening a project.
type CreateInput struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Status      string   `json:"status"`
	Owner       string   `json:"owner"`
	Members     []string `json:"members"`
}

// UpdateInput applies a partial update; nil fields are left untouched.
type UpdateInput struct {
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	Status      *string   `json:"status"`
	Owner       *string   `json:"owner"`
	Members     *[]string `json:"members"`
}

type eventDispatcher interface {
	Dispatch(ctx context.Context, event events.Event) error
}

// Dependencies wires the repositories and the fan-out entry point.
type Dependencies struct {
	Repository store.ProjectRepository
	Tasks      store.TaskRepository
	Dispatcher eventDispatcher
	Logger     logger.Logger
}

// Service owns project lifecycle: every committed write hands its events to
// the dispatcher.
type Service struct {
	repo       store.ProjectRepository
	tasks      store.TaskRepository
	dispatcher eventDispatcher
	logger     logger.Logger
}

var errRepositoryRequired = errors.New("projects: repository is required")

// New constructs the project service.
func New(deps Dependencies) (*Service, error) {
	if deps.Repository == nil {
		return nil, errRepositoryRequired
	}
	if deps.Logger == nil {
		deps.Logger = &logger.Nop{}
	}
	return &Service{
		repo:       deps.Repository,
		tasks:      deps.Tasks,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}, nil
}

// Create validates and persists a project, then announces it to every
// connected client. When an owner is set a targeted copy follows, so the
// owner also gets a durable notification.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.Project, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("projects: name is required: %w", store.ErrValidation)
	}
	if input.Status != "" && !domain.ValidProjectStatus(input.Status) {
		return nil, fmt.Errorf("projects: status %q is not valid: %w", input.Status, store.ErrValidation)
	}

	project := &domain.Project{
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Status:      input.Status,
		Owner:       strings.TrimSpace(input.Owner),
		Members:     domain.StringList(input.Members),
	}
	if err := s.repo.Create(ctx, project); err != nil {
		return nil, err
	}

	subject := s.subject(project)
	s.dispatch(ctx, events.New(events.ProjectCreated, subject, events.BroadcastAudience()))
	if project.Owner != "" {
		s.dispatch(ctx, events.New(events.ProjectCreated, subject, events.TargetedUser(project.Owner)))
	}
	return project, nil
}

// Update applies a partial update and announces the new state.
func (s *Service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*domain.Project, error) {
	project, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, fmt.Errorf("projects: name cannot be empty: %w", store.ErrValidation)
		}
		project.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		project.Description = *input.Description
	}
	if input.Status != nil {
		if !domain.ValidProjectStatus(*input.Status) {
			return nil, fmt.Errorf("projects: status %q is not valid: %w", *input.Status, store.ErrValidation)
		}
		project.Status = *input.Status
	}
	if input.Owner != nil {
		project.Owner = strings.TrimSpace(*input.Owner)
	}
	if input.Members != nil {
		project.Members = domain.StringList(*input.Members)
	}

	if err := s.repo.Update(ctx, project); err != nil {
		return nil, err
	}

	s.dispatch(ctx, events.New(events.ProjectUpdated, s.subject(project), events.BroadcastAudience()))
	return project, nil
}

// Get returns a single live project.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns projects, newest first.
func (s *Service) List(ctx context.Context, opts store.ListOptions) (store.ListResult[domain.Project], error) {
	return s.repo.List(ctx, opts)
}

// Delete soft-deletes the project, cascades to its tasks, and announces the
// removal.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	project, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	if s.tasks != nil {
		if err := s.tasks.SoftDeleteByProject(ctx, id); err != nil {
			s.logger.Error("task cascade failed",
				logger.Field{Key: "project_id", Value: id},
				logger.Field{Key: "error", Value: err},
			)
		}
	}

	s.dispatch(ctx, events.New(events.ProjectDeleted, events.Subject{
		ID:   project.ID.String(),
		Name: project.Name,
	}, events.BroadcastAudience()))
	return nil
}

func (s *Service) subject(project *domain.Project) events.Subject {
	return events.Subject{
		ID:     project.ID.String(),
		Name:   project.Name,
		Entity: domain.Document(project),
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
