package commands

import (
	"context"
	"errors"

	command "github.com/goliatone/go-command"
	"github.com/google/uuid"

	"github.com/taskboardhq/taskboard/pkg/domain"
	"github.com/taskboardhq/taskboard/pkg/interfaces/logger"
	"github.com/taskboardhq/taskboard/pkg/notifications"
	"github.com/taskboardhq/taskboard/pkg/projects"
	"github.com/taskboardhq/taskboard/pkg/tasks"
)

// Catalog exposes go-command compatible handlers for host transports.
type Catalog struct {
	CreateProject        command.Commander[projects.CreateInput]
	DeleteProject        command.Commander[ProjectDelete]
	CreateTask           command.Commander[tasks.CreateInput]
	UpdateTaskStatus     command.Commander[TaskStatusUpdate]
	CreateNotification   command.Commander[notifications.CreateInput]
	MarkNotificationRead command.Commander[NotificationMarkRead]
}

type projectService interface {
	Create(ctx context.Context, input projects.CreateInput) (*domain.Project, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type taskService interface {
	Create(ctx context.Context, input tasks.CreateInput) (*domain.Task, error)
	Update(ctx context.Context, id uuid.UUID, input tasks.UpdateInput) (*domain.Task, error)
}

type notificationService interface {
	Create(ctx context.Context, input notifications.CreateInput) (*domain.Notification, error)
	MarkRead(ctx context.Context, id uuid.UUID) (*domain.Notification, error)
}

// Dependencies wires the domain services into the command catalog.
type Dependencies struct {
	Projects      projectService
	Tasks         taskService
	Notifications notificationService
	Logger        logger.Logger
}

// NewCatalog builds the command catalog using the supplied dependencies.
func NewCatalog(deps Dependencies) (*Catalog, error) {
	if deps.Projects == nil {
		return nil, errors.New("commands: project service is required")
	}
	if deps.Tasks == nil {
		return nil, errors.New("commands: task service is required")
	}
	if deps.Notifications == nil {
		return nil, errors.New("commands: notification service is required")
	}
	if deps.Logger == nil {
		deps.Logger = &logger.Nop{}
	}

	return &Catalog{
		CreateProject:        projectCreateCommand{svc: deps.Projects},
		DeleteProject:        projectDeleteCommand{svc: deps.Projects},
		CreateTask:           taskCreateCommand{svc: deps.Tasks},
		UpdateTaskStatus:     taskStatusUpdateCommand{svc: deps.Tasks},
		CreateNotification:   notificationCreateCommand{svc: deps.Notifications},
		MarkNotificationRead: notificationMarkReadCommand{svc: deps.Notifications},
	}, nil
}

type projectCreateCommand struct {
	svc projectService
}

func (c projectCreateCommand) Execute(ctx context.Context, msg projects.CreateInput) error {
	_, err := c.svc.Create(ctx, msg)
	return err
}

// ProjectDelete identifies the project to remove.
type ProjectDelete struct {
	ID uuid.UUID `json:"id"`
}

type projectDeleteCommand struct {
	svc projectService
}

func (c projectDeleteCommand) Execute(ctx context.Context, msg ProjectDelete) error {
	if msg.ID == uuid.Nil {
		return errors.New("commands: project id is required")
	}
	return c.svc.Delete(ctx, msg.ID)
}

type taskCreateCommand struct {
	svc taskService
}

func (c taskCreateCommand) Execute(ctx context.Context, msg tasks.CreateInput) error {
	_, err := c.svc.Create(ctx, msg)
	return err
}

// TaskStatusUpdate moves a task to a new status.
type TaskStatusUpdate struct {
	ID     uuid.UUID `json:"id"`
	Status string    `json:"status"`
}

type taskStatusUpdateCommand struct {
	svc taskService
}

func (c taskStatusUpdateCommand) Execute(ctx context.Context, msg TaskStatusUpdate) error {
	if msg.ID == uuid.Nil {
		return errors.New("commands: task id is required")
	}
	_, err := c.svc.Update(ctx, msg.ID, tasks.UpdateInput{Status: &msg.Status})
	return err
}

type notificationCreateCommand struct {
	svc notificationService
}

func (c notificationCreateCommand) Execute(ctx context.Context, msg notifications.CreateInput) error {
	_, err := c.svc.Create(ctx, msg)
	return err
}

// NotificationMarkRead flags a stored notification as read.
type NotificationMarkRead struct {
	ID uuid.UUID `json:"id"`
}

type notificationMarkReadCommand struct {
	svc notificationService
}

func (c notificationMarkReadCommand) Execute(ctx context.Context, msg NotificationMarkRead) error {
	if msg.ID == uuid.Nil {
		return errors.New("commands: notification id is required")
	}
	_, err := c.svc.MarkRead(ctx, msg.ID)
	return err
}
