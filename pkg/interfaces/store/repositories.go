package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/taskboardhq/taskboard/pkg/domain"
)

// ErrNotFound is returned when a record cannot be located.
var ErrNotFound = errors.New("store: not found")

// ErrValidation flags rejected input before any I/O takes place.
var ErrValidation = errors.New("store: validation failed")

// ErrDuplicate is returned when a uniqueness constraint would be violated.
var ErrDuplicate = errors.New("store: duplicate record")

// ListOptions capture pagination and filtering knobs common to repositories.
type ListOptions struct {
	Limit              int
	Offset             int
	Since              time.Time
	Until              time.Time
	IncludeSoftDeleted bool
}

// ListResult bundles records and totals.
type ListResult[T any] struct {
	Items []T
	Total int
}

// Repository defines base CRUD helpers reused by entity-specific interfaces.
type Repository[T any] interface {
	Create(ctx context.Context, record *T) error
	Update(ctx context.Context, record *T) error
	GetByID(ctx context.Context, id uuid.UUID) (*T, error)
	List(ctx context.Context, opts ListOptions) (ListResult[T], error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type ProjectRepository interface {
	Repository[domain.Project]
}

type TaskRepository interface {
	Repository[domain.Task]
	ListByProject(ctx context.Context, projectID uuid.UUID, opts ListOptions) (ListResult[domain.Task], error)
	SoftDeleteByProject(ctx context.Context, projectID uuid.UUID) error
}

type UserRepository interface {
	Repository[domain.User]
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ListActive(ctx context.Context, opts ListOptions) (ListResult[domain.User], error)
}

type NotificationRepository interface {
	Repository[domain.Notification]
	ListByUser(ctx context.Context, userID string, opts ListOptions) (ListResult[domain.Notification], error)
	MarkRead(ctx context.Context, id uuid.UUID) (*domain.Notification, error)
}

// Provider bundles the repositories the application composes at startup.
type Provider interface {
	Projects() ProjectRepository
	Tasks() TaskRepository
	Users() UserRepository
	Notifications() NotificationRepository
}
