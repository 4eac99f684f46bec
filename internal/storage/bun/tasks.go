package bunrepo

import (
	"context"
	"time"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/taskboardhq/taskboard/pkg/domain"
	"github.com/taskboardhq/taskboard/pkg/interfaces/store"
)

type TaskRepository struct {
	base baseRepository[domain.Task]
}

func NewTaskRepository(db *bun.DB) *TaskRepository {
	handlers := repository.ModelHandlers[*domain.Task]{
		NewRecord:          func() *domain.Task { return &domain.Task{} },
		GetID:              func(t *domain.Task) uuid.UUID { return t.ID },
		SetID:              func(t *domain.Task, id uuid.UUID) { t.ID = id },
		GetIdentifier:      func() string { return "id" },
		GetIdentifierValue: func(t *domain.Task) string { return t.ID.String() },
	}
	return &TaskRepository{
		base: newBaseRepository[domain.Task](db, handlers, func(t *domain.Task) *domain.RecordMeta { return &t.RecordMeta }),
	}
}

func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) error {
	if task.Status == "" {
		task.Status = domain.TaskStatusPending
	}
	if task.Priority == "" {
		task.Priority = domain.PriorityMedium
	}
	return r.base.create(ctx, task)
}

func (r *TaskRepository) Update(ctx context.Context, task *domain.Task) error {
	return r.base.update(ctx, task)
}

func (r *TaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	return r.base.getByID(ctx, id, false)
}

func (r *TaskRepository) List(ctx context.Context, opts store.ListOptions) (store.ListResult[domain.Task], error) {
	return r.base.list(ctx, opts)
}

func (r *TaskRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.base.softDelete(ctx, id)
}

func (r *TaskRepository) ListByProject(ctx context.Context, projectID uuid.UUID, opts store.ListOptions) (store.ListResult[domain.Task], error) {
	return r.base.list(ctx, opts, withProject(projectID))
}

// SoftDeleteByProject cascades a project deletion to its tasks.
func (r *TaskRepository) SoftDeleteByProject(ctx context.Context, projectID uuid.UUID) error {
	now := time.Now().UTC()
	_, err := r.base.db.NewUpdate().
		Model((*domain.Task)(nil)).
		Set("deleted_at = ?", now).
		Set("updated_at = ?", now).
		Where("project_id = ?", projectID).
		Where("deleted_at IS NULL").
		Exec(ctx)
	return mapError(err)
}
