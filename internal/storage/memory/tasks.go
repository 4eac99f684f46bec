package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/taskboardhq/taskboard/pkg/domain"
	"github.com/taskboardhq/taskboard/pkg/interfaces/store"
)

type TaskRepository struct {
	base baseMemoryRepo[domain.Task]
}

func NewTaskRepository() *TaskRepository {
	return &TaskRepository{
		base: newBaseMemoryRepo("task", func(t *domain.Task) *domain.RecordMeta { return &t.RecordMeta }),
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
	return r.base.list(ctx, opts, nil)
}

func (r *TaskRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.base.softDelete(ctx, id)
}

func (r *TaskRepository) ListByProject(ctx context.Context, projectID uuid.UUID, opts store.ListOptions) (store.ListResult[domain.Task], error) {
	return r.base.list(ctx, opts, func(t *domain.Task) bool {
		return t.ProjectID == projectID
	})
}

func (r *TaskRepository) SoftDeleteByProject(ctx context.Context, projectID uuid.UUID) error {
	res, err := r.base.list(ctx, store.ListOptions{}, func(t *domain.Task) bool {
		return t.ProjectID == projectID
	})
	if err != nil {
		return err
	}
	for _, task := range res.Items {
		if err := r.base.softDelete(ctx, task.ID); err != nil {
			return err
		}
	}
	return nil
}
