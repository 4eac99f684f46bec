package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/taskboardhq/taskboard/pkg/domain"
	"github.com/taskboardhq/taskboard/pkg/interfaces/store"
)

type ProjectRepository struct {
	base baseMemoryRepo[domain.Project]
}

func NewProjectRepository() *ProjectRepository {
	return &ProjectRepository{
		base: newBaseMemoryRepo("project", func(p *domain.Project) *domain.RecordMeta { return &p.RecordMeta }),
	}
}

func (r *ProjectRepository) Create(ctx context.Context, project *domain.Project) error {
	if project.Status == "" {
		project.Status = domain.ProjectStatusPlanned
	}
	return r.base.create(ctx, project)
}

func (r *ProjectRepository) Update(ctx context.Context, project *domain.Project) error {
	return r.base.update(ctx, project)
}

func (r *ProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	return r.base.getByID(ctx, id, false)
}

func (r *ProjectRepository) List(ctx context.Context, opts store.ListOptions) (store.ListResult[domain.Project], error) {
	return r.base.list(ctx, opts, nil)
}

func (r *ProjectRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.base.softDelete(ctx, id)
}
