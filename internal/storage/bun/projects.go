package bunrepo

import (
	"context"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/taskboardhq/taskboard/pkg/domain"
	"github.com/taskboardhq/taskboard/pkg/interfaces/store"
)

type ProjectRepository struct {
	base baseRepository[domain.Project]
}

func NewProjectRepository(db *bun.DB) *ProjectRepository {
	handlers := repository.ModelHandlers[*domain.Project]{
		NewRecord:          func() *domain.Project { return &domain.Project{} },
		GetID:              func(p *domain.Project) uuid.UUID { return p.ID },
		SetID:              func(p *domain.Project, id uuid.UUID) { p.ID = id },
		GetIdentifier:      func() string { return "id" },
		GetIdentifierValue: func(p *domain.Project) string { return p.ID.String() },
	}
	return &ProjectRepository{
		base: newBaseRepository[domain.Project](db, handlers, func(p *domain.Project) *domain.RecordMeta { return &p.RecordMeta }),
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
	return r.base.list(ctx, opts)
}

func (r *ProjectRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.base.softDelete(ctx, id)
}
