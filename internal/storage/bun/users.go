package bunrepo

import (
	"context"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/taskboardhq/taskboard/pkg/domain"
	"github.com/taskboardhq/taskboard/pkg/interfaces/store"
)

type UserRepository struct {
	base baseRepository[domain.User]
}

func NewUserRepository(db *bun.DB) *UserRepository {
	handlers := repository.ModelHandlers[*domain.User]{
		NewRecord:          func() *domain.User { return &domain.User{} },
		GetID:              func(u *domain.User) uuid.UUID { return u.ID },
		SetID:              func(u *domain.User, id uuid.UUID) { u.ID = id },
		GetIdentifier:      func() string { return "id" },
		GetIdentifierValue: func(u *domain.User) string { return u.ID.String() },
	}
	return &UserRepository{
		base: newBaseRepository[domain.User](db, handlers, func(u *domain.User) *domain.RecordMeta { return &u.RecordMeta }),
	}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	if user.Role == "" {
		user.Role = domain.RoleUser
	}
	user.Active = true
	return r.base.create(ctx, user)
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	return r.base.update(ctx, user)
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.base.getByID(ctx, id, false)
}

func (r *UserRepository) List(ctx context.Context, opts store.ListOptions) (store.ListResult[domain.User], error) {
	return r.base.list(ctx, opts)
}

// SoftDelete deactivates the account in addition to stamping deleted_at, so
// active listings and deletion stay consistent.
func (r *UserRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	record, err := r.base.getByID(ctx, id, true)
	if err != nil {
		return err
	}
	record.Active = false
	if err := r.base.update(ctx, record); err != nil {
		return err
	}
	return r.base.softDelete(ctx, id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	record, err := r.base.repo.Get(ctx, withoutDeleted(), func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("email = ?", email)
	})
	if err != nil {
		return nil, mapError(err)
	}
	return record, nil
}

func (r *UserRepository) ListActive(ctx context.Context, opts store.ListOptions) (store.ListResult[domain.User], error) {
	return r.base.list(ctx, opts, withActive())
}
