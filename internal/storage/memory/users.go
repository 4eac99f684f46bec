package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/taskboardhq/taskboard/pkg/domain"
	"github.com/taskboardhq/taskboard/pkg/interfaces/store"
)

type UserRepository struct {
	base baseMemoryRepo[domain.User]
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		base: newBaseMemoryRepo("user", func(u *domain.User) *domain.RecordMeta { return &u.RecordMeta }),
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
	return r.base.list(ctx, opts, nil)
}

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
	res, err := r.base.list(ctx, store.ListOptions{}, func(u *domain.User) bool {
		return u.Email == email
	})
	if err != nil {
		return nil, err
	}
	if len(res.Items) == 0 {
		return nil, store.ErrNotFound
	}
	user := res.Items[0]
	return &user, nil
}

func (r *UserRepository) ListActive(ctx context.Context, opts store.ListOptions) (store.ListResult[domain.User], error) {
	return r.base.list(ctx, opts, func(u *domain.User) bool {
		return u.Active
	})
}
