package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/taskboardhq/taskboard/pkg/domain"
	"github.com/taskboardhq/taskboard/pkg/interfaces/store"
)

type NotificationRepository struct {
	base baseMemoryRepo[domain.Notification]
}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{
		base: newBaseMemoryRepo("notification", func(n *domain.Notification) *domain.RecordMeta { return &n.RecordMeta }),
	}
}

func (r *NotificationRepository) Create(ctx context.Context, note *domain.Notification) error {
	if note.Severity == "" {
		note.Severity = domain.SeverityInfo
	}
	return r.base.create(ctx, note)
}

func (r *NotificationRepository) Update(ctx context.Context, note *domain.Notification) error {
	return r.base.update(ctx, note)
}

func (r *NotificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error) {
	return r.base.getByID(ctx, id, false)
}

func (r *NotificationRepository) List(ctx context.Context, opts store.ListOptions) (store.ListResult[domain.Notification], error) {
	return r.base.list(ctx, opts, nil)
}

func (r *NotificationRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.base.softDelete(ctx, id)
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID string, opts store.ListOptions) (store.ListResult[domain.Notification], error) {
	return r.base.list(ctx, opts, func(n *domain.Notification) bool {
		return n.UserID == userID
	})
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id uuid.UUID) (*domain.Notification, error) {
	record, err := r.base.getByID(ctx, id, false)
	if err != nil {
		return nil, err
	}
	if record.Read {
		return record, nil
	}
	record.Read = true
	if err := r.base.update(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}
