package bunrepo

import (
	"context"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/taskboardhq/taskboard/pkg/domain"
	"github.com/taskboardhq/taskboard/pkg/interfaces/store"
)

type NotificationRepository struct {
	base baseRepository[domain.Notification]
}

func NewNotificationRepository(db *bun.DB) *NotificationRepository {
	handlers := repository.ModelHandlers[*domain.Notification]{
		NewRecord:          func() *domain.Notification { return &domain.Notification{} },
		GetID:              func(n *domain.Notification) uuid.UUID { return n.ID },
		SetID:              func(n *domain.Notification, id uuid.UUID) { n.ID = id },
		GetIdentifier:      func() string { return "id" },
		GetIdentifierValue: func(n *domain.Notification) string { return n.ID.String() },
	}
	return &NotificationRepository{
		base: newBaseRepository[domain.Notification](db, handlers, func(n *domain.Notification) *domain.RecordMeta { return &n.RecordMeta }),
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
	return r.base.list(ctx, opts)
}

func (r *NotificationRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.base.softDelete(ctx, id)
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID string, opts store.ListOptions) (store.ListResult[domain.Notification], error) {
	return r.base.list(ctx, opts, withRecipient(userID))
}

// MarkRead flags the record as read. Re-reading an already read record is a
// no-op that still returns the record.
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
