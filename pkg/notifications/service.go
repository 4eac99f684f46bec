package notifications

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/taskboardhq/taskboard/pkg/domain"
	"github.com/taskboardhq/taskboard/pkg/interfaces/logger"
	"github.com/taskboardhq/taskboard/pkg/interfaces/store"
)

// CreateInput captures the fields required to persist a notification.
type CreateInput struct {
	Title    string `json:"title"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
	UserID   string `json:"user_id"`
}

// Dependencies wires the repository into the service.
type Dependencies struct {
	Repository store.NotificationRepository
	Logger     logger.Logger
}

// Service manages durable notification records: create, list, mark read.
// Records are immutable after creation aside from the read flag; the core
// never deletes them.
type Service struct {
	repo   store.NotificationRepository
	logger logger.Logger
}

var errRepositoryRequired = errors.New("notifications: repository is required")

// NewService constructs the notification store service.
func NewService(deps Dependencies) (*Service, error) {
	if deps.Repository == nil {
		return nil, errRepositoryRequired
	}
	if deps.Logger == nil {
		deps.Logger = &logger.Nop{}
	}
	return &Service{repo: deps.Repository, logger: deps.Logger}, nil
}

// Create validates and inserts a record. Validation failures surface before
// any I/O.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.Notification, error) {
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}
	record := &domain.Notification{
		Title:    strings.TrimSpace(input.Title),
		Message:  input.Message,
		Severity: input.Severity,
		UserID:   strings.TrimSpace(input.UserID),
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, err
	}
	s.logger.Debug("notification stored",
		logger.Field{Key: "user_id", Value: record.UserID},
		logger.Field{Key: "severity", Value: record.Severity},
	)
	return record, nil
}

// ListAll returns every record, most recent first.
func (s *Service) ListAll(ctx context.Context, opts store.ListOptions) (store.ListResult[domain.Notification], error) {
	return s.repo.List(ctx, opts)
}

// ListByUser returns a recipient's records, most recent first.
func (s *Service) ListByUser(ctx context.Context, userID string, opts store.ListOptions) (store.ListResult[domain.Notification], error) {
	return s.repo.ListByUser(ctx, strings.TrimSpace(userID), opts)
}

// MarkRead flags a record as read. Calling it again on an already-read
// record is a no-op; an unknown id returns store.ErrNotFound.
func (s *Service) MarkRead(ctx context.Context, id uuid.UUID) (*domain.Notification, error) {
	return s.repo.MarkRead(ctx, id)
}

func validateCreateInput(input CreateInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return fmt.Errorf("notifications: title is required: %w", store.ErrValidation)
	}
	if strings.TrimSpace(input.Message) == "" {
		return fmt.Errorf("notifications: message is required: %w", store.ErrValidation)
	}
	if !domain.ValidSeverity(input.Severity) {
		return fmt.Errorf("notifications: severity %q is not valid: %w", input.Severity, store.ErrValidation)
	}
	if strings.TrimSpace(input.UserID) == "" {
		return fmt.Errorf("notifications: user_id is required: %w", store.ErrValidation)
	}
	return nil
}
