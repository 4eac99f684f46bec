package users

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

// CreateInput captures the fields accepted when registering an account.
type CreateInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// UpdateInput applies a partial update; nil fields are left untouched.
type UpdateInput struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Role  *string `json:"role"`
}

// Dependencies wires the repository into the service.
type Dependencies struct {
	Repository store.UserRepository
	Logger     logger.Logger
}

// Service manages tracker accounts. Deleting an account deactivates it so
// historical assignments keep resolving.
type Service struct {
	repo   store.UserRepository
	logger logger.Logger
}

var errRepositoryRequired = errors.New("users: repository is required")

// New constructs the user service.
func New(deps Dependencies) (*Service, error) {
	if deps.Repository == nil {
		return nil, errRepositoryRequired
	}
	if deps.Logger == nil {
		deps.Logger = &logger.Nop{}
	}
	return &Service{repo: deps.Repository, logger: deps.Logger}, nil
}

// Create validates and registers an account. A reused email fails with
// store.ErrDuplicate.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.User, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("users: name is required: %w", store.ErrValidation)
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, fmt.Errorf("users: email is required: %w", store.ErrValidation)
	}
	if input.Role != "" && !domain.ValidRole(input.Role) {
		return nil, fmt.Errorf("users: role %q is not valid: %w", input.Role, store.ErrValidation)
	}
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("users: email %s already registered: %w", email, store.ErrDuplicate)
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	user := &domain.User{
		Name:  strings.TrimSpace(input.Name),
		Email: email,
		Role:  input.Role,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Update applies a partial update.
func (s *Service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, fmt.Errorf("users: name cannot be empty: %w", store.ErrValidation)
		}
		user.Name = strings.TrimSpace(*input.Name)
	}
	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		if email == "" {
			return nil, fmt.Errorf("users: email cannot be empty: %w", store.ErrValidation)
		}
		if email != user.Email {
			if existing, err := s.repo.GetByEmail(ctx, email); err == nil && existing.ID != user.ID {
				return nil, fmt.Errorf("users: email %s already registered: %w", email, store.ErrDuplicate)
			} else if err != nil && !errors.Is(err, store.ErrNotFound) {
				return nil, err
			}
			user.Email = email
		}
	}
	if input.Role != nil {
		if !domain.ValidRole(*input.Role) {
			return nil, fmt.Errorf("users: role %q is not valid: %w", *input.Role, store.ErrValidation)
		}
		user.Role = *input.Role
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Get returns a single account.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.repo.GetByID(ctx, id)
}

// ListActive returns active accounts, newest first.
func (s *Service) ListActive(ctx context.Context, opts store.ListOptions) (store.ListResult[domain.User], error) {
	return s.repo.ListActive(ctx, opts)
}

// Delete deactivates the account.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.SoftDelete(ctx, id)
}
