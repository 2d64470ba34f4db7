package service

import (
	"context"
	"errors"
	"strings"

	"github.com/spec-kit/helpdesk-service/internal/access"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// UserService manages the user directory.
type UserService struct {
	users repository.UserRepository
}

// NewUserService builds the service.
func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users}
}

// UserUpdateInput holds optional profile changes. Role is honored for admins only.
type UserUpdateInput struct {
	Name  *string
	Email *string
	Role  *domain.Role
}

// List returns every user. Admin only.
func (s *UserService) List(ctx context.Context, caller domain.Caller) ([]domain.User, error) {
	if err := access.RequireAdmin(caller); err != nil {
		return nil, err
	}
	return s.users.List(ctx)
}

// Get returns a profile to its owner or an admin.
func (s *UserService) Get(ctx context.Context, caller domain.Caller, id string) (*domain.User, error) {
	if err := requireSelfOrAdmin(caller, id); err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, userLookupError(id, err)
	}
	return user, nil
}

// Update edits a profile. Only admins may change a role.
func (s *UserService) Update(ctx context.Context, caller domain.Caller, id string, input UserUpdateInput) (*domain.User, error) {
	if err := requireSelfOrAdmin(caller, id); err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, userLookupError(id, err)
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperrors.NewInvalidField("name", "name must not be empty")
		}
		user.Name = name
	}
	if input.Email != nil {
		email := normalizeEmail(*input.Email)
		if err := validateEmail(email); err != nil {
			return nil, err
		}
		user.Email = email
	}
	if input.Role != nil {
		if err := access.RequireAdmin(caller); err != nil {
			return nil, apperrors.NewForbidden("only admins can change roles")
		}
		if !input.Role.Valid() {
			return nil, apperrors.NewInvalidField("role", "role must be one of user, agent, admin")
		}
		user.Role = *input.Role
	}

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewConflict("email already registered", map[string]any{"field": "email"})
		}
		return nil, userLookupError(id, err)
	}
	return user, nil
}

// Delete removes a user. Tickets and comments keep their dangling reference. Admin only.
func (s *UserService) Delete(ctx context.Context, caller domain.Caller, id string) error {
	if err := access.RequireAdmin(caller); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return userLookupError(id, err)
	}
	return nil
}

func requireSelfOrAdmin(caller domain.Caller, id string) error {
	if caller.ID == id || caller.Role == domain.RoleAdmin {
		return nil
	}
	return apperrors.NewForbidden("not allowed to access this user")
}

func userLookupError(id string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewNotFound("user", map[string]any{"id": id})
	}
	return err
}
