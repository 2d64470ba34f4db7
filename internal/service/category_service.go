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

// CategoryService manages the category directory.
type CategoryService struct {
	categories repository.CategoryRepository
}

// NewCategoryService builds the service.
func NewCategoryService(categories repository.CategoryRepository) *CategoryService {
	return &CategoryService{categories: categories}
}

// CategoryInput carries create/update fields.
type CategoryInput struct {
	Name        string
	Description string
}

// List returns every category ordered by name.
func (s *CategoryService) List(ctx context.Context) ([]domain.Category, error) {
	return s.categories.List(ctx)
}

// Get fetches a category by id.
func (s *CategoryService) Get(ctx context.Context, id string) (*domain.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, categoryLookupError(id, err)
	}
	return category, nil
}

// Create adds a category. Admin only.
func (s *CategoryService) Create(ctx context.Context, caller domain.Caller, input CategoryInput) (*domain.Category, error) {
	if err := access.RequireAdmin(caller); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewInvalidField("name", "name is required")
	}
	category := &domain.Category{Name: name, Description: strings.TrimSpace(input.Description)}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, categoryWriteError(name, err)
	}
	return category, nil
}

// Update renames or re-describes a category. Admin only.
func (s *CategoryService) Update(ctx context.Context, caller domain.Caller, id string, input CategoryInput) (*domain.Category, error) {
	if err := access.RequireAdmin(caller); err != nil {
		return nil, err
	}
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, categoryLookupError(id, err)
	}
	if name := strings.TrimSpace(input.Name); name != "" {
		category.Name = name
	}
	if description := strings.TrimSpace(input.Description); description != "" {
		category.Description = description
	}
	if err := s.categories.Update(ctx, category); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, categoryLookupError(id, err)
		}
		return nil, categoryWriteError(category.Name, err)
	}
	return category, nil
}

// Delete removes a category. Tickets keep their dangling reference. Admin only.
func (s *CategoryService) Delete(ctx context.Context, caller domain.Caller, id string) error {
	if err := access.RequireAdmin(caller); err != nil {
		return err
	}
	if err := s.categories.Delete(ctx, id); err != nil {
		return categoryLookupError(id, err)
	}
	return nil
}

func categoryLookupError(id string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewNotFound("category", map[string]any{"id": id})
	}
	return err
}

func categoryWriteError(name string, err error) error {
	if errors.Is(err, repository.ErrDuplicate) {
		return apperrors.NewConflict("category already exists", map[string]any{"name": name})
	}
	return err
}
