package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
)

type seedUser struct {
	name     string
	email    string
	password string
	role     domain.Role
}

var defaultUsers = []seedUser{
	{name: "Test User", email: "user@example.com", password: "user123", role: domain.RoleUser},
	{name: "Test Agent", email: "agent@example.com", password: "agent123", role: domain.RoleAgent},
	{name: "Admin User", email: "admin@example.com", password: "admin123", role: domain.RoleAdmin},
}

var defaultCategories = []domain.Category{
	{Name: "Hardware", Description: "Issues related to physical equipment"},
	{Name: "Software", Description: "Issues related to applications and programs"},
	{Name: "Network", Description: "Issues related to connectivity and network services"},
	{Name: "Email", Description: "Issues related to email services"},
	{Name: "Account", Description: "Issues related to user accounts and permissions"},
}

// Seeder loads the default users and categories. Records that already exist are left alone.
type Seeder struct {
	users      repository.UserRepository
	categories repository.CategoryRepository
	bcryptCost int
	logger     *zap.Logger
}

// NewSeeder builds a seeder.
func NewSeeder(users repository.UserRepository, categories repository.CategoryRepository, bcryptCost int, logger *zap.Logger) *Seeder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Seeder{users: users, categories: categories, bcryptCost: bcryptCost, logger: logger}
}

// Run seeds users, then categories.
func (s *Seeder) Run(ctx context.Context) error {
	created := 0
	for _, def := range defaultUsers {
		if _, err := s.users.GetByEmail(ctx, def.email); err == nil {
			continue
		} else if !errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("lookup user %s: %w", def.email, err)
		}
		hash, err := auth.HashPassword(def.password, s.bcryptCost)
		if err != nil {
			return fmt.Errorf("hash password for %s: %w", def.email, err)
		}
		user := &domain.User{Name: def.name, Email: def.email, PasswordHash: hash, Role: def.role}
		if err := s.users.Create(ctx, user); err != nil && !errors.Is(err, repository.ErrDuplicate) {
			return fmt.Errorf("create user %s: %w", def.email, err)
		}
		created++
	}
	s.logger.Info("default users seeded", zap.Int("created", created))

	created = 0
	for _, def := range defaultCategories {
		category := def
		if err := s.categories.Create(ctx, &category); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				continue
			}
			return fmt.Errorf("create category %s: %w", def.Name, err)
		}
		created++
	}
	s.logger.Info("default categories seeded", zap.Int("created", created))
	return nil
}
