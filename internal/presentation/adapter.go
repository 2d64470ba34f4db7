// Package presentation resolves the user and category references on tickets into display data.
package presentation

import (
	"context"
	"errors"
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
)

// Placeholder names shown when a reference no longer resolves.
const (
	DeletedUserName     = "[deleted user]"
	DeletedCategoryName = "[deleted category]"
)

// UserRef is the display form of a user reference.
type UserRef struct {
	ID      string      `json:"id"`
	Name    string      `json:"name"`
	Email   string      `json:"email,omitempty"`
	Role    domain.Role `json:"role,omitempty"`
	Deleted bool        `json:"deleted,omitempty"`
}

// CategoryRef is the display form of a category reference.
type CategoryRef struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Deleted bool   `json:"deleted,omitempty"`
}

// CommentView is a comment with its author resolved.
type CommentView struct {
	ID        int       `json:"id"`
	User      UserRef   `json:"user"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// TicketView is a ticket with every reference resolved.
type TicketView struct {
	ID          string                `json:"id"`
	Subject     string                `json:"subject"`
	Description string                `json:"description"`
	Category    CategoryRef           `json:"category"`
	Priority    domain.TicketPriority `json:"priority"`
	Status      domain.TicketStatus   `json:"status"`
	CreatedBy   UserRef               `json:"created_by"`
	AssignedTo  *UserRef              `json:"assigned_to"`
	Votes       domain.Votes          `json:"votes"`
	Attachments []string              `json:"attachments"`
	Comments    []CommentView         `json:"comments"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

// Adapter builds views from stored tickets.
type Adapter struct {
	users      repository.UserRepository
	categories repository.CategoryRepository
}

// NewAdapter builds an adapter over the user and category directories.
func NewAdapter(users repository.UserRepository, categories repository.CategoryRepository) *Adapter {
	return &Adapter{users: users, categories: categories}
}

// Ticket renders a single ticket.
func (a *Adapter) Ticket(ctx context.Context, ticket *domain.Ticket) (*TicketView, error) {
	view, err := a.newResolver().ticket(ctx, ticket)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// Tickets renders a listing, resolving each distinct reference once.
func (a *Adapter) Tickets(ctx context.Context, tickets []domain.Ticket) ([]TicketView, error) {
	r := a.newResolver()
	views := make([]TicketView, 0, len(tickets))
	for i := range tickets {
		view, err := r.ticket(ctx, &tickets[i])
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// Comment renders a single comment.
func (a *Adapter) Comment(ctx context.Context, comment *domain.Comment) (*CommentView, error) {
	view, err := a.newResolver().comment(ctx, *comment)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// User renders a user record.
func User(u *domain.User) UserRef {
	return UserRef{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

type resolver struct {
	adapter    *Adapter
	users      map[string]UserRef
	categories map[string]CategoryRef
}

func (a *Adapter) newResolver() *resolver {
	return &resolver{
		adapter:    a,
		users:      make(map[string]UserRef),
		categories: make(map[string]CategoryRef),
	}
}

func (r *resolver) ticket(ctx context.Context, t *domain.Ticket) (TicketView, error) {
	category, err := r.category(ctx, t.CategoryID)
	if err != nil {
		return TicketView{}, err
	}
	createdBy, err := r.user(ctx, t.CreatedBy)
	if err != nil {
		return TicketView{}, err
	}
	var assignedTo *UserRef
	if t.AssignedTo != nil {
		ref, err := r.user(ctx, *t.AssignedTo)
		if err != nil {
			return TicketView{}, err
		}
		assignedTo = &ref
	}

	comments := make([]CommentView, 0, len(t.Comments))
	for _, c := range t.Comments {
		view, err := r.comment(ctx, c)
		if err != nil {
			return TicketView{}, err
		}
		comments = append(comments, view)
	}
	attachments := t.Attachments
	if attachments == nil {
		attachments = []string{}
	}

	return TicketView{
		ID:          t.ID,
		Subject:     t.Subject,
		Description: t.Description,
		Category:    category,
		Priority:    t.Priority,
		Status:      t.Status,
		CreatedBy:   createdBy,
		AssignedTo:  assignedTo,
		Votes:       t.Votes,
		Attachments: attachments,
		Comments:    comments,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}, nil
}

func (r *resolver) comment(ctx context.Context, c domain.Comment) (CommentView, error) {
	author, err := r.user(ctx, c.UserID)
	if err != nil {
		return CommentView{}, err
	}
	return CommentView{ID: c.ID, User: author, Content: c.Content, CreatedAt: c.CreatedAt}, nil
}

// user resolves a user id. A dangling id yields a tombstone; any other failure is returned.
func (r *resolver) user(ctx context.Context, id string) (UserRef, error) {
	if ref, ok := r.users[id]; ok {
		return ref, nil
	}
	var ref UserRef
	u, err := r.adapter.users.GetByID(ctx, id)
	switch {
	case err == nil:
		ref = User(u)
	case errors.Is(err, repository.ErrNotFound):
		ref = UserRef{ID: id, Name: DeletedUserName, Deleted: true}
	default:
		return UserRef{}, err
	}
	r.users[id] = ref
	return ref, nil
}

func (r *resolver) category(ctx context.Context, id string) (CategoryRef, error) {
	if ref, ok := r.categories[id]; ok {
		return ref, nil
	}
	var ref CategoryRef
	c, err := r.adapter.categories.GetByID(ctx, id)
	switch {
	case err == nil:
		ref = CategoryRef{ID: c.ID, Name: c.Name}
	case errors.Is(err, repository.ErrNotFound):
		ref = CategoryRef{ID: id, Name: DeletedCategoryName, Deleted: true}
	default:
		return CategoryRef{}, err
	}
	r.categories[id] = ref
	return ref, nil
}
