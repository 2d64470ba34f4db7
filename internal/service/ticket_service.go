package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/access"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/query"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

const commentPreviewLength = 120

// TicketService coordinates ticket workflows.
type TicketService struct {
	tickets    repository.TicketRepository
	categories repository.CategoryRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        repository.Clock
}

// TicketDependencies bundles collaborators for ticket service.
type TicketDependencies struct {
	TicketRepo   repository.TicketRepository
	CategoryRepo repository.CategoryRepository
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
	Clock        repository.Clock
}

// TicketCreateInput describes ticket creation payload. Status, owner and assignee are not
// caller-controlled and have no field here.
type TicketCreateInput struct {
	Subject     string
	Description string
	CategoryID  string
	Priority    domain.TicketPriority
	Attachments []string
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := deps.Clock
	if clock == nil {
		clock = func() time.Time { return time.Now().UTC() }
	}
	return &TicketService{
		tickets:    deps.TicketRepo,
		categories: deps.CategoryRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		now:        clock,
	}
}

// CreateTicket opens a ticket owned by the caller.
func (s *TicketService) CreateTicket(ctx context.Context, caller domain.Caller, input TicketCreateInput) (*domain.Ticket, error) {
	subject := strings.TrimSpace(input.Subject)
	if subject == "" {
		return nil, apperrors.NewInvalidField("subject", "subject is required")
	}
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, apperrors.NewInvalidField("description", "description is required")
	}
	categoryID := strings.TrimSpace(input.CategoryID)
	if categoryID == "" {
		return nil, apperrors.NewInvalidField("category", "category is required")
	}
	priority := input.Priority
	if priority == "" {
		priority = domain.TicketPriorityMedium
	}
	if !priority.Valid() {
		return nil, apperrors.NewInvalidField("priority", "priority must be one of Low, Medium, High")
	}

	if _, err := s.categories.GetByID(ctx, categoryID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("category", map[string]any{"id": categoryID})
		}
		return nil, err
	}

	ticket := &domain.Ticket{
		Subject:     subject,
		Description: description,
		CategoryID:  categoryID,
		Priority:    priority,
		Status:      domain.TicketStatusOpen,
		CreatedBy:   caller.ID,
		Attachments: append([]string(nil), input.Attachments...),
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Actor:    events.ActorFor(caller),
		Payload: events.TicketCreatedPayload{
			CategoryID: ticket.CategoryID,
			Priority:   ticket.Priority,
			Subject:    ticket.Subject,
		},
	})
	return ticket, nil
}

// GetTicket fetches a single ticket the caller may view.
func (s *TicketService) GetTicket(ctx context.Context, caller domain.Caller, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, ticketLookupError(ticketID, err)
	}
	if err := access.RequireView(caller, ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}

// ListTickets resolves the caller's candidate set for scope, then filters and sorts it.
func (s *TicketService) ListTickets(ctx context.Context, caller domain.Caller, scope access.Scope, spec query.Spec) ([]domain.Ticket, error) {
	predicate, err := access.CandidatePredicate(caller, scope)
	if err != nil {
		return nil, err
	}
	candidates, err := s.tickets.Query(ctx, predicate)
	if err != nil {
		return nil, err
	}
	return query.Apply(candidates, spec), nil
}

// ListOwnTickets lists tickets the caller created.
func (s *TicketService) ListOwnTickets(ctx context.Context, caller domain.Caller, spec query.Spec) ([]domain.Ticket, error) {
	return s.ListTickets(ctx, caller, access.ScopeOwn, spec)
}

// ListAgentTickets lists the agent's queue, or every ticket when allView is set.
func (s *TicketService) ListAgentTickets(ctx context.Context, caller domain.Caller, allView bool, spec query.Spec) ([]domain.Ticket, error) {
	scope := access.ScopeAgentQueue
	if allView {
		scope = access.ScopeAgentAll
	}
	return s.ListTickets(ctx, caller, scope, spec)
}

// ListAllTickets is the admin listing.
func (s *TicketService) ListAllTickets(ctx context.Context, caller domain.Caller, spec query.Spec) ([]domain.Ticket, error) {
	return s.ListTickets(ctx, caller, access.ScopeAll, spec)
}

// SetStatus moves a ticket to any of the four statuses. The first agent to move an unassigned
// ticket to In Progress becomes its assignee in the same update.
func (s *TicketService) SetStatus(ctx context.Context, caller domain.Caller, ticketID string, status domain.TicketStatus) (*domain.Ticket, error) {
	if err := access.RequireStatusChange(caller); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, apperrors.NewInvalidField("status", "status must be one of Open, In Progress, Resolved, Closed")
	}

	var (
		oldStatus domain.TicketStatus
		assigned  bool
	)
	ticket, err := s.tickets.Update(ctx, ticketID, func(t *domain.Ticket) error {
		if err := access.RequireView(caller, t); err != nil {
			return err
		}
		oldStatus = t.Status
		t.Status = status
		if caller.Role == domain.RoleAgent && t.AssignedTo == nil && status == domain.TicketStatusInProgress {
			assignee := caller.ID
			t.AssignedTo = &assignee
			assigned = true
		}
		return nil
	})
	if err != nil {
		return nil, ticketLookupError(ticketID, err)
	}

	s.logger.Info("ticket status changed",
		zap.String("ticket_id", ticket.ID),
		zap.String("from", string(oldStatus)),
		zap.String("to", string(status)),
		zap.String("actor_id", caller.ID))
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: ticket.ID,
		Actor:    events.ActorFor(caller),
		Payload:  events.TicketStatusChangedPayload{OldStatus: oldStatus, NewStatus: status},
	})
	if assigned {
		s.logger.Info("ticket auto-assigned", zap.String("ticket_id", ticket.ID), zap.String("assignee_id", caller.ID))
		s.publishEvent(ctx, events.Event{
			Type:     events.EventTicketAssigned,
			TicketID: ticket.ID,
			Actor:    events.ActorFor(caller),
			Payload:  events.TicketAssignedPayload{AssigneeID: caller.ID},
		})
	}
	return ticket, nil
}

// AddComment appends a comment and returns it.
func (s *TicketService) AddComment(ctx context.Context, caller domain.Caller, ticketID, content string) (*domain.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.NewInvalidField("content", "comment text is required")
	}

	var comment domain.Comment
	ticket, err := s.tickets.Update(ctx, ticketID, func(t *domain.Ticket) error {
		if err := access.RequireView(caller, t); err != nil {
			return err
		}
		comment = domain.Comment{
			ID:        t.NextCommentID(),
			UserID:    caller.ID,
			Content:   content,
			CreatedAt: s.now(),
		}
		t.Comments = append(t.Comments, comment)
		return nil
	})
	if err != nil {
		return nil, ticketLookupError(ticketID, err)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCommentAdded,
		TicketID: ticket.ID,
		Actor:    events.ActorFor(caller),
		Payload: events.TicketCommentAddedPayload{
			CommentID:      comment.ID,
			AuthorID:       caller.ID,
			ContentPreview: stringPreview(content, commentPreviewLength),
		},
	})
	return &comment, nil
}

// CastVote increments the up or down tally by one. Repeat votes by the same caller all count.
func (s *TicketService) CastVote(ctx context.Context, caller domain.Caller, ticketID string, voteType domain.VoteType) (*domain.Ticket, error) {
	if !voteType.Valid() {
		return nil, apperrors.NewInvalidField("vote_type", "vote type must be up or down")
	}

	ticket, err := s.tickets.Update(ctx, ticketID, func(t *domain.Ticket) error {
		if err := access.RequireView(caller, t); err != nil {
			return err
		}
		if voteType == domain.VoteUp {
			t.Votes.Up++
		} else {
			t.Votes.Down++
		}
		return nil
	})
	if err != nil {
		return nil, ticketLookupError(ticketID, err)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketVoted,
		TicketID: ticket.ID,
		Actor:    events.ActorFor(caller),
		Payload:  events.TicketVotedPayload{VoteType: voteType, Up: ticket.Votes.Up, Down: ticket.Votes.Down},
	})
	return ticket, nil
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func ticketLookupError(ticketID string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewNotFound("ticket", map[string]any{"id": ticketID})
	}
	return err
}

// stringPreview shortens body to at most max bytes, cutting on a rune boundary.
func stringPreview(body string, max int) string {
	body = strings.TrimSpace(body)
	if len(body) <= max {
		return body
	}
	suffix := "..."
	if max <= len(suffix) {
		suffix = ""
	}
	cut := max - len(suffix)
	for cut > 0 && !utf8.RuneStart(body[cut]) {
		cut--
	}
	return body[:cut] + suffix
}
