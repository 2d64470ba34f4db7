// Package access decides which tickets a caller may see and what they may do with them.
package access

import (
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// Scope names a listing view.
type Scope string

const (
	// ScopeOwn lists tickets the caller created.
	ScopeOwn Scope = "own"
	// ScopeAgentQueue lists tickets assigned to the calling agent. Admins see everything.
	ScopeAgentQueue Scope = "agent_queue"
	// ScopeAgentAll is the agent-wide view over every ticket.
	ScopeAgentAll Scope = "agent_all"
	// ScopeAll is the admin listing.
	ScopeAll Scope = "all"
)

// CandidatePredicate returns the base candidate set for a listing, or Forbidden when the
// caller lacks the capability for the requested scope.
func CandidatePredicate(caller domain.Caller, scope Scope) (repository.TicketPredicate, error) {
	switch scope {
	case ScopeOwn:
		id := caller.ID
		return repository.TicketPredicate{CreatedBy: &id}, nil
	case ScopeAgentQueue, ScopeAgentAll:
		if !caller.Role.IsStaff() {
			return repository.TicketPredicate{}, apperrors.NewForbidden("agent or admin role required")
		}
		if caller.Role == domain.RoleAgent && scope == ScopeAgentQueue {
			id := caller.ID
			return repository.TicketPredicate{AssignedTo: &id}, nil
		}
		return repository.TicketPredicate{}, nil
	case ScopeAll:
		if caller.Role != domain.RoleAdmin {
			return repository.TicketPredicate{}, apperrors.NewForbidden("admin role required")
		}
		return repository.TicketPredicate{}, nil
	}
	return repository.TicketPredicate{}, apperrors.NewInvalidField("scope", "unknown listing scope")
}

// CanView applies to viewing, commenting and voting on a single ticket.
func CanView(caller domain.Caller, ticket *domain.Ticket) bool {
	if caller.Role.IsStaff() {
		return true
	}
	return ticket.CreatedBy == caller.ID
}

// RequireView returns Forbidden when CanView fails.
func RequireView(caller domain.Caller, ticket *domain.Ticket) error {
	if !CanView(caller, ticket) {
		return apperrors.NewForbidden("not allowed to access this ticket")
	}
	return nil
}

// RequireStatusChange is the capability check for set-ticket-status.
func RequireStatusChange(caller domain.Caller) error {
	if !caller.Role.IsStaff() {
		return apperrors.NewForbidden("agent or admin role required")
	}
	return nil
}

// RequireAdmin is the capability check for admin-only operations.
func RequireAdmin(caller domain.Caller) error {
	if caller.Role != domain.RoleAdmin {
		return apperrors.NewForbidden("admin role required")
	}
	return nil
}
