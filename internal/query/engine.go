// Package query filters and sorts a materialized ticket candidate set.
package query

import (
	"sort"
	"strings"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// SortKey selects the listing order.
type SortKey string

const (
	SortNewest        SortKey = "newest"
	SortOldest        SortKey = "oldest"
	SortUpdated       SortKey = "updated"
	SortMostVoted     SortKey = "mostVoted"
	SortMostCommented SortKey = "mostCommented"
)

// ParseSortKey maps a client value to a SortKey. Unrecognized values fall back to newest.
func ParseSortKey(raw string) SortKey {
	switch key := SortKey(strings.TrimSpace(raw)); key {
	case SortNewest, SortOldest, SortUpdated, SortMostVoted, SortMostCommented:
		return key
	}
	return SortNewest
}

// Filter holds optional listing constraints. Zero values impose nothing.
type Filter struct {
	Status     *domain.TicketStatus
	CategoryID *string
	Search     string
}

// Spec is a filter plus sort order.
type Spec struct {
	Filter Filter
	Sort   SortKey
}

// ParseStatus turns an optional status filter value into a Filter condition. The match is exact,
// so a value outside the four statuses selects no tickets.
func ParseStatus(raw string) *domain.TicketStatus {
	if raw == "" {
		return nil
	}
	status := domain.TicketStatus(raw)
	return &status
}

// Matches reports whether a ticket passes every active condition.
func (f Filter) Matches(t *domain.Ticket) bool {
	if f.Status != nil && t.Status != *f.Status {
		return false
	}
	if f.CategoryID != nil && t.CategoryID != *f.CategoryID {
		return false
	}
	if term := strings.ToLower(f.Search); term != "" {
		if !strings.Contains(strings.ToLower(t.Subject), term) &&
			!strings.Contains(strings.ToLower(t.Description), term) {
			return false
		}
	}
	return true
}

// Apply filters the candidates and sorts the survivors. The input slice is not modified.
func Apply(candidates []domain.Ticket, spec Spec) []domain.Ticket {
	result := make([]domain.Ticket, 0, len(candidates))
	for i := range candidates {
		if spec.Filter.Matches(&candidates[i]) {
			result = append(result, candidates[i])
		}
	}
	sort.SliceStable(result, less(result, spec.Sort))
	return result
}

func less(tickets []domain.Ticket, key SortKey) func(i, j int) bool {
	switch key {
	case SortOldest:
		return func(i, j int) bool { return tickets[i].CreatedAt.Before(tickets[j].CreatedAt) }
	case SortUpdated:
		return func(i, j int) bool { return tickets[i].UpdatedAt.After(tickets[j].UpdatedAt) }
	case SortMostVoted:
		// raw up count; down votes are not subtracted
		return func(i, j int) bool { return tickets[i].Votes.Up > tickets[j].Votes.Up }
	case SortMostCommented:
		return func(i, j int) bool { return len(tickets[i].Comments) > len(tickets[j].Comments) }
	default:
		return func(i, j int) bool { return tickets[i].CreatedAt.After(tickets[j].CreatedAt) }
	}
}
