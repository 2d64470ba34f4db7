package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// Clock supplies timestamps to in-memory stores.
type Clock func() time.Time

func systemClock() time.Time { return time.Now().UTC() }

type memoryTicketRepository struct {
	mu      sync.Mutex
	now     Clock
	order   []string
	tickets map[string]*domain.Ticket
}

// NewMemoryTicketRepository returns a ticket store held in process memory.
// A nil clock uses the system clock.
func NewMemoryTicketRepository(clock Clock) TicketRepository {
	if clock == nil {
		clock = systemClock
	}
	return &memoryTicketRepository{
		now:     clock,
		tickets: make(map[string]*domain.Ticket),
	}
}

func (r *memoryTicketRepository) Create(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	ticket.ID = uuid.NewString()
	ticket.CreatedAt = now
	ticket.UpdatedAt = now

	r.tickets[ticket.ID] = ticket.Clone()
	r.order = append(r.order, ticket.ID)
	return nil
}

func (r *memoryTicketRepository) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ticket, ok := r.tickets[id]
	if !ok {
		return nil, ErrNotFound
	}
	return ticket.Clone(), nil
}

func (r *memoryTicketRepository) Update(_ context.Context, id string, fn TicketMutator) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.tickets[id]
	if !ok {
		return nil, ErrNotFound
	}

	working := current.Clone()
	if err := fn(working); err != nil {
		return nil, err
	}
	working.ID = current.ID
	working.CreatedBy = current.CreatedBy
	working.CreatedAt = current.CreatedAt
	working.UpdatedAt = r.now()

	r.tickets[id] = working
	return working.Clone(), nil
}

func (r *memoryTicketRepository) Query(_ context.Context, pred TicketPredicate) ([]domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]domain.Ticket, 0, len(r.order))
	for _, id := range r.order {
		ticket := r.tickets[id]
		if pred.Matches(ticket) {
			result = append(result, *ticket.Clone())
		}
	}
	return result, nil
}
