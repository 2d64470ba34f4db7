package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

type stepClock struct {
	mu  sync.Mutex
	cur time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cur = c.cur.Add(time.Second)
	return c.cur
}

func newTestTicket(createdBy string) *domain.Ticket {
	return &domain.Ticket{
		Subject:     "Printer not working",
		Description: "Error code E502",
		CategoryID:  "cat-hw",
		Priority:    domain.TicketPriorityLow,
		Status:      domain.TicketStatusOpen,
		CreatedBy:   createdBy,
	}
}

func TestMemoryTicketRepository_CreateAssignsIdentity(t *testing.T) {
	clock := &stepClock{cur: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	repo := NewMemoryTicketRepository(clock.Now)
	ctx := context.Background()

	first := newTestTicket("u1")
	second := newTestTicket("u1")
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	assert.NotEmpty(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, first.CreatedAt, first.UpdatedAt)

	got, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Printer not working", got.Subject)
}

func TestMemoryTicketRepository_GetByIDNotFound(t *testing.T) {
	repo := NewMemoryTicketRepository(nil)

	_, err := repo.GetByID(context.Background(), "missing")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryTicketRepository_UpdateBumpsUpdatedAt(t *testing.T) {
	clock := &stepClock{cur: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	repo := NewMemoryTicketRepository(clock.Now)
	ctx := context.Background()

	ticket := newTestTicket("u1")
	require.NoError(t, repo.Create(ctx, ticket))

	updated, err := repo.Update(ctx, ticket.ID, func(*domain.Ticket) error { return nil })

	require.NoError(t, err)
	assert.True(t, updated.UpdatedAt.After(ticket.UpdatedAt))
	assert.Equal(t, ticket.CreatedAt, updated.CreatedAt)
}

func TestMemoryTicketRepository_UpdateCannotRewriteIdentity(t *testing.T) {
	repo := NewMemoryTicketRepository(nil)
	ctx := context.Background()

	ticket := newTestTicket("u1")
	require.NoError(t, repo.Create(ctx, ticket))

	updated, err := repo.Update(ctx, ticket.ID, func(t *domain.Ticket) error {
		t.CreatedBy = "intruder"
		t.ID = "other"
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, "u1", updated.CreatedBy)
	assert.Equal(t, ticket.ID, updated.ID)
}

func TestMemoryTicketRepository_UpdateAbortLeavesTicketUnchanged(t *testing.T) {
	repo := NewMemoryTicketRepository(nil)
	ctx := context.Background()

	ticket := newTestTicket("u1")
	require.NoError(t, repo.Create(ctx, ticket))
	abort := errors.New("abort")

	_, err := repo.Update(ctx, ticket.ID, func(t *domain.Ticket) error {
		t.Status = domain.TicketStatusClosed
		return abort
	})

	require.ErrorIs(t, err, abort)
	got, err := repo.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusOpen, got.Status)
	assert.Equal(t, ticket.UpdatedAt, got.UpdatedAt)
}

func TestMemoryTicketRepository_UpdateNotFound(t *testing.T) {
	repo := NewMemoryTicketRepository(nil)

	_, err := repo.Update(context.Background(), "missing", func(*domain.Ticket) error { return nil })

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryTicketRepository_QueryByPredicate(t *testing.T) {
	repo := NewMemoryTicketRepository(nil)
	ctx := context.Background()
	agent := "a1"

	mine := newTestTicket("u1")
	theirs := newTestTicket("u2")
	assigned := newTestTicket("u2")
	require.NoError(t, repo.Create(ctx, mine))
	require.NoError(t, repo.Create(ctx, theirs))
	require.NoError(t, repo.Create(ctx, assigned))
	_, err := repo.Update(ctx, assigned.ID, func(t *domain.Ticket) error {
		t.AssignedTo = &agent
		return nil
	})
	require.NoError(t, err)

	all, err := repo.Query(ctx, TicketPredicate{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{mine.ID, theirs.ID, assigned.ID}, []string{all[0].ID, all[1].ID, all[2].ID})

	u1 := "u1"
	own, err := repo.Query(ctx, TicketPredicate{CreatedBy: &u1})
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, mine.ID, own[0].ID)

	queue, err := repo.Query(ctx, TicketPredicate{AssignedTo: &agent})
	require.NoError(t, err)
	require.Len(t, queue, 1)
	assert.Equal(t, assigned.ID, queue[0].ID)
}

func TestMemoryTicketRepository_ConcurrentUpdatesAreSerialized(t *testing.T) {
	repo := NewMemoryTicketRepository(nil)
	ctx := context.Background()

	ticket := newTestTicket("u1")
	require.NoError(t, repo.Create(ctx, ticket))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Update(ctx, ticket.ID, func(t *domain.Ticket) error {
				t.Votes.Up++
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := repo.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, got.Votes.Up)
}

func TestMemoryTicketRepository_ReturnsCopies(t *testing.T) {
	repo := NewMemoryTicketRepository(nil)
	ctx := context.Background()

	ticket := newTestTicket("u1")
	require.NoError(t, repo.Create(ctx, ticket))

	got, err := repo.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	got.Comments = append(got.Comments, domain.Comment{ID: 1, Content: "sneaky"})

	again, err := repo.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Empty(t, again.Comments)
}
