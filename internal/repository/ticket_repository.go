package repository

import (
	"context"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// TicketPredicate selects the candidate set for a query. Nil fields impose no constraint.
type TicketPredicate struct {
	CreatedBy  *string
	AssignedTo *string
}

// Matches reports whether the ticket satisfies every set field.
func (p TicketPredicate) Matches(t *domain.Ticket) bool {
	if p.CreatedBy != nil && t.CreatedBy != *p.CreatedBy {
		return false
	}
	if p.AssignedTo != nil && (t.AssignedTo == nil || *t.AssignedTo != *p.AssignedTo) {
		return false
	}
	return true
}

// TicketMutator applies a change to a ticket in place. Returning an error aborts the update.
type TicketMutator func(t *domain.Ticket) error

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	// Create assigns id and timestamps.
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	// Update applies fn and bumps UpdatedAt as one atomic change.
	Update(ctx context.Context, id string, fn TicketMutator) (*domain.Ticket, error)
	// Query returns matching tickets in store iteration order.
	Query(ctx context.Context, pred TicketPredicate) ([]domain.Ticket, error)
}

const ticketColumns = `id, subject, description, category_id, priority, status, created_by, assigned_to,
               up_votes, down_votes, attachments, comments, created_at, updated_at`

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type ticketRepository struct {
	pool pgxPool
}

// NewTicketRepository instantiates the Postgres-backed ticket store.
func NewTicketRepository(pool pgxPool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	comments, err := encodeComments(ticket.Comments)
	if err != nil {
		return err
	}
	attachments := ticket.Attachments
	if attachments == nil {
		attachments = []string{}
	}
	const query = `
        INSERT INTO tickets (subject, description, category_id, priority, status, created_by, assigned_to,
            up_votes, down_votes, attachments, comments)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
        RETURNING id, created_at, updated_at`
	err = r.pool.QueryRow(ctx, query,
		ticket.Subject,
		ticket.Description,
		ticket.CategoryID,
		ticket.Priority,
		ticket.Status,
		ticket.CreatedBy,
		ticket.AssignedTo,
		ticket.Votes.Up,
		ticket.Votes.Down,
		attachments,
		comments,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
	return mapPgError(err)
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id=$1`
	ticket, err := scanTicket(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapPgError(err)
	}
	return ticket, nil
}

func (r *ticketRepository) Update(ctx context.Context, id string, fn TicketMutator) (*domain.Ticket, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}

	ticket, err := scanTicket(tx.QueryRow(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE id=$1 FOR UPDATE`, id))
	if err != nil {
		_ = tx.Rollback(ctx)
		return nil, mapPgError(err)
	}

	if err := fn(ticket); err != nil {
		_ = tx.Rollback(ctx)
		return nil, err
	}

	comments, err := encodeComments(ticket.Comments)
	if err != nil {
		_ = tx.Rollback(ctx)
		return nil, err
	}
	attachments := ticket.Attachments
	if attachments == nil {
		attachments = []string{}
	}

	const query = `
        UPDATE tickets SET subject=$1, description=$2, category_id=$3, priority=$4, status=$5,
            assigned_to=$6, up_votes=$7, down_votes=$8, attachments=$9, comments=$10, updated_at=NOW()
        WHERE id=$11
        RETURNING updated_at`
	if err := tx.QueryRow(ctx, query,
		ticket.Subject,
		ticket.Description,
		ticket.CategoryID,
		ticket.Priority,
		ticket.Status,
		ticket.AssignedTo,
		ticket.Votes.Up,
		ticket.Votes.Down,
		attachments,
		comments,
		ticket.ID,
	).Scan(&ticket.UpdatedAt); err != nil {
		_ = tx.Rollback(ctx)
		return nil, mapPgError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return ticket, nil
}

func (r *ticketRepository) Query(ctx context.Context, pred TicketPredicate) ([]domain.Ticket, error) {
	builder := psql.Select(ticketColumns).From("tickets")
	if pred.CreatedBy != nil {
		builder = builder.Where(sq.Eq{"created_by": *pred.CreatedBy})
	}
	if pred.AssignedTo != nil {
		builder = builder.Where(sq.Eq{"assigned_to": *pred.AssignedTo})
	}
	query, args, err := builder.OrderBy("created_at ASC", "id ASC").ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	result := []domain.Ticket{}
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ticket)
	}
	return result, rows.Err()
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var (
		ticket   domain.Ticket
		comments []byte
	)
	if err := row.Scan(
		&ticket.ID,
		&ticket.Subject,
		&ticket.Description,
		&ticket.CategoryID,
		&ticket.Priority,
		&ticket.Status,
		&ticket.CreatedBy,
		&ticket.AssignedTo,
		&ticket.Votes.Up,
		&ticket.Votes.Down,
		&ticket.Attachments,
		&comments,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if len(comments) > 0 {
		if err := json.Unmarshal(comments, &ticket.Comments); err != nil {
			return nil, fmt.Errorf("decode comments for ticket %s: %w", ticket.ID, err)
		}
	}
	return &ticket, nil
}

func encodeComments(comments []domain.Comment) ([]byte, error) {
	if comments == nil {
		comments = []domain.Comment{}
	}
	data, err := json.Marshal(comments)
	if err != nil {
		return nil, fmt.Errorf("encode comments: %w", err)
	}
	return data, nil
}
