package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "Open"
	TicketStatusInProgress TicketStatus = "In Progress"
	TicketStatusResolved   TicketStatus = "Resolved"
	TicketStatusClosed     TicketStatus = "Closed"
)

// Valid reports whether s is one of the four lifecycle states.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed:
		return true
	}
	return false
}

// TicketPriority enumerates urgency.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "Low"
	TicketPriorityMedium TicketPriority = "Medium"
	TicketPriorityHigh   TicketPriority = "High"
)

func (p TicketPriority) Valid() bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh:
		return true
	}
	return false
}

// VoteType selects which tally a vote increments.
type VoteType string

const (
	VoteUp   VoteType = "up"
	VoteDown VoteType = "down"
)

func (v VoteType) Valid() bool {
	return v == VoteUp || v == VoteDown
}

// Votes is the raw up/down tally. There is no per-user tracking.
type Votes struct {
	Up   int `json:"up"`
	Down int `json:"down"`
}

// Comment is an append-only entry in a ticket thread.
type Comment struct {
	ID        int       `json:"id"`
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Ticket is the aggregate for support requests. It owns its comments and votes.
type Ticket struct {
	ID          string
	Subject     string
	Description string
	CategoryID  string
	Priority    TicketPriority
	Status      TicketStatus
	CreatedBy   string
	AssignedTo  *string
	Votes       Votes
	Attachments []string
	Comments    []Comment
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NextCommentID returns max(existing ids)+1, or 1 for an empty thread.
func (t *Ticket) NextCommentID() int {
	next := 1
	for _, c := range t.Comments {
		if c.ID >= next {
			next = c.ID + 1
		}
	}
	return next
}

// Clone returns a deep copy so callers never share slices with a store.
func (t *Ticket) Clone() *Ticket {
	if t == nil {
		return nil
	}
	cp := *t
	if t.AssignedTo != nil {
		assignee := *t.AssignedTo
		cp.AssignedTo = &assignee
	}
	cp.Attachments = append([]string(nil), t.Attachments...)
	cp.Comments = append([]Comment(nil), t.Comments...)
	return &cp
}
