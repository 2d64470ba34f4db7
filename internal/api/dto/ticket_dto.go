package dto

import (
	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// CreateTicketRequest payload. Status, owner and assignee are not accepted from clients.
type CreateTicketRequest struct {
	Subject     string                `json:"subject"`
	Description string                `json:"description"`
	Category    string                `json:"category"`
	CategoryID  string                `json:"category_id"`
	Priority    domain.TicketPriority `json:"priority"`
	Attachments []string              `json:"attachments"`
}

// CategoryRef returns the category id, read from "category" or its "category_id" alias.
func (r CreateTicketRequest) CategoryRef() string {
	if r.Category != "" {
		return r.Category
	}
	return r.CategoryID
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status domain.TicketStatus `json:"status"`
}

// AddCommentRequest payload.
type AddCommentRequest struct {
	Content string `json:"content"`
}

// VoteRequest payload.
type VoteRequest struct {
	VoteType domain.VoteType `json:"vote_type"`
}

// TicketListQuery captures listing query parameters.
type TicketListQuery struct {
	Status   string `query:"status"`
	Category string `query:"category"`
	Search   string `query:"search"`
	Sort     string `query:"sort"`
	View     string `query:"view"`
}
