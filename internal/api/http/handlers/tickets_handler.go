package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/presentation"
	"github.com/spec-kit/helpdesk-service/internal/query"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// TicketsHandler manages ticket endpoints for every role.
type TicketsHandler struct {
	service   *service.TicketService
	presenter *presentation.Adapter
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService, presenter *presentation.Adapter) *TicketsHandler {
	return &TicketsHandler{service: ticketService, presenter: presenter}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	var req dto.CreateTicketRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	ticket, err := h.service.CreateTicket(c.UserContext(), caller, service.TicketCreateInput{
		Subject:     req.Subject,
		Description: req.Description,
		CategoryID:  req.CategoryRef(),
		Priority:    req.Priority,
		Attachments: req.Attachments,
	})
	if err != nil {
		return err
	}
	return h.renderTicket(c, http.StatusCreated, ticket)
}

// ListOwnTickets GET /tickets/me.
func (h *TicketsHandler) ListOwnTickets(c *fiber.Ctx) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	spec, _, err := parseListQuery(c)
	if err != nil {
		return err
	}
	tickets, err := h.service.ListOwnTickets(c.UserContext(), caller, spec)
	if err != nil {
		return err
	}
	return h.renderTickets(c, tickets)
}

// ListAgentTickets GET /tickets/agent. view=all switches from the caller's queue to every ticket.
func (h *TicketsHandler) ListAgentTickets(c *fiber.Ctx) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	spec, q, err := parseListQuery(c)
	if err != nil {
		return err
	}
	tickets, err := h.service.ListAgentTickets(c.UserContext(), caller, strings.EqualFold(q.View, "all"), spec)
	if err != nil {
		return err
	}
	return h.renderTickets(c, tickets)
}

// ListAllTickets GET /tickets/all.
func (h *TicketsHandler) ListAllTickets(c *fiber.Ctx) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	spec, _, err := parseListQuery(c)
	if err != nil {
		return err
	}
	tickets, err := h.service.ListAllTickets(c.UserContext(), caller, spec)
	if err != nil {
		return err
	}
	return h.renderTickets(c, tickets)
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	ticket, err := h.service.GetTicket(c.UserContext(), caller, c.Params("id"))
	if err != nil {
		return err
	}
	return h.renderTicket(c, http.StatusOK, ticket)
}

// UpdateStatus PUT /tickets/:id/status.
func (h *TicketsHandler) UpdateStatus(c *fiber.Ctx) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	var req dto.UpdateStatusRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	ticket, err := h.service.SetStatus(c.UserContext(), caller, c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return h.renderTicket(c, http.StatusOK, ticket)
}

// AddComment POST /tickets/:id/comments.
func (h *TicketsHandler) AddComment(c *fiber.Ctx) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	var req dto.AddCommentRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	comment, err := h.service.AddComment(c.UserContext(), caller, c.Params("id"), req.Content)
	if err != nil {
		return err
	}
	view, err := h.presenter.Comment(c.UserContext(), comment)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": view})
}

// Vote POST /tickets/:id/vote.
func (h *TicketsHandler) Vote(c *fiber.Ctx) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	var req dto.VoteRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	ticket, err := h.service.CastVote(c.UserContext(), caller, c.Params("id"), req.VoteType)
	if err != nil {
		return err
	}
	return h.renderTicket(c, http.StatusOK, ticket)
}

func (h *TicketsHandler) renderTicket(c *fiber.Ctx, status int, ticket *domain.Ticket) error {
	view, err := h.presenter.Ticket(c.UserContext(), ticket)
	if err != nil {
		return err
	}
	return c.Status(status).JSON(fiber.Map{"data": view})
}

func (h *TicketsHandler) renderTickets(c *fiber.Ctx, tickets []domain.Ticket) error {
	views, err := h.presenter.Tickets(c.UserContext(), tickets)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": views, "count": len(views)})
}

func parseListQuery(c *fiber.Ctx) (query.Spec, dto.TicketListQuery, error) {
	var q dto.TicketListQuery
	if err := c.QueryParser(&q); err != nil {
		return query.Spec{}, q, apperrors.NewValidationError("invalid query", nil)
	}
	spec := query.Spec{
		Filter: query.Filter{
			Status: query.ParseStatus(strings.TrimSpace(q.Status)),
			Search: strings.TrimSpace(q.Search),
		},
		Sort: query.ParseSortKey(q.Sort),
	}
	if category := strings.TrimSpace(q.Category); category != "" {
		spec.Filter.CategoryID = &category
	}
	return spec, q, nil
}
