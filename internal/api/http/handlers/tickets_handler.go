package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/may-baker/helpdesk-service/internal/api/dto"
	"github.com/may-baker/helpdesk-service/internal/repository"
	"github.com/may-baker/helpdesk-service/internal/service"
	apperrors "github.com/may-baker/helpdesk-service/pkg/errorutil"
)

// TicketsHandler exposes the ticket store over HTTP.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.service.CreateTicket(c.UserContext(), service.TicketCreateInput{
		Issue:        req.Issue,
		Description:  req.Description,
		ReportedBy:   req.ReportedBy,
		Branch:       req.Branch,
		Department:   req.Department,
		Staff:        req.Staff,
		Status:       req.Status,
		DateReported: req.DateReported,
		TimeReported: req.TimeReported,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"id": ticket.ID})
}

// UpdateTicket PUT /tickets/:id.
func (h *TicketsHandler) UpdateTicket(c *fiber.Ctx) error {
	id, err := parseTicketID(c)
	if err != nil {
		return err
	}
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.service.UpdateTicket(c.UserContext(), id, repository.TicketUpdate{
		Issue:          req.Issue,
		Description:    req.Description,
		ReportedBy:     req.ReportedBy,
		Branch:         req.Branch,
		Department:     req.Department,
		Staff:          req.Staff,
		Status:         req.Status,
		Resolution:     req.Resolution,
		DateReported:   req.DateReported,
		TimeReported:   req.TimeReported,
		ResolutionTime: req.ResolutionTime,
		DateClosed:     req.DateClosed,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.FromTicket(ticket))
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	id, err := parseTicketID(c)
	if err != nil {
		return err
	}
	ticket, err := h.service.GetTicket(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.FromTicket(ticket))
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	filter := repository.TicketFilter{}
	if department := c.Query("department"); department != "" {
		filter.Department = &department
	}
	tickets, err := h.service.ListTickets(c.UserContext(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, dto.FromTicket(&tickets[i]))
	}
	return c.JSON(items)
}

// DeleteTicket DELETE /tickets/:id.
func (h *TicketsHandler) DeleteTicket(c *fiber.Ctx) error {
	id, err := parseTicketID(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteTicket(c.UserContext(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"changes": 1})
}

// DeleteAllTickets DELETE /tickets.
func (h *TicketsHandler) DeleteAllTickets(c *fiber.Ctx) error {
	count, err := h.service.DeleteAllTickets(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"changes": count})
}

func parseTicketID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid ticket id", nil)
	}
	return id, nil
}
