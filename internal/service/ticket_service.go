package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/may-baker/helpdesk-service/internal/domain"
	"github.com/may-baker/helpdesk-service/internal/events"
	"github.com/may-baker/helpdesk-service/internal/repository"
	apperrors "github.com/may-baker/helpdesk-service/pkg/errorutil"
)

// TicketService coordinates ticket lifecycle workflows for both the HTTP API
// and the ingestion loop.
type TicketService struct {
	tickets        repository.TicketRepository
	dispatcher     events.Dispatcher
	allowedDomains []string
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo     repository.TicketRepository
	Dispatcher     events.Dispatcher
	AllowedDomains []string
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Issue        string
	Description  string
	ReportedBy   string
	Branch       string
	Department   string
	Staff        string
	Status       domain.TicketStatus
	DateReported string
	TimeReported string
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	domains := make([]string, 0, len(deps.AllowedDomains))
	for _, d := range deps.AllowedDomains {
		d = strings.ToLower(strings.TrimSpace(d))
		if d == "" {
			continue
		}
		if !strings.HasPrefix(d, "@") {
			d = "@" + d
		}
		domains = append(domains, d)
	}
	return &TicketService{
		tickets:        deps.TicketRepo,
		dispatcher:     deps.Dispatcher,
		allowedDomains: domains,
	}
}

// CreateTicket validates and persists a new ticket. A reporter whose domain
// is outside the allow-list is rejected before any write.
func (s *TicketService) CreateTicket(ctx context.Context, input TicketCreateInput) (*domain.Ticket, error) {
	issue := strings.TrimSpace(input.Issue)
	if issue == "" {
		return nil, apperrors.NewValidationError("issue required", nil)
	}
	reportedBy := strings.TrimSpace(input.ReportedBy)
	if reportedBy != "" && !s.reporterAllowed(reportedBy) {
		return nil, apperrors.NewValidationError("reporter domain not allowed",
			map[string]any{"reported_by": reportedBy})
	}

	ticket := &domain.Ticket{
		Issue:        issue,
		Description:  strings.TrimSpace(input.Description),
		ReportedBy:   reportedBy,
		Branch:       input.Branch,
		Department:   input.Department,
		Staff:        strings.TrimSpace(input.Staff),
		Status:       input.Status,
		DateReported: input.DateReported,
		TimeReported: input.TimeReported,
	}
	if ticket.Status == "" {
		ticket.Status = domain.TicketStatusOpen
	}
	if ticket.DateReported == "" || ticket.TimeReported == "" {
		date, clock := domain.ReportDateTime(time.Now())
		if ticket.DateReported == "" {
			ticket.DateReported = date
		}
		if ticket.TimeReported == "" {
			ticket.TimeReported = clock
		}
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.EventTicketCreated, *ticket)
	if ticket.Staff != "" {
		s.publishEvent(ctx, events.EventTicketAssigned, *ticket)
	}
	return ticket, nil
}

// UpdateTicket applies a partial update. An unknown id is reported as not
// found, never as an internal failure. Each call that writes resolved status
// publishes a resolution event; deduplication is the caller's concern.
func (s *TicketService) UpdateTicket(ctx context.Context, id int64, fields repository.TicketUpdate) (*domain.Ticket, error) {
	if err := s.tickets.Update(ctx, id, fields); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": id})
		}
		return nil, apperrors.MapError(err)
	}

	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": id})
		}
		return nil, apperrors.MapError(err)
	}

	if fields.Status != nil && *fields.Status == domain.TicketStatusResolved {
		s.publishEvent(ctx, events.EventTicketResolved, *ticket)
	}
	return ticket, nil
}

// GetTicket fetches one ticket.
func (s *TicketService) GetTicket(ctx context.Context, id int64) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

// ListTickets lists tickets, optionally filtered.
func (s *TicketService) ListTickets(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	tickets, err := s.tickets.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// DeleteTicket removes one ticket.
func (s *TicketService) DeleteTicket(ctx context.Context, id int64) error {
	if err := s.tickets.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": id})
		}
		return apperrors.MapError(err)
	}
	return nil
}

// DeleteAllTickets removes every ticket and returns the count.
func (s *TicketService) DeleteAllTickets(ctx context.Context) (int64, error) {
	count, err := s.tickets.DeleteAll(ctx)
	if err != nil {
		return 0, apperrors.MapError(err)
	}
	return count, nil
}

func (s *TicketService) reporterAllowed(email string) bool {
	lower := strings.ToLower(email)
	for _, suffix := range s.allowedDomains {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}

func (s *TicketService) publishEvent(ctx context.Context, eventType events.EventType, ticket domain.Ticket) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		TicketID:  ticket.ID,
		Timestamp: time.Now(),
		Ticket:    ticket,
	})
}
