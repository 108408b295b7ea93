package dto

import (
	"github.com/may-baker/helpdesk-service/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Issue        string              `json:"issue"`
	Description  string              `json:"description"`
	ReportedBy   string              `json:"reportedBy"`
	Branch       string              `json:"branch"`
	Department   string              `json:"department"`
	Staff        string              `json:"staff"`
	Status       domain.TicketStatus `json:"status"`
	DateReported string              `json:"dateReported"`
	TimeReported string              `json:"timeReported"`
}

// UpdateTicketRequest is a partial update; nil fields are untouched.
type UpdateTicketRequest struct {
	Issue          *string              `json:"issue"`
	Description    *string              `json:"description"`
	ReportedBy     *string              `json:"reportedBy"`
	Branch         *string              `json:"branch"`
	Department     *string              `json:"department"`
	Staff          *string              `json:"staff"`
	Status         *domain.TicketStatus `json:"status"`
	Resolution     *string              `json:"resolution"`
	DateReported   *string              `json:"dateReported"`
	TimeReported   *string              `json:"timeReported"`
	ResolutionTime *string              `json:"resolutionTime"`
	DateClosed     *string              `json:"dateClosed"`
}

// TicketResponse is the full wire form of a ticket.
type TicketResponse struct {
	ID             int64               `json:"id"`
	Issue          string              `json:"issue"`
	Description    string              `json:"description"`
	ReportedBy     string              `json:"reportedBy"`
	Branch         string              `json:"branch,omitempty"`
	Department     string              `json:"department,omitempty"`
	Staff          string              `json:"staff,omitempty"`
	Status         domain.TicketStatus `json:"status"`
	Resolution     string              `json:"resolution,omitempty"`
	DateReported   string              `json:"dateReported"`
	TimeReported   string              `json:"timeReported"`
	ResolutionTime string              `json:"resolutionTime,omitempty"`
	DateClosed     string              `json:"dateClosed,omitempty"`
}

// FromTicket maps a domain ticket to its wire form.
func FromTicket(t *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:             t.ID,
		Issue:          t.Issue,
		Description:    t.Description,
		ReportedBy:     t.ReportedBy,
		Branch:         t.Branch,
		Department:     t.Department,
		Staff:          t.Staff,
		Status:         t.Status,
		Resolution:     t.Resolution,
		DateReported:   t.DateReported,
		TimeReported:   t.TimeReported,
		ResolutionTime: t.ResolutionTime,
		DateClosed:     t.DateClosed,
	}
}
