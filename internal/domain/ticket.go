package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets. The column is an open
// string; only these two values drive behavior.
type TicketStatus string

const (
	TicketStatusOpen     TicketStatus = "open"
	TicketStatusResolved TicketStatus = "resolved"
)

// Ticket is the aggregate for helpdesk requests.
type Ticket struct {
	ID             int64
	Issue          string
	Description    string
	ReportedBy     string
	Branch         string
	Department     string
	Staff          string
	Status         TicketStatus
	Resolution     string
	DateReported   string
	TimeReported   string
	ResolutionTime string
	DateClosed     string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ReportDateTime formats t into the wire date and time fields captured on
// creation and resolution.
func ReportDateTime(t time.Time) (date, clock string) {
	return t.Format("2006-01-02"), t.Format("15:04:05")
}
