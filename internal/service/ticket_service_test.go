package service

import (
	"context"
	"sort"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/may-baker/helpdesk-service/internal/domain"
	"github.com/may-baker/helpdesk-service/internal/events"
	"github.com/may-baker/helpdesk-service/internal/repository"
	apperrors "github.com/may-baker/helpdesk-service/pkg/errorutil"
)

type fakeTicketRepo struct {
	tickets   map[int64]*domain.Ticket
	nextID    int64
	createErr error
	updateErr error
	updates   []repository.TicketUpdate
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: make(map[int64]*domain.Ticket)}
}

func (f *fakeTicketRepo) Create(ctx context.Context, ticket *domain.Ticket) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	ticket.ID = f.nextID
	copied := *ticket
	f.tickets[ticket.ID] = &copied
	return nil
}

func (f *fakeTicketRepo) Update(ctx context.Context, id int64, fields repository.TicketUpdate) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	ticket, ok := f.tickets[id]
	if !ok {
		return pgx.ErrNoRows
	}
	f.updates = append(f.updates, fields)
	if fields.Issue != nil {
		ticket.Issue = *fields.Issue
	}
	if fields.Staff != nil {
		ticket.Staff = *fields.Staff
	}
	if fields.Status != nil {
		ticket.Status = *fields.Status
	}
	if fields.Resolution != nil {
		ticket.Resolution = *fields.Resolution
	}
	if fields.ResolutionTime != nil {
		ticket.ResolutionTime = *fields.ResolutionTime
	}
	if fields.DateClosed != nil {
		ticket.DateClosed = *fields.DateClosed
	}
	return nil
}

func (f *fakeTicketRepo) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	ticket, ok := f.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *ticket
	return &copied, nil
}

func (f *fakeTicketRepo) List(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	ids := make([]int64, 0, len(f.tickets))
	for id := range f.tickets {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var result []domain.Ticket
	for _, id := range ids {
		ticket := f.tickets[id]
		if filter.Department != nil && ticket.Department != *filter.Department {
			continue
		}
		result = append(result, *ticket)
	}
	return result, nil
}

func (f *fakeTicketRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := f.tickets[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.tickets, id)
	return nil
}

func (f *fakeTicketRepo) DeleteAll(ctx context.Context) (int64, error) {
	count := int64(len(f.tickets))
	f.tickets = make(map[int64]*domain.Ticket)
	return count, nil
}

func collectEvents(dispatcher events.Dispatcher, types ...events.EventType) *[]events.Event {
	collected := &[]events.Event{}
	for _, eventType := range types {
		dispatcher.Subscribe(eventType, func(ctx context.Context, event events.Event) error {
			*collected = append(*collected, event)
			return nil
		})
	}
	return collected
}

func newTicketService(repo repository.TicketRepository, dispatcher events.Dispatcher) *TicketService {
	return NewTicketService(TicketDependencies{
		TicketRepo:     repo,
		Dispatcher:     dispatcher,
		AllowedDomains: []string{"@gmail.com", "@may-baker.com"},
	})
}

func TestCreateTicketRejectsUnknownReporterDomain(t *testing.T) {
	repo := newFakeTicketRepo()
	svc := newTicketService(repo, events.NewInMemoryDispatcher())

	_, err := svc.CreateTicket(context.Background(), TicketCreateInput{
		Issue:      "Printer broken",
		ReportedBy: "intruder@elsewhere.net",
	})

	require.Error(t, err)
	de := apperrors.ToDomainError(err)
	require.Equal(t, "VALIDATION_FAILED", de.Code)
	require.Empty(t, repo.tickets, "no ticket may be stored for a rejected reporter")
}

func TestCreateTicketDefaultsAndEvents(t *testing.T) {
	repo := newFakeTicketRepo()
	dispatcher := events.NewInMemoryDispatcher()
	created := collectEvents(dispatcher, events.EventTicketCreated)
	assigned := collectEvents(dispatcher, events.EventTicketAssigned)
	svc := newTicketService(repo, dispatcher)

	ticket, err := svc.CreateTicket(context.Background(), TicketCreateInput{
		Issue:      "Printer broken",
		ReportedBy: "a@gmail.com",
	})
	require.NoError(t, err)
	require.Equal(t, domain.TicketStatusOpen, ticket.Status)
	require.NotEmpty(t, ticket.DateReported)
	require.NotEmpty(t, ticket.TimeReported)
	require.Len(t, *created, 1)
	require.Empty(t, *assigned, "no assignment event without an assignee")

	withStaff, err := svc.CreateTicket(context.Background(), TicketCreateInput{
		Issue:      "VPN down",
		ReportedBy: "b@gmail.com",
		Staff:      "admin@may-baker.com",
	})
	require.NoError(t, err)
	require.Len(t, *assigned, 1)
	require.Equal(t, withStaff.ID, (*assigned)[0].TicketID)
	require.Equal(t, "admin@may-baker.com", (*assigned)[0].Ticket.Staff)
}

func TestCreateTicketRequiresIssue(t *testing.T) {
	svc := newTicketService(newFakeTicketRepo(), events.NewInMemoryDispatcher())

	_, err := svc.CreateTicket(context.Background(), TicketCreateInput{ReportedBy: "a@gmail.com"})
	require.Error(t, err)
	require.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
}

func TestUpdateTicketNotFound(t *testing.T) {
	svc := newTicketService(newFakeTicketRepo(), events.NewInMemoryDispatcher())

	issue := "renamed"
	_, err := svc.UpdateTicket(context.Background(), 999, repository.TicketUpdate{Issue: &issue})
	require.Error(t, err)
	require.True(t, apperrors.IsNotFound(err), "unknown id must surface as not found, got %v", err)
}

func TestUpdateTicketResolutionEventFiresPerCall(t *testing.T) {
	repo := newFakeTicketRepo()
	dispatcher := events.NewInMemoryDispatcher()
	resolved := collectEvents(dispatcher, events.EventTicketResolved)
	svc := newTicketService(repo, dispatcher)

	ticket, err := svc.CreateTicket(context.Background(), TicketCreateInput{
		Issue:      "Printer broken",
		ReportedBy: "a@gmail.com",
		Staff:      "admin@may-baker.com",
	})
	require.NoError(t, err)

	status := domain.TicketStatusResolved
	clock := "10:30:00"
	date := "2026-08-29"
	fields := repository.TicketUpdate{Status: &status, ResolutionTime: &clock, DateClosed: &date}

	updated, err := svc.UpdateTicket(context.Background(), ticket.ID, fields)
	require.NoError(t, err)
	require.Equal(t, domain.TicketStatusResolved, updated.Status)
	require.Len(t, *resolved, 1)

	// No dedup at this layer: a second resolved write fires again.
	_, err = svc.UpdateTicket(context.Background(), ticket.ID, fields)
	require.NoError(t, err)
	require.Len(t, *resolved, 2)
}

func TestUpdateTicketWithoutStatusDoesNotFireResolution(t *testing.T) {
	repo := newFakeTicketRepo()
	dispatcher := events.NewInMemoryDispatcher()
	resolved := collectEvents(dispatcher, events.EventTicketResolved)
	svc := newTicketService(repo, dispatcher)

	ticket, err := svc.CreateTicket(context.Background(), TicketCreateInput{
		Issue:      "Printer broken",
		ReportedBy: "a@gmail.com",
	})
	require.NoError(t, err)

	issue := "Printer totally broken"
	_, err = svc.UpdateTicket(context.Background(), ticket.ID, repository.TicketUpdate{Issue: &issue})
	require.NoError(t, err)
	require.Empty(t, *resolved)
}

func TestDeleteTicketAndDeleteAll(t *testing.T) {
	repo := newFakeTicketRepo()
	svc := newTicketService(repo, events.NewInMemoryDispatcher())

	for _, issue := range []string{"one", "two", "three"} {
		_, err := svc.CreateTicket(context.Background(), TicketCreateInput{Issue: issue, ReportedBy: "a@gmail.com"})
		require.NoError(t, err)
	}

	require.NoError(t, svc.DeleteTicket(context.Background(), 1))
	err := svc.DeleteTicket(context.Background(), 1)
	require.True(t, apperrors.IsNotFound(err))

	count, err := svc.DeleteAllTickets(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(2), count)
}
