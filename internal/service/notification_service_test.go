package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/may-baker/helpdesk-service/internal/domain"
	"github.com/may-baker/helpdesk-service/internal/events"
)

type recordingSender struct {
	mu      sync.Mutex
	sent    []sentMail
	failFor map[string]error
}

type sentMail struct {
	to      string
	subject string
}

func newRecordingSender() *recordingSender {
	return &recordingSender{failFor: make(map[string]error)}
}

func (s *recordingSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failFor[to]; err != nil {
		return err
	}
	s.sent = append(s.sent, sentMail{to: to, subject: subject})
	return nil
}

func (s *recordingSender) recipients() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.sent))
	for _, m := range s.sent {
		out = append(out, m.to)
	}
	return out
}

func newNotificationFixture(t *testing.T) (*recordingSender, events.Dispatcher, *NotificationService) {
	t.Helper()
	sender := newRecordingSender()
	dispatcher := events.NewInMemoryDispatcher()
	svc := NewNotificationService(sender, dispatcher, zap.NewNop())
	svc.RegisterHandlers()
	return sender, dispatcher, svc
}

func TestAssignedEventNotifiesStaff(t *testing.T) {
	sender, dispatcher, svc := newNotificationFixture(t)

	dispatcher.Publish(context.Background(), events.Event{
		Type:     events.EventTicketAssigned,
		TicketID: 7,
		Ticket: domain.Ticket{
			ID:         7,
			Issue:      "Printer broken",
			ReportedBy: "a@gmail.com",
			Staff:      "admin@may-baker.com",
		},
	})
	svc.Wait()

	require.Equal(t, []string{"admin@may-baker.com"}, sender.recipients())
	require.Contains(t, sender.sent[0].subject, "New Helpdesk Request Assigned (ID: 7)")
}

func TestAssignedEventWithoutStaffSendsNothing(t *testing.T) {
	sender, dispatcher, svc := newNotificationFixture(t)

	dispatcher.Publish(context.Background(), events.Event{
		Type:     events.EventTicketAssigned,
		TicketID: 7,
		Ticket:   domain.Ticket{ID: 7, Issue: "Printer broken", ReportedBy: "a@gmail.com"},
	})
	svc.Wait()

	require.Empty(t, sender.recipients())
}

func TestResolvedEventNotifiesStaffAndReporter(t *testing.T) {
	sender, dispatcher, svc := newNotificationFixture(t)

	dispatcher.Publish(context.Background(), events.Event{
		Type:     events.EventTicketResolved,
		TicketID: 7,
		Ticket: domain.Ticket{
			ID:         7,
			Issue:      "Printer broken",
			ReportedBy: "a@gmail.com",
			Staff:      "admin@may-baker.com",
			Status:     domain.TicketStatusResolved,
		},
	})
	svc.Wait()

	require.ElementsMatch(t, []string{"admin@may-baker.com", "a@gmail.com"}, sender.recipients())
}

func TestResolvedEventOneRecipientFailureDoesNotBlockOther(t *testing.T) {
	sender, dispatcher, svc := newNotificationFixture(t)
	sender.failFor["admin@may-baker.com"] = errors.New("smtp refused")

	dispatcher.Publish(context.Background(), events.Event{
		Type:     events.EventTicketResolved,
		TicketID: 7,
		Ticket: domain.Ticket{
			ID:         7,
			Issue:      "Printer broken",
			ReportedBy: "a@gmail.com",
			Staff:      "admin@may-baker.com",
			Status:     domain.TicketStatusResolved,
		},
	})
	svc.Wait()

	require.Equal(t, []string{"a@gmail.com"}, sender.recipients())
}
