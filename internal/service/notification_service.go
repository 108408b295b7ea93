package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/may-baker/helpdesk-service/internal/domain"
	"github.com/may-baker/helpdesk-service/internal/events"
	"github.com/may-baker/helpdesk-service/internal/mail"
)

// NotificationService turns ticket events into outbound mail. Dispatch is
// fire-and-forget: the triggering store operation returns without waiting for
// delivery, and each recipient is attempted independently.
type NotificationService struct {
	sender     mail.Sender
	dispatcher events.Dispatcher
	logger     *zap.Logger
	wg         sync.WaitGroup
}

// NewNotificationService creates the service.
func NewNotificationService(sender mail.Sender, dispatcher events.Dispatcher, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		sender:     sender,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to ticket events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketAssigned, n.handleTicketAssigned)
	n.dispatcher.Subscribe(events.EventTicketResolved, n.handleTicketResolved)
}

// Wait blocks until all in-flight dispatches finish. Used on shutdown and in
// tests; callers on the hot path never wait.
func (n *NotificationService) Wait() {
	n.wg.Wait()
}

func (n *NotificationService) handleTicketAssigned(ctx context.Context, event events.Event) error {
	ticket := event.Ticket
	if ticket.Staff == "" {
		return nil
	}
	body, err := mail.RenderAssignedBody(ticket)
	if err != nil {
		n.logger.Error("render assigned notification", zap.Int64("ticket_id", ticket.ID), zap.Error(err))
		return nil
	}
	n.dispatch(ticket, ticket.Staff, mail.AssignedSubject(ticket), body)
	return nil
}

func (n *NotificationService) handleTicketResolved(ctx context.Context, event events.Event) error {
	ticket := event.Ticket
	body, err := mail.RenderResolvedBody(ticket)
	if err != nil {
		n.logger.Error("render resolved notification", zap.Int64("ticket_id", ticket.ID), zap.Error(err))
		return nil
	}
	subject := mail.ResolvedSubject(ticket)
	if ticket.Staff != "" {
		n.dispatch(ticket, ticket.Staff, subject, body)
	}
	if ticket.ReportedBy != "" {
		n.dispatch(ticket, ticket.ReportedBy, subject, body)
	}
	return nil
}

// dispatch sends to one recipient on its own goroutine. A failed send is
// logged and never propagated; one recipient's failure cannot block another.
func (n *NotificationService) dispatch(ticket domain.Ticket, to, subject, body string) {
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		if err := n.sender.Send(context.Background(), to, subject, body); err != nil {
			n.logger.Error("notification send failed",
				zap.Int64("ticket_id", ticket.ID),
				zap.String("to", to),
				zap.Error(err))
			return
		}
		n.logger.Info("notification sent",
			zap.Int64("ticket_id", ticket.ID),
			zap.String("to", to))
	}()
}
