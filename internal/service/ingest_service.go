package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/may-baker/helpdesk-service/internal/domain"
	"github.com/may-baker/helpdesk-service/internal/mail"
	"github.com/may-baker/helpdesk-service/internal/observability"
	"github.com/may-baker/helpdesk-service/internal/repository"
	apperrors "github.com/may-baker/helpdesk-service/pkg/errorutil"
)

// ticketWriter is the ticket store surface ingestion mutates.
type ticketWriter interface {
	CreateTicket(ctx context.Context, input TicketCreateInput) (*domain.Ticket, error)
	UpdateTicket(ctx context.Context, id int64, fields repository.TicketUpdate) (*domain.Ticket, error)
}

// reporterDirectory resolves inbound senders against the known roster.
type reporterDirectory interface {
	FindByEmail(ctx context.Context, email string) (*domain.UserAccount, error)
}

// assigneePicker selects the owner for a new ticket.
type assigneePicker interface {
	PickAssignee(ctx context.Context) (*domain.UserAccount, error)
}

// IngestService runs one ingestion cycle: list unread mailbox messages,
// classify each, mutate the ticket store, and acknowledge the message.
type IngestService struct {
	source     mail.Source
	classifier *mail.Classifier
	tickets    ticketWriter
	directory  reporterDirectory
	assigner   assigneePicker
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// IngestDependencies bundles collaborators for ingestion.
type IngestDependencies struct {
	Source     mail.Source
	Classifier *mail.Classifier
	Tickets    ticketWriter
	Directory  reporterDirectory
	Assigner   assigneePicker
	Logger     *zap.Logger
	Metrics    *observability.Metrics
}

// NewIngestService constructs the service.
func NewIngestService(deps IngestDependencies) *IngestService {
	return &IngestService{
		source:     deps.Source,
		classifier: deps.Classifier,
		tickets:    deps.Tickets,
		directory:  deps.Directory,
		assigner:   deps.Assigner,
		logger:     deps.Logger,
		metrics:    deps.Metrics,
	}
}

// RunCycle processes all currently unread messages. A single message's
// failure never aborts the batch; only a mailbox-level failure is returned.
func (s *IngestService) RunCycle(ctx context.Context) error {
	session, err := s.source.Connect(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := session.Close(); err != nil {
			s.logger.Warn("mailbox session close failed", zap.Error(err))
		}
	}()

	messages, err := session.FetchUnread(ctx)
	if err != nil {
		return err
	}
	if len(messages) == 0 {
		s.logger.Debug("no new messages")
		return nil
	}

	s.logger.Info("processing unread messages", zap.Int("count", len(messages)))
	for _, msg := range messages {
		s.processMessage(ctx, session, msg)
	}
	return nil
}

// processMessage runs the per-message pipeline: classify, act, acknowledge.
// Acknowledgment is unconditional, even after a failed action, so a malformed
// or rejected message never blocks the queue. The failed message is dropped.
func (s *IngestService) processMessage(ctx context.Context, session mail.Session, msg domain.InboundMessage) {
	s.metrics.RecordIngest(observability.IngestProcessed)

	disposition := s.classifier.Classify(msg)
	switch disposition.Kind {
	case mail.DispositionIgnore:
		s.metrics.RecordIngest(observability.IngestIgnored)
		s.logger.Info("ignoring message",
			zap.Uint32("seq", msg.SeqNum),
			zap.String("from", msg.From),
			zap.String("reason", disposition.Reason))

	case mail.DispositionResolution:
		if err := s.resolveTicket(ctx, disposition.TicketID); err != nil {
			s.metrics.RecordIngest(observability.IngestFailures)
			if apperrors.IsNotFound(err) {
				s.logger.Warn("resolution notice for unknown ticket",
					zap.Int64("ticket_id", disposition.TicketID),
					zap.Uint32("seq", msg.SeqNum))
			} else {
				s.logger.Error("failed to resolve ticket",
					zap.Int64("ticket_id", disposition.TicketID),
					zap.Uint32("seq", msg.SeqNum),
					zap.Error(err))
			}
		} else {
			s.metrics.RecordIngest(observability.IngestResolved)
			s.logger.Info("ticket resolved from mailbox reply",
				zap.Int64("ticket_id", disposition.TicketID))
		}

	case mail.DispositionNewTicket:
		if ticket, err := s.createTicket(ctx, msg); err != nil {
			s.metrics.RecordIngest(observability.IngestFailures)
			s.logger.Error("failed to create ticket from message",
				zap.Uint32("seq", msg.SeqNum),
				zap.String("from", msg.From),
				zap.Error(err))
		} else {
			s.metrics.RecordIngest(observability.IngestTicketsCreated)
			s.logger.Info("ticket created from message",
				zap.Int64("ticket_id", ticket.ID),
				zap.String("staff", ticket.Staff))
		}
	}

	if err := session.MarkSeen(ctx, msg.SeqNum); err != nil {
		s.logger.Error("failed to mark message seen",
			zap.Uint32("seq", msg.SeqNum),
			zap.Error(err))
	}
}

func (s *IngestService) resolveTicket(ctx context.Context, id int64) error {
	date, clock := domain.ReportDateTime(time.Now())
	status := domain.TicketStatusResolved
	_, err := s.tickets.UpdateTicket(ctx, id, repository.TicketUpdate{
		Status:         &status,
		ResolutionTime: &clock,
		DateClosed:     &date,
	})
	return err
}

func (s *IngestService) createTicket(ctx context.Context, msg domain.InboundMessage) (*domain.Ticket, error) {
	date, clock := domain.ReportDateTime(time.Now())
	input := TicketCreateInput{
		Issue:        msg.Subject,
		Description:  msg.Body,
		ReportedBy:   msg.From,
		Status:       domain.TicketStatusOpen,
		DateReported: date,
		TimeReported: clock,
	}

	// Known reporters contribute their branch and department tags.
	if account, err := s.directory.FindByEmail(ctx, msg.From); err != nil {
		s.logger.Warn("reporter lookup failed", zap.String("from", msg.From), zap.Error(err))
	} else if account != nil {
		input.Branch = account.Branch
		input.Department = account.Department
	}

	if assignee, err := s.assigner.PickAssignee(ctx); err != nil {
		s.logger.Warn("assignment lookup failed", zap.Error(err))
	} else if assignee != nil {
		input.Staff = assignee.Email
	}

	return s.tickets.CreateTicket(ctx, input)
}
