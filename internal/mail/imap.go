package mail

import (
	"context"
	"fmt"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"go.uber.org/zap"

	"github.com/may-baker/helpdesk-service/internal/config"
	"github.com/may-baker/helpdesk-service/internal/domain"
)

// Session is one mailbox connection. Sequence numbers are only valid within
// the session that produced them, so fetch and acknowledgment share a session.
type Session interface {
	FetchUnread(ctx context.Context) ([]domain.InboundMessage, error)
	MarkSeen(ctx context.Context, seqNum uint32) error
	Close() error
}

// Source opens mailbox sessions.
type Source interface {
	Connect(ctx context.Context) (Session, error)
}

type imapSource struct {
	cfg    config.MailboxConfig
	logger *zap.Logger
}

// NewIMAPSource creates a Source backed by a remote IMAP mailbox.
func NewIMAPSource(cfg config.MailboxConfig, logger *zap.Logger) Source {
	return &imapSource{cfg: cfg, logger: logger}
}

func (s *imapSource) Connect(ctx context.Context) (Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		c   *client.Client
		err error
	)
	if s.cfg.TLS {
		c, err = client.DialTLS(s.cfg.Addr(), nil)
	} else {
		c, err = client.Dial(s.cfg.Addr())
	}
	if err != nil {
		return nil, fmt.Errorf("dial imap %s: %w", s.cfg.Addr(), err)
	}
	c.Timeout = s.cfg.Timeout()

	if err := c.Login(s.cfg.User, s.cfg.Password); err != nil {
		_ = c.Logout()
		return nil, fmt.Errorf("imap login: %w", err)
	}
	if _, err := c.Select(s.cfg.Folder, false); err != nil {
		_ = c.Logout()
		return nil, fmt.Errorf("select %s: %w", s.cfg.Folder, err)
	}

	return &imapSession{client: c, logger: s.logger}, nil
}

type imapSession struct {
	client *client.Client
	logger *zap.Logger
}

// FetchUnread lists messages without the \Seen flag and parses each body.
// A message that fails to parse is still returned with its sequence number so
// the loop can acknowledge it instead of refetching it forever.
func (s *imapSession) FetchUnread(ctx context.Context) ([]domain.InboundMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	criteria := imap.NewSearchCriteria()
	criteria.WithoutFlags = []string{imap.SeenFlag}
	seqNums, err := s.client.Search(criteria)
	if err != nil {
		return nil, fmt.Errorf("search unseen: %w", err)
	}
	if len(seqNums) == 0 {
		return nil, nil
	}

	seqset := new(imap.SeqSet)
	seqset.AddNum(seqNums...)

	// Peek keeps the fetch from setting \Seen; acknowledgment is explicit.
	section := &imap.BodySectionName{Peek: true}
	items := []imap.FetchItem{section.FetchItem()}

	ch := make(chan *imap.Message, len(seqNums))
	done := make(chan error, 1)
	go func() {
		done <- s.client.Fetch(seqset, items, ch)
	}()

	var messages []domain.InboundMessage
	for raw := range ch {
		msg := domain.InboundMessage{SeqNum: raw.SeqNum}
		body := raw.GetBody(section)
		if body == nil {
			s.logger.Warn("message without body section", zap.Uint32("seq", raw.SeqNum))
			messages = append(messages, msg)
			continue
		}
		parsed, err := ParseMessage(body)
		if err != nil {
			s.logger.Warn("failed to parse message", zap.Uint32("seq", raw.SeqNum), zap.Error(err))
			messages = append(messages, msg)
			continue
		}
		msg.From = parsed.From
		msg.Subject = parsed.Subject
		msg.Body = parsed.Body
		messages = append(messages, msg)
	}
	if err := <-done; err != nil {
		return nil, fmt.Errorf("fetch unseen: %w", err)
	}
	return messages, nil
}

func (s *imapSession) MarkSeen(ctx context.Context, seqNum uint32) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	seqset := new(imap.SeqSet)
	seqset.AddNum(seqNum)
	item := imap.FormatFlagsOp(imap.AddFlags, true)
	flags := []interface{}{imap.SeenFlag}
	if err := s.client.Store(seqset, item, flags, nil); err != nil {
		return fmt.Errorf("store seen flag: %w", err)
	}
	return nil
}

func (s *imapSession) Close() error {
	return s.client.Logout()
}
