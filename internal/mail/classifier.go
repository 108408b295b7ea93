package mail

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/may-baker/helpdesk-service/internal/config"
	"github.com/may-baker/helpdesk-service/internal/domain"
)

// DispositionKind enumerates classifier outcomes.
type DispositionKind string

const (
	DispositionIgnore     DispositionKind = "ignore"
	DispositionNewTicket  DispositionKind = "new_ticket"
	DispositionResolution DispositionKind = "resolution"
)

// Disposition is the classifier verdict for one inbound message. TicketID is
// set only for resolution notices.
type Disposition struct {
	Kind     DispositionKind
	TicketID int64
	Reason   string
}

// AssignedSubjectMarker is the fixed phrase embedded in assignment
// notification subjects. Replies quoting it are candidate resolution notices.
const AssignedSubjectMarker = "New Helpdesk Request Assigned"

var replySubjectPattern = regexp.MustCompile(`Re:\s*` + AssignedSubjectMarker + `\s*\(ID:\s*(\d+)\)`)

// Classifier decides whether an inbound message is in scope and whether it
// opens a new ticket or resolves an existing one. It is a pure function over
// the message plus configuration; it performs no I/O.
type Classifier struct {
	allowedDomains  []string
	keywords        []string
	excludedSenders map[string]struct{}
}

// NewClassifier builds a classifier from ingestion configuration.
func NewClassifier(cfg config.IngestConfig) *Classifier {
	excluded := make(map[string]struct{}, len(cfg.ExcludedSenders))
	for _, sender := range cfg.ExcludedSenders {
		excluded[strings.ToLower(strings.TrimSpace(sender))] = struct{}{}
	}
	domains := make([]string, 0, len(cfg.AllowedDomains))
	for _, d := range cfg.AllowedDomains {
		d = strings.ToLower(strings.TrimSpace(d))
		if d == "" {
			continue
		}
		if !strings.HasPrefix(d, "@") {
			d = "@" + d
		}
		domains = append(domains, d)
	}
	keywords := make([]string, 0, len(cfg.ResolutionKeywords))
	for _, k := range cfg.ResolutionKeywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			keywords = append(keywords, k)
		}
	}
	return &Classifier{
		allowedDomains:  domains,
		keywords:        keywords,
		excludedSenders: excluded,
	}
}

// Classify returns the disposition for one message.
//
// Order: excluded senders and non-allow-listed domains are ignored outright;
// a reply-formatted subject with a resolution keyword in the body wins over
// new-ticket handling; a reply-formatted subject without a keyword falls
// through to a new ticket.
func (c *Classifier) Classify(msg domain.InboundMessage) Disposition {
	sender := strings.ToLower(strings.TrimSpace(msg.From))

	if _, ok := c.excludedSenders[sender]; ok {
		return Disposition{Kind: DispositionIgnore, Reason: "sender excluded"}
	}
	if !c.senderAllowed(sender) {
		return Disposition{Kind: DispositionIgnore, Reason: "sender domain not allow-listed"}
	}

	if id, ok := ReplyTicketID(msg.Subject); ok && c.hasResolutionKeyword(msg.Body) {
		return Disposition{Kind: DispositionResolution, TicketID: id}
	}

	return Disposition{Kind: DispositionNewTicket}
}

// ReplyTicketID extracts the ticket id from a reply-to-assignment subject.
func ReplyTicketID(subject string) (int64, bool) {
	match := replySubjectPattern.FindStringSubmatch(subject)
	if match == nil {
		return 0, false
	}
	id, err := strconv.ParseInt(match[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func (c *Classifier) senderAllowed(sender string) bool {
	for _, suffix := range c.allowedDomains {
		if strings.HasSuffix(sender, suffix) {
			return true
		}
	}
	return false
}

func (c *Classifier) hasResolutionKeyword(body string) bool {
	lower := strings.ToLower(body)
	for _, keyword := range c.keywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}
