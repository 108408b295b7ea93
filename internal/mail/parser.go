package mail

import (
	"errors"
	"io"
	"strings"

	"github.com/emersion/go-message"
	gomessage "github.com/emersion/go-message/mail"
	htmlcharset "golang.org/x/net/html/charset"
)

// go-message only decodes UTF-8 unless a charset reader is registered.
func init() {
	message.CharsetReader = htmlcharset.NewReaderLabel
}

// ParsedMessage holds the fields the classifier needs from a raw message.
type ParsedMessage struct {
	From    string
	Subject string
	Body    string
}

// ParseMessage reads a raw RFC 822 message and extracts the sender address,
// subject and the first text part of the body.
func ParseMessage(r io.Reader) (ParsedMessage, error) {
	var parsed ParsedMessage

	mr, err := gomessage.CreateReader(r)
	if err != nil {
		return parsed, err
	}
	defer mr.Close()

	header := mr.Header
	if subject, err := header.Subject(); err == nil {
		parsed.Subject = subject
	}
	if addrs, err := header.AddressList("From"); err == nil && len(addrs) > 0 {
		parsed.From = addrs[0].Address
	}
	if parsed.From == "" {
		return parsed, errors.New("message has no From address")
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// Keep what we have; a truncated body still classifies.
			break
		}
		inline, ok := part.Header.(*gomessage.InlineHeader)
		if !ok {
			continue
		}
		contentType, _, err := inline.ContentType()
		if err != nil {
			continue
		}
		if parsed.Body == "" && strings.HasPrefix(contentType, "text/") {
			data, err := io.ReadAll(part.Body)
			if err != nil {
				continue
			}
			parsed.Body = string(data)
		}
	}

	return parsed, nil
}
