package mail

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseMessagePlainText(t *testing.T) {
	raw := strings.Join([]string{
		"From: Alice <a@gmail.com>",
		"To: helpdesk@may-baker.com",
		"Subject: Printer broken",
		"Content-Type: text/plain; charset=utf-8",
		"",
		"please help",
		"",
	}, "\r\n")

	parsed, err := ParseMessage(strings.NewReader(raw))
	require.NoError(t, err)
	require.Equal(t, "a@gmail.com", parsed.From)
	require.Equal(t, "Printer broken", parsed.Subject)
	require.Contains(t, parsed.Body, "please help")
}

func TestParseMessageMultipartPrefersFirstTextPart(t *testing.T) {
	raw := strings.Join([]string{
		"From: Bob <b@may-baker.com>",
		"Subject: Re: New Helpdesk Request Assigned (ID: 42): Printer broken",
		"MIME-Version: 1.0",
		"Content-Type: multipart/alternative; boundary=frontier",
		"",
		"--frontier",
		"Content-Type: text/plain",
		"",
		"fixed, thanks",
		"--frontier",
		"Content-Type: text/html",
		"",
		"<p>fixed, thanks</p>",
		"--frontier--",
		"",
	}, "\r\n")

	parsed, err := ParseMessage(strings.NewReader(raw))
	require.NoError(t, err)
	require.Equal(t, "b@may-baker.com", parsed.From)
	require.Contains(t, parsed.Body, "fixed, thanks")
	require.NotContains(t, parsed.Body, "<p>")
}

func TestParseMessageLatin1Charset(t *testing.T) {
	raw := strings.Join([]string{
		"From: Chantal <c@may-baker.com>",
		"Subject: =?ISO-8859-1?Q?Probl=E8me_imprimante?=",
		"Content-Type: text/plain; charset=iso-8859-1",
		"",
		"la machine \xe0 caf\xe9 est en panne",
		"",
	}, "\r\n")

	parsed, err := ParseMessage(strings.NewReader(raw))
	require.NoError(t, err)
	require.Equal(t, "c@may-baker.com", parsed.From)
	require.Equal(t, "Problème imprimante", parsed.Subject)
	require.Contains(t, parsed.Body, "la machine à café est en panne")
}

func TestParseMessageWithoutFrom(t *testing.T) {
	raw := "Subject: orphan\r\n\r\nno sender\r\n"

	_, err := ParseMessage(strings.NewReader(raw))
	require.Error(t, err)
}
