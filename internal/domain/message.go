package domain

// InboundMessage is the ephemeral parsed form of one unread mailbox message.
// SeqNum is the mailbox-assigned sequence number, used only to acknowledge the
// message after processing.
type InboundMessage struct {
	SeqNum  uint32
	From    string
	Subject string
	Body    string
}
