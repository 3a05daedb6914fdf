package domain

// MessageKind is the transport-level classification of an inbound message.
type MessageKind string

const (
	MessageText  MessageKind = "text"
	MessageImage MessageKind = "image"
	MessageAudio MessageKind = "audio"
)

// InboundMessage is what the transport adapter extracts from a webhook call:
// a stable sender id, the message kind, and either the text body or a
// fetchable media reference.
type InboundMessage struct {
	UserID  string
	Kind    MessageKind
	Payload string
}
