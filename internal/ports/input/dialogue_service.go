package input

import (
	"context"

	"localledger/internal/domain"
)

// DialogueService interface - Input port
// The single entry point the transport adapter drives. Every code path
// resolves to a display string; the conversational channel has no notion of
// a protocol-level error, so no error is returned.
type DialogueService interface {
	// HandleMessage routes one inbound message through the session
	// registry and the matching flow, and returns the reply text.
	// Turns for a single user are processed in strict arrival order.
	HandleMessage(ctx context.Context, msg domain.InboundMessage) string
}
