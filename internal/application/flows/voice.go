package flows

import (
	"context"

	"localledger/internal/domain"
)

// VoiceInput waits for one voice message and hands its transcript back to
// the router as a top-level command via the Replace outcome. The router
// bounds redispatch to a depth of one, so a transcript can never start
// another voice session.
type VoiceInput struct{}

// Start func
func (f *VoiceInput) Start() (domain.Step, domain.Accumulator, string) {
	prompt := "🎤 *Voice Input Mode*\n\nSend a voice message with a command, e.g.:\n• 'add milk 10 20.50'\n• 'pay'\n• 'daily'\n\nType 'end' to exit voice mode."
	return domain.StepAwaitingVoice, domain.VoiceWait{}, prompt
}

// Advance func
func (f *VoiceInput) Advance(ctx context.Context, session *domain.Session, in domain.TurnInput) domain.TurnResult {
	switch in.Kind {
	case domain.InputTranscript:
		return domain.ReplaceTurn(in.Text)
	case domain.InputText:
		if isTerminator(in.Text) {
			return domain.CancelTurn("✅ Voice mode ended.")
		}
		return domain.RejectTurn("🎤 Send a voice message, or type 'end' to exit voice mode.")
	}
	return domain.RejectTurn("🎤 Send a voice message, or type 'end' to exit voice mode.")
}
