package application

import (
	"context"
	"strings"
	"sync"

	"localledger/internal/application/flows"
	"localledger/internal/domain"
	"localledger/internal/ports/input"
	"localledger/internal/ports/output"

	"github.com/sirupsen/logrus"
)

// Compile-time check to ensure DialogueService implements the input port
var _ input.DialogueService = (*DialogueService)(nil)

const (
	msgEmptyMessage  = "❌ Empty message"
	msgBarcodeFailed = "❌ Could not process barcode. Please try again."
	msgVoiceFailed   = "❌ Could not process voice message. Please try again or type your command."
	msgNoBarcodeFlow = "❌ Please start a barcode session first, e.g. 'add new -b'"
)

// DialogueService struct - the composition root of the dialogue engine.
// Owns the session registry and command router; resolves media before any
// flow sees it; serializes all turns of one user behind a per-user mutex
// while different users proceed fully in parallel.
type DialogueService struct {
	sessions output.SessionRegistry
	registry flows.Registry
	router   *Router
	barcode  output.BarcodeDecoder
	speech   output.SpeechTranscriber

	// One mutex per user id, held for a whole turn. Entries are never
	// reclaimed; the per-user footprint is a single mutex.
	userLocks sync.Map
}

// NewDialogueService func
func NewDialogueService(
	sessions output.SessionRegistry,
	registry flows.Registry,
	router *Router,
	barcode output.BarcodeDecoder,
	speech output.SpeechTranscriber,
) *DialogueService {
	return &DialogueService{
		sessions: sessions,
		registry: registry,
		router:   router,
		barcode:  barcode,
		speech:   speech,
	}
}

// HandleMessage func - the single entry point consumed by the transport
// adapter. Total over its input: every path resolves to a reply string.
func (s *DialogueService) HandleMessage(ctx context.Context, msg domain.InboundMessage) string {
	if msg.UserID == "" {
		return "❌ Could not determine sender"
	}

	lock := s.lockFor(msg.UserID)
	lock.Lock()
	defer lock.Unlock()

	switch msg.Kind {
	case domain.MessageImage:
		return s.handleImage(ctx, msg.UserID, msg.Payload)
	case domain.MessageAudio:
		return s.handleAudio(ctx, msg.UserID, msg.Payload)
	default:
		return s.handleText(ctx, msg.UserID, msg.Payload, 0)
	}
}

func (s *DialogueService) lockFor(userID string) *sync.Mutex {
	actual, _ := s.userLocks.LoadOrStore(userID, &sync.Mutex{})
	return actual.(*sync.Mutex)
}

// handleText routes one text turn. depth counts voice redispatches and is
// bounded at one.
func (s *DialogueService) handleText(ctx context.Context, userID, text string, depth int) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return msgEmptyMessage
	}

	if session := s.sessions.Get(userID); session != nil {
		return s.advanceSession(ctx, session, domain.TurnInput{Kind: domain.InputText, Text: text}, depth)
	}

	return s.router.Route(ctx, userID, text, depth)
}

// handleImage resolves the image into a barcode value first. A resolver
// failure or an undecodable image leaves every session exactly as it was;
// the user may retry the same turn.
func (s *DialogueService) handleImage(ctx context.Context, userID, mediaURL string) string {
	code, err := s.barcode.DecodeBarcode(ctx, mediaURL)
	if err != nil {
		logrus.Errorf("Barcode resolution failed for %s: %v", userID, err)
		return msgBarcodeFailed
	}
	if code == "" {
		return msgBarcodeFailed
	}

	session := s.sessions.Get(userID)
	if session == nil {
		return msgNoBarcodeFlow
	}

	return s.advanceSession(ctx, session, domain.TurnInput{Kind: domain.InputBarcode, Text: code}, 0)
}

// handleAudio resolves the audio into a transcript first. With a voice
// session active the transcript flows through the Replace outcome; with
// any other session active it is fed to that flow as text; with no session
// it is routed directly as a top-level command. All three paths share the
// depth-one redispatch bound.
func (s *DialogueService) handleAudio(ctx context.Context, userID, mediaURL string) string {
	transcript, err := s.speech.TranscribeSpeech(ctx, mediaURL)
	if err != nil {
		logrus.Errorf("Speech resolution failed for %s: %v", userID, err)
		return msgVoiceFailed
	}
	if transcript == "" {
		return msgVoiceFailed
	}

	logrus.Infof("Voice message from %s transcribed: %s", userID, transcript)

	session := s.sessions.Get(userID)
	if session == nil {
		return s.handleText(ctx, userID, transcript, 1)
	}

	kind := domain.InputText
	if session.Flow == domain.FlowVoiceInput {
		kind = domain.InputTranscript
	}
	return s.advanceSession(ctx, session, domain.TurnInput{Kind: kind, Text: strings.TrimSpace(transcript)}, 0)
}

// advanceSession runs one turn of the session's state machine and applies
// the outcome. Session mutations complete before the reply is returned, so
// the user's next message observes post-turn state.
func (s *DialogueService) advanceSession(ctx context.Context, session *domain.Session, in domain.TurnInput, depth int) string {
	handler, ok := s.registry[session.Flow]
	if !ok {
		logrus.Errorf("No handler for flow %s; ending session for %s", session.Flow, session.UserID)
		s.sessions.End(session.UserID)
		return "❌ An error occurred. Please try again."
	}

	result := handler.Advance(ctx, session, in)

	switch result.Outcome {
	case domain.TurnContinue:
		err := s.sessions.Update(session.UserID, func(sess *domain.Session) {
			if result.Flow != "" {
				sess.Flow = result.Flow
			}
			sess.Step = result.Step
			sess.Data = result.Data
		})
		if err != nil {
			// The per-user lock makes a vanished session a core bug.
			logrus.Errorf("Session update failed for %s: %v", session.UserID, err)
			return "❌ An error occurred. Please try again."
		}
		return result.Reply

	case domain.TurnRejected:
		return result.Reply

	case domain.TurnCommitted, domain.TurnCancelled:
		s.sessions.End(session.UserID)
		return result.Reply

	case domain.TurnReplace:
		s.sessions.End(session.UserID)
		if depth >= 1 {
			logrus.Errorf("Redispatch depth exceeded for %s", session.UserID)
			return msgUnknownCommand
		}
		return s.handleText(ctx, session.UserID, result.Redispatch, depth+1)
	}

	logrus.Errorf("Unknown turn outcome %d for flow %s", result.Outcome, session.Flow)
	return "❌ An error occurred. Please try again."
}
