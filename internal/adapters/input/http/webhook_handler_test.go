package http

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"localledger/internal/domain"

	"github.com/gofiber/fiber/v2"
)

// MockDialogueService implements input.DialogueService for testing
type MockDialogueService struct {
	HandleMessageFunc func(ctx context.Context, msg domain.InboundMessage) string

	// Captured values for assertions
	LastMessage *domain.InboundMessage
}

func (m *MockDialogueService) HandleMessage(ctx context.Context, msg domain.InboundMessage) string {
	m.LastMessage = &msg
	if m.HandleMessageFunc != nil {
		return m.HandleMessageFunc(ctx, msg)
	}
	return "ok"
}

func newTestApp(service *MockDialogueService) *fiber.App {
	app := fiber.New()
	hdl := NewWebhookHandler(service, nil)
	app.Post("/webhook/message", hdl.HandleWebhook)
	return app
}

func postForm(t *testing.T, app *fiber.App, form url.Values) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/webhook/message", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test failed: %v", err)
	}
	return resp
}

func TestHandleWebhookTextMessage(t *testing.T) {
	service := &MockDialogueService{
		HandleMessageFunc: func(ctx context.Context, msg domain.InboundMessage) string {
			return "reply text"
		},
	}
	app := newTestApp(service)

	resp := postForm(t, app, url.Values{
		"From": {"whatsapp:+919876543210"},
		"Body": {"help"},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	if service.LastMessage == nil {
		t.Fatal("Expected service invoked")
	}
	if service.LastMessage.UserID != "+919876543210" {
		t.Errorf("Expected whatsapp prefix stripped, got %q", service.LastMessage.UserID)
	}
	if service.LastMessage.Kind != domain.MessageText || service.LastMessage.Payload != "help" {
		t.Errorf("Unexpected message: %+v", service.LastMessage)
	}

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "<Message>reply text</Message>") {
		t.Errorf("Expected TwiML reply, got: %s", body)
	}
	if !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/xml") {
		t.Errorf("Expected text/xml content type, got %s", resp.Header.Get("Content-Type"))
	}
}

func TestHandleWebhookImageTakesPrecedenceOverBody(t *testing.T) {
	service := &MockDialogueService{}
	app := newTestApp(service)

	postForm(t, app, url.Values{
		"From":              {"whatsapp:+919876543210"},
		"Body":              {"some caption"},
		"MediaUrl0":         {"https://media.example/img1"},
		"MediaContentType0": {"image/jpeg"},
	})

	if service.LastMessage.Kind != domain.MessageImage {
		t.Errorf("Expected image kind, got %s", service.LastMessage.Kind)
	}
	if service.LastMessage.Payload != "https://media.example/img1" {
		t.Errorf("Expected media url as payload, got %q", service.LastMessage.Payload)
	}
}

func TestHandleWebhookAudioMessage(t *testing.T) {
	service := &MockDialogueService{}
	app := newTestApp(service)

	postForm(t, app, url.Values{
		"From":              {"whatsapp:+919876543210"},
		"MediaUrl0":         {"https://media.example/voice1"},
		"MediaContentType0": {"audio/ogg"},
	})

	if service.LastMessage.Kind != domain.MessageAudio {
		t.Errorf("Expected audio kind, got %s", service.LastMessage.Kind)
	}
}

func TestHandleWebhookUnsupportedMediaFallsBackToText(t *testing.T) {
	service := &MockDialogueService{}
	app := newTestApp(service)

	postForm(t, app, url.Values{
		"From":              {"whatsapp:+919876543210"},
		"Body":              {"see attached"},
		"MediaUrl0":         {"https://media.example/doc1"},
		"MediaContentType0": {"application/pdf"},
	})

	if service.LastMessage.Kind != domain.MessageText || service.LastMessage.Payload != "see attached" {
		t.Errorf("Expected text fallback, got %+v", service.LastMessage)
	}
}

func TestHandleWebhookMissingSenderRejected(t *testing.T) {
	service := &MockDialogueService{}
	app := newTestApp(service)

	resp := postForm(t, app, url.Values{"Body": {"help"}})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400 without sender, got %d", resp.StatusCode)
	}
	if service.LastMessage != nil {
		t.Error("Expected service not invoked without sender")
	}
}

func TestTwiMLEscapesReply(t *testing.T) {
	service := &MockDialogueService{
		HandleMessageFunc: func(ctx context.Context, msg domain.InboundMessage) string {
			return "a < b & c"
		},
	}
	app := newTestApp(service)

	resp := postForm(t, app, url.Values{
		"From": {"whatsapp:+919876543210"},
		"Body": {"t"},
	})

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "a &lt; b &amp; c") {
		t.Errorf("Expected XML-escaped reply, got: %s", body)
	}
}
