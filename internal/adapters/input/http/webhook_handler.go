package http

import (
	"strings"

	"localledger/internal/domain"
	"localledger/internal/ports/input"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// WebhookHandler struct - Primary/Driving adapter for the messaging webhook
type WebhookHandler struct {
	service input.DialogueService
	db      *gorm.DB
}

// NewWebhookHandler func - Creates new webhook handler
func NewWebhookHandler(service input.DialogueService, db *gorm.DB) *WebhookHandler {
	return &WebhookHandler{
		service: service,
		db:      db,
	}
}

// HealthCheck func
func (h *WebhookHandler) HealthCheck(c *fiber.Ctx) error {
	sqlDB, err := h.db.DB()
	if err != nil {
		logrus.Errorln(err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error"})
	}

	if err = sqlDB.Ping(); err != nil {
		logrus.Errorln(err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error"})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
}

// HandleWebhook func - Handles incoming messaging webhook requests. The
// provider posts form-encoded turns; replies go back as TwiML in the
// response body.
func (h *WebhookHandler) HandleWebhook(c *fiber.Ctx) error {
	msg := h.parseInbound(c)
	if msg.UserID == "" {
		logrus.Errorln("Webhook request without sender")
		return c.Status(fiber.StatusBadRequest).SendString("missing sender")
	}

	logrus.Infof("Inbound %s message from %s", msg.Kind, msg.UserID)

	reply := h.service.HandleMessage(c.UserContext(), msg)

	return writeTwiML(c, reply)
}

// parseInbound - Converts the provider's form fields to a domain message.
// Media takes precedence over body text when both are present.
func (h *WebhookHandler) parseInbound(c *fiber.Ctx) domain.InboundMessage {
	sender := strings.TrimPrefix(c.FormValue("From"), "whatsapp:")

	msg := domain.InboundMessage{
		UserID:  sender,
		Kind:    domain.MessageText,
		Payload: c.FormValue("Body"),
	}

	mediaURL := c.FormValue("MediaUrl0")
	if mediaURL == "" {
		return msg
	}

	contentType := c.FormValue("MediaContentType0")
	switch {
	case strings.HasPrefix(contentType, "image/"):
		msg.Kind = domain.MessageImage
		msg.Payload = mediaURL
	case strings.HasPrefix(contentType, "audio/"):
		msg.Kind = domain.MessageAudio
		msg.Payload = mediaURL
	default:
		logrus.Warnf("Unsupported media type %s from %s", contentType, sender)
	}
	return msg
}
