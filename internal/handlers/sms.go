package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Ananth-NQI/kilimo-smart/internal/logx"
	"github.com/Ananth-NQI/kilimo-smart/internal/services"
)

// SMSHandler serves the dialogue protocol webhook. The reply travels back
// over SMS; the HTTP response is only an acknowledgement.
type SMSHandler struct {
	dialogue *services.DialogueService
}

func NewSMSHandler(dialogue *services.DialogueService) *SMSHandler {
	return &SMSHandler{dialogue: dialogue}
}

// SMSPayload represents an incoming SMS callback.
type SMSPayload struct {
	From string `form:"from" json:"from"`
	Text string `form:"text" json:"text"`
}

func (h *SMSHandler) parse(c *fiber.Ctx) (from, text string, ok bool) {
	var payload SMSPayload
	if err := c.BodyParser(&payload); err != nil {
		logx.FromContext(c.UserContext()).Warn().Err(err).Msg("error parsing sms webhook")
		return "", "", false
	}
	from = strings.TrimSpace(payload.From)
	text = strings.TrimSpace(payload.Text)
	return from, text, from != "" && text != ""
}

func missingParameters(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"status":  "error",
		"message": "Missing parameters",
	})
}

// HandleWebhook processes an incoming SMS and acknowledges it.
func (h *SMSHandler) HandleWebhook(c *fiber.Ctx) error {
	from, text, ok := h.parse(c)
	if !ok {
		return missingParameters(c)
	}

	ctx := c.UserContext()
	logx.FromContext(ctx).Info().Str("sender", from).Msg("sms received")
	h.dialogue.Handle(ctx, from, text)

	return c.JSON(fiber.Map{"status": "ok"})
}

// HandleTestWebhook processes a message like HandleWebhook and also returns
// the reply in the response body (for development).
func (h *SMSHandler) HandleTestWebhook(c *fiber.Ctx) error {
	from, text, ok := h.parse(c)
	if !ok {
		return missingParameters(c)
	}

	reply := h.dialogue.Handle(c.UserContext(), from, text)
	return c.JSON(fiber.Map{
		"status": "ok",
		"reply":  reply,
	})
}
