package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Ananth-NQI/kilimo-smart/internal/logx"
	"github.com/Ananth-NQI/kilimo-smart/internal/services"
)

// USSDHandler serves the menu protocol webhook.
type USSDHandler struct {
	menu *services.MenuService
}

func NewUSSDHandler(menu *services.MenuService) *USSDHandler {
	return &USSDHandler{menu: menu}
}

// USSDPayload is the gateway's menu callback. Fields arrive as form values
// on POST and as query parameters on GET.
type USSDPayload struct {
	SessionID   string `form:"sessionId" query:"sessionId"`
	ServiceCode string `form:"serviceCode" query:"serviceCode"`
	PhoneNumber string `form:"phoneNumber" query:"phoneNumber"`
	Text        string `form:"text" query:"text"`
}

// HandleCallback answers with "CON ..." or "END ..." as plain text.
func (h *USSDHandler) HandleCallback(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var payload USSDPayload
	if c.Method() == fiber.MethodPost && len(c.Body()) > 0 {
		if err := c.BodyParser(&payload); err != nil {
			logx.FromContext(ctx).Warn().Err(err).Msg("invalid ussd payload")
		}
	}
	if payload.SessionID == "" {
		if err := c.QueryParser(&payload); err != nil {
			logx.FromContext(ctx).Warn().Err(err).Msg("invalid ussd query")
		}
	}

	logx.FromContext(ctx).Debug().
		Str("session_id", payload.SessionID).
		Str("service_code", payload.ServiceCode).
		Str("text", payload.Text).
		Msg("ussd callback")

	reply := h.menu.Handle(ctx, services.MenuRequest{
		SessionID:   strings.TrimSpace(payload.SessionID),
		ServiceCode: payload.ServiceCode,
		PhoneNumber: strings.TrimSpace(payload.PhoneNumber),
		Text:        payload.Text,
	})

	c.Type("txt", "utf-8")
	return c.Status(fiber.StatusOK).SendString(reply.String())
}
