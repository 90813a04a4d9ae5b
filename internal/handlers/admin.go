package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Ananth-NQI/kilimo-smart/internal/logx"
	"github.com/Ananth-NQI/kilimo-smart/internal/storage"
)

// AdminHandler exposes operational statistics.
type AdminHandler struct {
	store   storage.SessionStore
	journal storage.JournalStore
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(store storage.SessionStore, journal storage.JournalStore) *AdminHandler {
	return &AdminHandler{
		store:   store,
		journal: journal,
	}
}

// GetStats returns live session counts and journal aggregates.
func (h *AdminHandler) GetStats(c *fiber.Ctx) error {
	ctx := c.UserContext()

	summary, err := h.journal.Summary(ctx)
	if err != nil {
		logx.FromContext(ctx).Error().Err(err).Msg("failed to summarize journal")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch interaction statistics",
		})
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"sessions": h.store.Stats(),
		"journal":  summary,
	})
}
