package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Ananth-NQI/kilimo-smart/internal/storage"
)

// Pinger reports whether a backing database is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Features describes which optional integrations are active.
type Features struct {
	Advisor          string `json:"advisor"`
	AdvisorReady     bool   `json:"advisor_ready"`
	WeatherSimulated bool   `json:"weather_simulated"`
	Journal          string `json:"journal"`
}

// HealthHandler handles health check requests
type HealthHandler struct {
	Service  string
	Version  string
	store    storage.SessionStore
	db       Pinger
	features Features
	now      func() time.Time
}

// NewHealthHandler creates a new health handler. db may be nil when no
// database is used.
func NewHealthHandler(version string, store storage.SessionStore, db Pinger, features Features) *HealthHandler {
	return &HealthHandler{
		Service:  "Kilimo Smart",
		Version:  version,
		store:    store,
		db:       db,
		features: features,
		now:      time.Now,
	}
}

// Home describes the service.
func (h *HealthHandler) Home(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "Karibu Kilimo Smart USSD/SMS gateway",
		"version": h.Version,
		"time":    h.now().Format(time.RFC3339),
		"endpoints": fiber.Map{
			"health": "/health",
			"ussd":   "/ussd",
			"sms":    "/sms",
			"admin":  "/admin/stats",
		},
	})
}

// Check returns the health status of the service
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	status := "healthy"
	statusCode := fiber.StatusOK

	dbStatus := "unused"
	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			status = "unhealthy"
			statusCode = fiber.StatusServiceUnavailable
			dbStatus = "error: " + err.Error()
		} else {
			dbStatus = "connected"
		}
	}

	return c.Status(statusCode).JSON(fiber.Map{
		"status":   status,
		"service":  h.Service,
		"version":  h.Version,
		"database": dbStatus,
		"sessions": h.store.Stats(),
		"features": h.features,
	})
}
