package routes

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog/log"

	"github.com/Ananth-NQI/kilimo-smart/internal/handlers"
	"github.com/Ananth-NQI/kilimo-smart/internal/middleware"
)

// Handlers groups the HTTP handlers mounted by SetupRoutes.
type Handlers struct {
	USSD   *handlers.USSDHandler
	SMS    *handlers.SMSHandler
	Health *handlers.HealthHandler
	Admin  *handlers.AdminHandler
}

// NewApp creates the fiber app with the common middleware stack.
func NewApp(appName string) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               appName,
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(middleware.RequestID())
	app.Use(middleware.AccessLog())
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, " + middleware.HeaderRequestID,
		AllowMethods: "GET, POST, OPTIONS",
	}))
	return app
}

// SetupRoutes configures all routes. Test routes are only mounted in
// development.
func SetupRoutes(app *fiber.App, h Handlers, development bool) {
	app.Get("/", h.Health.Home)
	app.Get("/health", h.Health.Check)

	// Menu gateway callbacks
	app.Post("/ussd", h.USSD.HandleCallback)
	app.Get("/ussd", h.USSD.HandleCallback)

	// Dialogue gateway callbacks
	app.Post("/sms", h.SMS.HandleWebhook)

	if development {
		app.Post("/test/sms", h.SMS.HandleTestWebhook)
		log.Warn().Msg("development test routes enabled at /test/*")
	}

	admin := app.Group("/admin")
	admin.Get("/stats", h.Admin.GetStats)
}
