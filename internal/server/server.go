package server

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/travel-places/internal/config"
	"github.com/ahmetcoskunkizilkaya/travel-places/internal/dto"
	"github.com/ahmetcoskunkizilkaya/travel-places/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/travel-places/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/travel-places/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/travel-places/internal/routes"
	"github.com/ahmetcoskunkizilkaya/travel-places/internal/services"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"gorm.io/gorm"
)

// Options carries the optional collaborators of New.
type Options struct {
	// LimiterStorage backs the rate limiters. Nil keeps counters in memory.
	LimiterStorage fiber.Storage
	// AccessLog enables the per-request log line.
	AccessLog bool
}

// New wires services, handlers and middleware into a ready Fiber app.
func New(cfg *config.Config, db *gorm.DB, m *metrics.Metrics, opts Options) *fiber.App {
	authService := services.NewAuthService(db, cfg)
	moderationService := services.NewModerationService(cfg.ReviewModeration)
	placeService := services.NewPlaceService(db, moderationService)
	adminService := services.NewAdminService(db)

	app := fiber.New(fiber.Config{
		BodyLimit:    4 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))
	// Outside recover so a panicking handler is still counted, as a 500.
	app.Use(m.Middleware())
	app.Use(recover.New())
	app.Use(requestid.New())
	if opts.AccessLog {
		app.Use(fiberlogger.New(fiberlogger.Config{
			Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${locals:requestid}\n",
		}))
	}
	app.Use(middleware.CORS(cfg))
	app.Use(middleware.SecurityHeaders())

	routes.Setup(app, cfg, authService, routes.Handlers{
		Auth:   handlers.NewAuthHandler(authService, m),
		Health: handlers.NewHealthHandler(db),
		Place:  handlers.NewPlaceHandler(placeService, m),
		Admin:  handlers.NewAdminHandler(adminService),
	}, m, opts.LimiterStorage)

	return app
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= fiber.StatusInternalServerError {
		requestID, _ := c.Locals("requestid").(string)
		slog.Error("unhandled server error",
			"request_id", requestID,
			"method", c.Method(),
			"path", c.Path(),
			"error", err.Error(),
		)
		message = "Internal server error"
	}

	return c.Status(code).JSON(dto.ErrorResponse{Error: message})
}
