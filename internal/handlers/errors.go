package handlers

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/ahmetcoskunkizilkaya/travel-places/internal/dto"
	"github.com/ahmetcoskunkizilkaya/travel-places/internal/services"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
)

var (
	errInvalidBody    = errors.New("invalid request body")
	errInvalidPlaceID = errors.New("invalid place ID")
	errInvalidUserID  = errors.New("invalid user ID")
)

// respondError maps a service error to its status. Anything outside the known
// classes is logged and reported as a generic 500.
func respondError(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	if status < fiber.StatusInternalServerError {
		return c.Status(status).JSON(dto.ErrorResponse{Error: err.Error()})
	}

	requestID, _ := c.Locals("requestid").(string)
	slog.Error("request failed",
		"request_id", requestID,
		"method", c.Method(),
		"path", c.Path(),
		"error", err.Error(),
	)
	if hub := sentryfiber.GetHubFromContext(c); hub != nil {
		hub.CaptureException(err)
	}
	return c.Status(status).JSON(dto.ErrorResponse{Error: "Internal server error"})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrBadRequest), errors.Is(err, errInvalidBody),
		errors.Is(err, errInvalidPlaceID), errors.Is(err, errInvalidUserID):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, services.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrConflict):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: message})
}

// parseID reads a numeric path parameter. Anything that is not an integer is
// rejected with invalid; integers below 1 never name a row and get notFound.
func parseID(c *fiber.Ctx, name string, invalid, notFound error) (uint, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil {
		return 0, invalid
	}
	if id <= 0 {
		return 0, notFound
	}
	return uint(id), nil
}
