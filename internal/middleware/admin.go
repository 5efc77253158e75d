package middleware

import (
	"github.com/ahmetcoskunkizilkaya/travel-places/internal/dto"
	"github.com/ahmetcoskunkizilkaya/travel-places/internal/models"
	"github.com/ahmetcoskunkizilkaya/travel-places/internal/services"
	"github.com/gofiber/fiber/v2"
)

// Authorize reports whether identity holds role. Admins pass every check.
func Authorize(identity *models.User, role string) error {
	if identity == nil {
		return services.ErrInvalidToken
	}
	if identity.IsAdmin() || identity.Role == role {
		return nil
	}
	if role == models.RoleAdmin {
		return services.ErrAdminRequired
	}
	return services.ErrForbidden
}

// AdminRequired gates a route group on the resolved identity's role. The role
// comes from Authenticate, so no extra store lookup happens here.
func AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: services.ErrInvalidToken.Error(),
			})
		}
		if err := Authorize(user, models.RoleAdmin); err != nil {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Error: err.Error()})
		}
		return c.Next()
	}
}
