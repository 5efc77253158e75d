package middleware

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/travel-places/internal/config"
	"github.com/ahmetcoskunkizilkaya/travel-places/internal/dto"
	"github.com/ahmetcoskunkizilkaya/travel-places/internal/models"
	"github.com/ahmetcoskunkizilkaya/travel-places/internal/services"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const identityKey = "identity"

// JWTProtected verifies the bearer token signature. The decoded token is left
// in Locals("user") for Authenticate.
func JWTProtected(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{JWTAlg: jwt.SigningMethodHS256.Alg(), Key: []byte(cfg.JWTSecret)},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: services.ErrInvalidToken.Error(),
			})
		},
	})
}

// Authenticate resolves the verified token to the acting user. Must run after
// JWTProtected.
func Authenticate(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := c.Locals("user").(*jwt.Token)
		if !ok || token == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: services.ErrInvalidToken.Error(),
			})
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: services.ErrInvalidToken.Error(),
			})
		}

		user, err := authService.IdentityFromClaims(c.UserContext(), claims)
		if err != nil {
			status := fiber.StatusInternalServerError
			message := "Internal server error"
			switch {
			case errors.Is(err, services.ErrUnauthorized):
				status, message = fiber.StatusUnauthorized, err.Error()
			case errors.Is(err, services.ErrForbidden):
				status, message = fiber.StatusForbidden, err.Error()
			case errors.Is(err, services.ErrNotFound):
				status, message = fiber.StatusNotFound, err.Error()
			default:
				slog.Error("identity lookup failed", "path", c.Path(), "error", err)
			}
			return c.Status(status).JSON(dto.ErrorResponse{Error: message})
		}

		c.Locals(identityKey, user)
		return c.Next()
	}
}

// CurrentUser returns the identity set by Authenticate, or nil.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(identityKey).(*models.User)
	return user
}
