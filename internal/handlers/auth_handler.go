package handlers

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/travel-places/internal/dto"
	"github.com/ahmetcoskunkizilkaya/travel-places/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/travel-places/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/travel-places/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService *services.AuthService
	metrics     *metrics.Metrics
}

func NewAuthHandler(authService *services.AuthService, m *metrics.Metrics) *AuthHandler {
	return &AuthHandler{authService: authService, metrics: m}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, errInvalidBody)
	}

	resp, err := h.authService.Register(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err)
	}
	h.metrics.UsersRegistered.Inc()
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, errInvalidBody)
	}

	resp, err := h.authService.Login(c.UserContext(), &req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) || errors.Is(err, services.ErrAccountBlocked) {
			h.metrics.LoginFailures.Inc()
		}
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// Logout only acknowledges; tokens are stateless and the client drops them.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	return c.JSON(dto.MessageResponse{Message: "Logged out successfully"})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, err := h.authService.Profile(c.UserContext(), middleware.CurrentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, errInvalidBody)
	}

	user, err := h.authService.UpdateProfile(c.UserContext(), middleware.CurrentUser(c), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, errInvalidBody)
	}

	if err := h.authService.ChangePassword(c.UserContext(), middleware.CurrentUser(c), &req); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Password updated successfully"})
}
