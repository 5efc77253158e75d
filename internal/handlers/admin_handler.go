package handlers

import (
	"github.com/ahmetcoskunkizilkaya/travel-places/internal/dto"
	"github.com/ahmetcoskunkizilkaya/travel-places/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	adminService *services.AdminService
}

func NewAdminHandler(adminService *services.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

func userID(c *fiber.Ctx) (uint, error) {
	return parseID(c, "id", errInvalidUserID, services.ErrUserNotFound)
}

func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.adminService.ListUsers(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(users)
}

func (h *AdminHandler) SetBlocked(c *fiber.Ctx) error {
	id, err := userID(c)
	if err != nil {
		return respondError(c, err)
	}
	var req dto.SetBlockedRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, errInvalidBody)
	}
	if req.Blocked == nil {
		return badRequest(c, "blocked must be provided")
	}

	if err := h.adminService.SetBlocked(c.UserContext(), id, *req.Blocked); err != nil {
		return respondError(c, err)
	}

	message := "User unblocked successfully"
	if *req.Blocked {
		message = "User blocked successfully"
	}
	return c.JSON(dto.SetBlockedResponse{Message: message, UserID: id, Blocked: *req.Blocked})
}

func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	id, err := userID(c)
	if err != nil {
		return respondError(c, err)
	}

	if err := h.adminService.DeleteUser(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.DeleteUserResponse{Message: "User deleted successfully", UserID: id})
}

func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.adminService.Stats(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stats)
}
