package handlers

import (
	"github.com/ahmetcoskunkizilkaya/travel-places/internal/dto"
	"github.com/ahmetcoskunkizilkaya/travel-places/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/travel-places/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/travel-places/internal/services"
	"github.com/gofiber/fiber/v2"
)

type PlaceHandler struct {
	placeService *services.PlaceService
	metrics      *metrics.Metrics
}

func NewPlaceHandler(placeService *services.PlaceService, m *metrics.Metrics) *PlaceHandler {
	return &PlaceHandler{placeService: placeService, metrics: m}
}

func placeID(c *fiber.Ctx) (uint, error) {
	return parseID(c, "id", errInvalidPlaceID, services.ErrPlaceNotFound)
}

func (h *PlaceHandler) List(c *fiber.Ctx) error {
	places, err := h.placeService.ListPlaces(c.UserContext(), c.Query("category"), c.Query("search"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(places)
}

func (h *PlaceHandler) Get(c *fiber.Ctx) error {
	id, err := placeID(c)
	if err != nil {
		return respondError(c, err)
	}

	place, err := h.placeService.GetPlace(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(place)
}

func (h *PlaceHandler) Create(c *fiber.Ctx) error {
	var req dto.CreatePlaceRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, errInvalidBody)
	}

	place, err := h.placeService.CreatePlace(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(place)
}

func (h *PlaceHandler) Update(c *fiber.Ctx) error {
	id, err := placeID(c)
	if err != nil {
		return respondError(c, err)
	}
	var req dto.UpdatePlaceRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, errInvalidBody)
	}

	place, err := h.placeService.UpdatePlace(c.UserContext(), id, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(place)
}

func (h *PlaceHandler) Delete(c *fiber.Ctx) error {
	id, err := placeID(c)
	if err != nil {
		return respondError(c, err)
	}

	if err := h.placeService.DeletePlace(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	h.metrics.PlacesDeleted.Inc()
	return c.JSON(dto.DeletePlaceResponse{Message: "Place deleted successfully", ID: id})
}

func (h *PlaceHandler) AddReview(c *fiber.Ctx) error {
	id, err := placeID(c)
	if err != nil {
		return respondError(c, err)
	}
	var req dto.CreateReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, errInvalidBody)
	}

	review, err := h.placeService.AddReview(c.UserContext(), id, middleware.CurrentUser(c), req.Rating, req.Comment)
	if err != nil {
		return respondError(c, err)
	}
	h.metrics.ReviewsCreated.Inc()
	return c.Status(fiber.StatusCreated).JSON(review)
}

func (h *PlaceHandler) AddFavorite(c *fiber.Ctx) error {
	id, err := placeID(c)
	if err != nil {
		return respondError(c, err)
	}

	if err := h.placeService.AddFavorite(c.UserContext(), id, middleware.CurrentUser(c).ID); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MessageResponse{Message: "Place added to favorites"})
}

func (h *PlaceHandler) RemoveFavorite(c *fiber.Ctx) error {
	id, err := placeID(c)
	if err != nil {
		return respondError(c, err)
	}

	if err := h.placeService.RemoveFavorite(c.UserContext(), id, middleware.CurrentUser(c).ID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Place removed from favorites"})
}

func (h *PlaceHandler) ListFavorites(c *fiber.Ctx) error {
	places, err := h.placeService.ListFavorites(c.UserContext(), middleware.CurrentUser(c).ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(places)
}
