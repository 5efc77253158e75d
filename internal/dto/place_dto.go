package dto

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/travel-places/internal/models"
)

type CreatePlaceRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Address     string   `json:"address"`
	Location    string   `json:"location"`
	Category    string   `json:"category"`
	Phone       string   `json:"phone"`
	Website     string   `json:"website"`
	Hours       string   `json:"hours"`
	Images      []string `json:"images"`
}

// UpdatePlaceRequest only touches the fields that are present. A present
// images list replaces the whole set.
type UpdatePlaceRequest struct {
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	Address     *string   `json:"address"`
	Location    *string   `json:"location"`
	Category    *string   `json:"category"`
	Phone       *string   `json:"phone"`
	Website     *string   `json:"website"`
	Hours       *string   `json:"hours"`
	Images      *[]string `json:"images"`
}

type CreateReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type PlaceResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Address     string    `json:"address"`
	Location    string    `json:"location"`
	Category    string    `json:"category"`
	Phone       string    `json:"phone"`
	Website     string    `json:"website"`
	Hours       string    `json:"hours"`
	Rating      *float64  `json:"rating"`
	CreatedAt   time.Time `json:"created_at"`
	Images      []string  `json:"images"`
}

type PlaceDetailResponse struct {
	PlaceResponse
	Reviews []ReviewResponse `json:"reviews"`
}

type ReviewAuthor struct {
	ID             uint   `json:"id"`
	Username       string `json:"username"`
	ProfilePicture string `json:"profile_picture"`
}

type ReviewResponse struct {
	ID        uint         `json:"id"`
	PlaceID   uint         `json:"place_id"`
	Rating    int          `json:"rating"`
	Comment   string       `json:"comment"`
	CreatedAt time.Time    `json:"created_at"`
	User      ReviewAuthor `json:"user"`
}

type DeletePlaceResponse struct {
	Message string `json:"message"`
	ID      uint   `json:"id"`
}

// NewPlaceResponse flattens the image rows into their URLs. Images is never nil.
func NewPlaceResponse(p *models.Place) PlaceResponse {
	images := make([]string, 0, len(p.Images))
	for _, img := range p.Images {
		images = append(images, img.ImageURL)
	}
	return PlaceResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Address:     p.Address,
		Location:    p.Location,
		Category:    p.Category,
		Phone:       p.Phone,
		Website:     p.Website,
		Hours:       p.Hours,
		Rating:      p.Rating,
		CreatedAt:   p.CreatedAt,
		Images:      images,
	}
}

func NewPlaceResponses(places []models.Place) []PlaceResponse {
	out := make([]PlaceResponse, 0, len(places))
	for i := range places {
		out = append(out, NewPlaceResponse(&places[i]))
	}
	return out
}
