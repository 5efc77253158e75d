package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/travel-places/internal/database"
	"github.com/ahmetcoskunkizilkaya/travel-places/internal/dto"
	"github.com/ahmetcoskunkizilkaya/travel-places/internal/models"
	"gorm.io/gorm"
)

const allCategories = "all"

type PlaceService struct {
	db         *gorm.DB
	moderation *ModerationService
}

func NewPlaceService(db *gorm.DB, moderation *ModerationService) *PlaceService {
	return &PlaceService{db: db, moderation: moderation}
}

func (s *PlaceService) ListPlaces(ctx context.Context, category, search string) ([]dto.PlaceResponse, error) {
	var places []models.Place
	err := s.db.WithContext(ctx).
		Scopes(InCategory(category), MatchingSearch(search), ByRating, WithImages).
		Find(&places).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list places: %w", err)
	}
	return dto.NewPlaceResponses(places), nil
}

func (s *PlaceService) GetPlace(ctx context.Context, id uint) (*dto.PlaceDetailResponse, error) {
	db := s.db.WithContext(ctx)

	var place models.Place
	if err := db.Scopes(WithImages).First(&place, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlaceNotFound
		}
		return nil, fmt.Errorf("failed to load place: %w", err)
	}

	reviews, err := s.reviewsFor(db, id)
	if err != nil {
		return nil, err
	}

	return &dto.PlaceDetailResponse{
		PlaceResponse: dto.NewPlaceResponse(&place),
		Reviews:       reviews,
	}, nil
}

type reviewRow struct {
	ID             uint
	PlaceID        uint
	UserID         uint
	Rating         int
	Comment        string
	CreatedAt      time.Time
	Username       *string
	ProfilePicture *string
}

func (s *PlaceService) reviewsFor(db *gorm.DB, placeID uint) ([]dto.ReviewResponse, error) {
	var rows []reviewRow
	err := db.Table("reviews").
		Select("reviews.id, reviews.place_id, reviews.user_id, reviews.rating, reviews.comment, reviews.created_at, users.username, users.profile_picture").
		Joins("LEFT JOIN users ON users.id = reviews.user_id").
		Where("reviews.place_id = ?", placeID).
		Order("reviews.created_at DESC").
		Order("reviews.id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load reviews: %w", err)
	}

	out := make([]dto.ReviewResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.ReviewResponse{
			ID:        r.ID,
			PlaceID:   r.PlaceID,
			Rating:    r.Rating,
			Comment:   r.Comment,
			CreatedAt: r.CreatedAt,
			User:      reviewAuthor(r.UserID, r.Username, r.ProfilePicture),
		})
	}
	return out, nil
}

func reviewAuthor(userID uint, username, picture *string) dto.ReviewAuthor {
	author := dto.ReviewAuthor{ID: userID}
	if username != nil {
		author.Username = *username
		if picture != nil {
			author.ProfilePicture = *picture
		}
		return author
	}
	if reserved, ok := reservedByID(userID); ok {
		author.Username = reserved.Username
		author.ProfilePicture = reserved.ProfilePicture
	}
	return author
}

// CreatePlace inserts the place and its images in one transaction.
func (s *PlaceService) CreatePlace(ctx context.Context, req *dto.CreatePlaceRequest) (*dto.PlaceResponse, error) {
	place := models.Place{
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Address:     strings.TrimSpace(req.Address),
		Location:    strings.TrimSpace(req.Location),
		Category:    strings.TrimSpace(req.Category),
		Phone:       strings.TrimSpace(req.Phone),
		Website:     strings.TrimSpace(req.Website),
		Hours:       strings.TrimSpace(req.Hours),
	}
	if err := ValidatePlace(&place); err != nil {
		return nil, err
	}
	images, err := cleanImages(req.Images)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Images").Create(&place).Error; err != nil {
			return fmt.Errorf("failed to create place: %w", err)
		}
		return insertImages(tx, place.ID, images)
	})
	if err != nil {
		return nil, err
	}

	return s.loadPlace(ctx, place.ID)
}

// UpdatePlace changes descriptive fields and optionally swaps the image set.
// The derived rating is never written here.
func (s *PlaceService) UpdatePlace(ctx context.Context, id uint, req *dto.UpdatePlaceRequest) (*dto.PlaceResponse, error) {
	var images []string
	if req.Images != nil {
		var err error
		if images, err = cleanImages(*req.Images); err != nil {
			return nil, err
		}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var place models.Place
		if err := tx.First(&place, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPlaceNotFound
			}
			return fmt.Errorf("failed to load place: %w", err)
		}

		applyString(&place.Name, req.Name)
		applyString(&place.Description, req.Description)
		applyString(&place.Address, req.Address)
		applyString(&place.Location, req.Location)
		applyString(&place.Category, req.Category)
		applyString(&place.Phone, req.Phone)
		applyString(&place.Website, req.Website)
		applyString(&place.Hours, req.Hours)
		if err := ValidatePlace(&place); err != nil {
			return err
		}

		if err := tx.Model(&place).Select("name", "description", "address", "location", "category", "phone", "website", "hours").
			Updates(&place).Error; err != nil {
			return fmt.Errorf("failed to update place: %w", err)
		}

		if req.Images == nil {
			return nil
		}
		if err := tx.Where("place_id = ?", id).Delete(&models.PlaceImage{}).Error; err != nil {
			return fmt.Errorf("failed to delete place images: %w", err)
		}
		return insertImages(tx, id, images)
	})
	if err != nil {
		return nil, err
	}

	return s.loadPlace(ctx, id)
}

// DeletePlace removes images, reviews, favorites and finally the place.
// Either all four deletions commit or none do.
func (s *PlaceService) DeletePlace(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var place models.Place
		if err := tx.Select("id").First(&place, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPlaceNotFound
			}
			return fmt.Errorf("failed to load place: %w", err)
		}

		if err := tx.Where("place_id = ?", id).Delete(&models.PlaceImage{}).Error; err != nil {
			return fmt.Errorf("failed to delete place images: %w", err)
		}
		if err := tx.Where("place_id = ?", id).Delete(&models.Review{}).Error; err != nil {
			return fmt.Errorf("failed to delete reviews: %w", err)
		}
		if err := tx.Where("place_id = ?", id).Delete(&models.Favorite{}).Error; err != nil {
			return fmt.Errorf("failed to delete favorites: %w", err)
		}
		if err := tx.Delete(&models.Place{}, id).Error; err != nil {
			return fmt.Errorf("failed to delete place: %w", err)
		}
		return nil
	})
}

// AddReview inserts the review and refreshes the place rating in the same
// transaction, so readers see both writes or neither.
func (s *PlaceService) AddReview(ctx context.Context, placeID uint, author *models.User, rating int, comment string) (*dto.ReviewResponse, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}
	comment = strings.TrimSpace(comment)
	if ok, reason := s.moderation.FilterContent(comment); !ok {
		return nil, fmt.Errorf("%w (%s)", ErrCommentRejected, reason)
	}

	review := models.Review{
		PlaceID: placeID,
		UserID:  author.ID,
		Rating:  rating,
		Comment: comment,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := placeExists(tx, placeID); err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.Review{}).
			Where("place_id = ? AND user_id = ?", placeID, author.ID).
			Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check existing review: %w", err)
		}
		if count > 0 {
			return ErrDuplicateReview
		}

		if err := insertReview(tx, &review); err != nil {
			return err
		}
		return recomputeRating(tx, placeID)
	})
	if err != nil {
		return nil, err
	}

	return &dto.ReviewResponse{
		ID:        review.ID,
		PlaceID:   review.PlaceID,
		Rating:    review.Rating,
		Comment:   review.Comment,
		CreatedAt: review.CreatedAt,
		User: dto.ReviewAuthor{
			ID:             author.ID,
			Username:       author.Username,
			ProfilePicture: author.ProfilePicture,
		},
	}, nil
}

func (s *PlaceService) AddFavorite(ctx context.Context, placeID, userID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := placeExists(tx, placeID); err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.Favorite{}).
			Where("place_id = ? AND user_id = ?", placeID, userID).
			Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check favorite: %w", err)
		}
		if count > 0 {
			return ErrAlreadyFavorite
		}

		return insertFavorite(tx, &models.Favorite{PlaceID: placeID, UserID: userID})
	})
}

func (s *PlaceService) RemoveFavorite(ctx context.Context, placeID, userID uint) error {
	result := s.db.WithContext(ctx).
		Where("place_id = ? AND user_id = ?", placeID, userID).
		Delete(&models.Favorite{})
	if result.Error != nil {
		return fmt.Errorf("failed to remove favorite: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrFavoriteNotFound
	}
	return nil
}

// ListFavorites returns the user's favorite places, most recently added first.
func (s *PlaceService) ListFavorites(ctx context.Context, userID uint) ([]dto.PlaceResponse, error) {
	var places []models.Place
	err := s.db.WithContext(ctx).
		Joins("JOIN favorites ON favorites.place_id = places.id").
		Where("favorites.user_id = ?", userID).
		Order("favorites.created_at DESC").
		Order("favorites.id DESC").
		Scopes(WithImages).
		Find(&places).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	return dto.NewPlaceResponses(places), nil
}

func (s *PlaceService) loadPlace(ctx context.Context, id uint) (*dto.PlaceResponse, error) {
	var place models.Place
	if err := s.db.WithContext(ctx).Scopes(WithImages).First(&place, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlaceNotFound
		}
		return nil, fmt.Errorf("failed to load place: %w", err)
	}
	resp := dto.NewPlaceResponse(&place)
	return &resp, nil
}

func placeExists(tx *gorm.DB, id uint) error {
	var count int64
	if err := tx.Model(&models.Place{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check place: %w", err)
	}
	if count == 0 {
		return ErrPlaceNotFound
	}
	return nil
}

// recomputeRating sets the place rating to the mean of its reviews rounded to
// one decimal, or NULL when none remain. Aggregate and write run as a single
// statement inside the caller's transaction.
func recomputeRating(tx *gorm.DB, placeID uint) error {
	err := tx.Exec(
		`UPDATE places SET rating = (SELECT ROUND(AVG(r.rating), 1) FROM reviews r WHERE r.place_id = ?) WHERE id = ?`,
		placeID, placeID,
	).Error
	if err != nil {
		return fmt.Errorf("failed to update place rating: %w", err)
	}
	return nil
}

// insertReview relies on the (place_id, user_id) unique index to settle a
// race between two transactions that both passed the count check.
func insertReview(tx *gorm.DB, review *models.Review) error {
	if err := tx.Create(review).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return ErrDuplicateReview
		}
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

func insertFavorite(tx *gorm.DB, favorite *models.Favorite) error {
	if err := tx.Create(favorite).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return ErrAlreadyFavorite
		}
		return fmt.Errorf("failed to add favorite: %w", err)
	}
	return nil
}

func insertImages(tx *gorm.DB, placeID uint, urls []string) error {
	for _, url := range urls {
		if err := tx.Create(&models.PlaceImage{PlaceID: placeID, ImageURL: url}).Error; err != nil {
			return fmt.Errorf("failed to create place image: %w", err)
		}
	}
	return nil
}

// ValidatePlace enforces the fields every stored place must carry.
func ValidatePlace(p *models.Place) error {
	if p.Name == "" || p.Description == "" || p.Address == "" || p.Location == "" || p.Category == "" {
		return ErrMissingFields
	}
	return nil
}

func cleanImages(urls []string) ([]string, error) {
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if u = strings.TrimSpace(u); u != "" {
			out = append(out, u)
		}
	}
	if len(out) == 0 {
		return nil, ErrNoImages
	}
	return out, nil
}

func applyString(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}
