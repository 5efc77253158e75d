package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/travel-places/internal/database"
	"github.com/ahmetcoskunkizilkaya/travel-places/internal/dto"
	"github.com/ahmetcoskunkizilkaya/travel-places/internal/models"
	"gorm.io/gorm"
)

type AdminService struct {
	db *gorm.DB
}

func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{db: db}
}

func (s *AdminService) ListUsers(ctx context.Context) ([]models.User, error) {
	users := make([]models.User, 0)
	if err := s.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// SetBlocked toggles the blocked flag on a regular user.
func (s *AdminService) SetBlocked(ctx context.Context, userID uint, blocked bool) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := loadMutableUser(tx, userID); err != nil {
			return err
		}
		if err := tx.Model(&models.User{}).Where("id = ?", userID).Update("blocked", blocked).Error; err != nil {
			return fmt.Errorf("failed to update user: %w", err)
		}
		return nil
	})
}

// DeleteUser removes a regular user together with their favorites and
// reviews. Every place that loses a review gets its rating recomputed before
// the transaction commits.
func (s *AdminService) DeleteUser(ctx context.Context, userID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := loadMutableUser(tx, userID); err != nil {
			return err
		}

		var placeIDs []uint
		if err := tx.Model(&models.Review{}).Where("user_id = ?", userID).Distinct().Pluck("place_id", &placeIDs).Error; err != nil {
			return fmt.Errorf("failed to collect reviewed places: %w", err)
		}

		if err := tx.Where("user_id = ?", userID).Delete(&models.Favorite{}).Error; err != nil {
			return fmt.Errorf("failed to delete favorites: %w", err)
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Review{}).Error; err != nil {
			return fmt.Errorf("failed to delete reviews: %w", err)
		}
		for _, placeID := range placeIDs {
			if err := recomputeRating(tx, placeID); err != nil {
				return err
			}
		}
		if err := tx.Delete(&models.User{}, userID).Error; err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}
		return nil
	})
}

type monthRow struct {
	Month *string
	Count int64
}

func (s *AdminService) Stats(ctx context.Context) (*dto.StatsResponse, error) {
	db := s.db.WithContext(ctx)
	stats := &dto.StatsResponse{
		CategoryStats:         make([]dto.CategoryCount, 0),
		UserRegistrationStats: make([]dto.MonthCount, 0),
	}

	if err := db.Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if err := db.Model(&models.Place{}).Count(&stats.TotalPlaces).Error; err != nil {
		return nil, fmt.Errorf("failed to count places: %w", err)
	}

	if err := db.Model(&models.Place{}).
		Select("category, COUNT(*) AS count").
		Group("category").
		Order("category").
		Scan(&stats.CategoryStats).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate categories: %w", err)
	}

	month := database.MonthExpr(db, "created_at")
	var rows []monthRow
	if err := db.Model(&models.User{}).
		Select(month + " AS month, COUNT(*) AS count").
		Group(month).
		Order(month).
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate registrations: %w", err)
	}
	for _, r := range rows {
		mc := dto.MonthCount{Count: r.Count}
		if r.Month != nil {
			mc.Month = *r.Month
		}
		stats.UserRegistrationStats = append(stats.UserRegistrationStats, mc)
	}

	return stats, nil
}

// loadMutableUser fetches a user an admin may block or delete. Built-in
// identities and administrators are refused.
func loadMutableUser(tx *gorm.DB, userID uint) (*models.User, error) {
	if models.IsReservedID(userID) {
		return nil, ErrProtectedAccount
	}
	var user models.User
	if err := tx.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user.IsAdmin() {
		return nil, ErrProtectedAccount
	}
	return &user, nil
}
