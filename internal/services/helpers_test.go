package services

import (
	"context"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/travel-places/internal/config"
	"github.com/ahmetcoskunkizilkaya/travel-places/internal/dto"
	"github.com/ahmetcoskunkizilkaya/travel-places/internal/models"
	"github.com/ahmetcoskunkizilkaya/travel-places/internal/testutil"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:           "test-secret",
		JWTExpiry:           time.Hour,
		ReservedTokenExpiry: 7 * 24 * time.Hour,
		ReservedIdentities:  true,
		BcryptCost:          bcrypt.MinCost,
	}
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	return testutil.NewDB(t)
}

func createUser(t *testing.T, db *gorm.DB, username, role string) *models.User {
	t.Helper()
	user := &models.User{
		Username:       username,
		Email:          username + "@example.org",
		Password:       "unused",
		Role:           role,
		ProfilePicture: models.DefaultProfilePicture,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createPlace(t *testing.T, svc *PlaceService, name, category string) *dto.PlaceResponse {
	t.Helper()
	place, err := svc.CreatePlace(context.Background(), &dto.CreatePlaceRequest{
		Name:        name,
		Description: name + " description",
		Address:     "1 Main Street",
		Location:    "Somewhere",
		Category:    category,
		Images:      []string{"https://img.example/" + name + ".jpg"},
	})
	require.NoError(t, err)
	return place
}

func count(t *testing.T, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Where(query, args...).Count(&n).Error)
	return n
}
