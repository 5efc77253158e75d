package services

import (
	"context"
	"testing"

	"github.com/ahmetcoskunkizilkaya/travel-places/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListUsersNewestFirst(t *testing.T) {
	ctx := context.Background()
	_, admin := newPlaceService(t, false)

	first := createUser(t, admin.db, "first", models.RoleUser)
	second := createUser(t, admin.db, "second", models.RoleUser)

	users, err := admin.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, second.ID, users[0].ID)
	assert.Equal(t, first.ID, users[1].ID)
}

func TestSetBlocked(t *testing.T) {
	ctx := context.Background()
	_, admin := newPlaceService(t, false)
	db := admin.db

	user := createUser(t, db, "target", models.RoleUser)
	boss := createUser(t, db, "boss", models.RoleAdmin)

	require.NoError(t, admin.SetBlocked(ctx, user.ID, true))
	var reloaded models.User
	require.NoError(t, db.First(&reloaded, user.ID).Error)
	assert.True(t, reloaded.Blocked)

	require.NoError(t, admin.SetBlocked(ctx, user.ID, false))
	require.NoError(t, db.First(&reloaded, user.ID).Error)
	assert.False(t, reloaded.Blocked)

	assert.ErrorIs(t, admin.SetBlocked(ctx, boss.ID, true), ErrProtectedAccount)
	assert.ErrorIs(t, admin.SetBlocked(ctx, models.ReservedAdminID, true), ErrProtectedAccount)
	assert.ErrorIs(t, admin.SetBlocked(ctx, models.ReservedUserID, true), ErrConflict)
	assert.ErrorIs(t, admin.SetBlocked(ctx, user.ID+100, true), ErrUserNotFound)
}

func TestDeleteUserRecomputesRatings(t *testing.T) {
	ctx := context.Background()
	places, admin := newPlaceService(t, false)
	db := admin.db

	place := createPlace(t, places, "Gallery", "Museums")
	other := createPlace(t, places, "Garden", "Parks")
	u1 := createUser(t, db, "stays", models.RoleUser)
	u2 := createUser(t, db, "leaves", models.RoleUser)

	_, err := places.AddReview(ctx, place.ID, u1, 5, "")
	require.NoError(t, err)
	_, err = places.AddReview(ctx, place.ID, u2, 1, "")
	require.NoError(t, err)
	_, err = places.AddReview(ctx, other.ID, u2, 2, "")
	require.NoError(t, err)
	require.NoError(t, places.AddFavorite(ctx, place.ID, u2.ID))

	require.NoError(t, admin.DeleteUser(ctx, u2.ID))

	assert.Zero(t, count(t, db, &models.User{}, "id = ?", u2.ID))
	assert.Zero(t, count(t, db, &models.Review{}, "user_id = ?", u2.ID))
	assert.Zero(t, count(t, db, &models.Favorite{}, "user_id = ?", u2.ID))

	got, err := places.GetPlace(ctx, place.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Rating)
	assert.InDelta(t, 5.0, *got.Rating, 0.001)

	unrated, err := places.GetPlace(ctx, other.ID)
	require.NoError(t, err)
	assert.Nil(t, unrated.Rating)
	assert.Empty(t, unrated.Reviews)

	assert.ErrorIs(t, admin.DeleteUser(ctx, u2.ID), ErrUserNotFound)
}

func TestDeleteUserRefusesAdmins(t *testing.T) {
	ctx := context.Background()
	_, admin := newPlaceService(t, false)

	boss := createUser(t, admin.db, "boss", models.RoleAdmin)
	assert.ErrorIs(t, admin.DeleteUser(ctx, boss.ID), ErrProtectedAccount)
	assert.ErrorIs(t, admin.DeleteUser(ctx, models.ReservedAdminID), ErrProtectedAccount)
	assert.Equal(t, int64(1), count(t, admin.db, &models.User{}, "id = ?", boss.ID))
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	places, admin := newPlaceService(t, false)

	createPlace(t, places, "Park A", "Parks")
	createPlace(t, places, "Park B", "Parks")
	createPlace(t, places, "Museum", "Museums")
	createUser(t, admin.db, "one", models.RoleUser)
	createUser(t, admin.db, "two", models.RoleUser)
	createUser(t, admin.db, "three", models.RoleAdmin)

	stats, err := admin.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalUsers)
	assert.Equal(t, int64(3), stats.TotalPlaces)

	require.Len(t, stats.CategoryStats, 2)
	assert.Equal(t, "Museums", stats.CategoryStats[0].Category)
	assert.Equal(t, int64(1), stats.CategoryStats[0].Count)
	assert.Equal(t, "Parks", stats.CategoryStats[1].Category)
	assert.Equal(t, int64(2), stats.CategoryStats[1].Count)

	var registered int64
	for _, m := range stats.UserRegistrationStats {
		registered += m.Count
	}
	assert.Equal(t, stats.TotalUsers, registered)
}

func TestStatsEmpty(t *testing.T) {
	_, admin := newPlaceService(t, false)

	stats, err := admin.Stats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.TotalUsers)
	assert.NotNil(t, stats.CategoryStats)
	assert.NotNil(t, stats.UserRegistrationStats)
	assert.Empty(t, stats.UserRegistrationStats)
}
