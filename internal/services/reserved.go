package services

import (
	"crypto/subtle"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/travel-places/internal/models"
)

type reservedIdentity struct {
	user     models.User
	password string
}

// Built-in operator and demo accounts. They never touch the users table, so
// they keep working whatever state the store is in.
var reservedIdentities = []reservedIdentity{
	{
		user: models.User{
			ID:             models.ReservedAdminID,
			Username:       "Administrator",
			Email:          "admin@example.com",
			Role:           models.RoleAdmin,
			ProfilePicture: models.DefaultProfilePicture,
		},
		password: "admin123",
	},
	{
		user: models.User{
			ID:             models.ReservedUserID,
			Username:       "Demo User",
			Email:          "user@example.com",
			Role:           models.RoleUser,
			ProfilePicture: models.DefaultProfilePicture,
		},
		password: "user123",
	},
}

func (r reservedIdentity) materialize() *models.User {
	u := r.user
	u.CreatedAt = time.Now().UTC()
	return &u
}

func reservedByCredentials(email, password string) (*models.User, bool) {
	for _, r := range reservedIdentities {
		emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(r.user.Email)) == 1
		passOK := subtle.ConstantTimeCompare([]byte(password), []byte(r.password)) == 1
		if emailOK && passOK {
			return r.materialize(), true
		}
	}
	return nil, false
}

// reservedByToken matches on id and email together; a store user can share
// neither.
func reservedByToken(id uint, email string) (*models.User, bool) {
	for _, r := range reservedIdentities {
		if r.user.ID == id && r.user.Email == email {
			return r.materialize(), true
		}
	}
	return nil, false
}

func reservedByID(id uint) (*models.User, bool) {
	for _, r := range reservedIdentities {
		if r.user.ID == id {
			return r.materialize(), true
		}
	}
	return nil, false
}

// IsReservedEmail reports whether email belongs to a built-in identity.
func IsReservedEmail(email string) bool {
	for _, r := range reservedIdentities {
		if strings.EqualFold(r.user.Email, strings.TrimSpace(email)) {
			return true
		}
	}
	return false
}
