package models

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	DefaultProfilePicture = "default-user.png"
)

// Reserved identities live outside the users table. The store's id sequence
// starts above ReservedIDCeiling so it never hands these ids out.
const (
	ReservedAdminID   uint = 999
	ReservedUserID    uint = 1000
	ReservedIDCeiling uint = 1000
)

type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Username       string    `gorm:"size:100;not null" json:"username"`
	Email          string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password       string    `gorm:"not null" json:"-"`
	Role           string    `gorm:"size:20;not null;default:'user'" json:"role"`
	ProfilePicture string    `gorm:"size:255;default:'default-user.png'" json:"profile_picture"`
	Blocked        bool      `gorm:"not null;default:false" json:"blocked"`
	CreatedAt      time.Time `json:"created_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func IsReservedID(id uint) bool {
	return id == ReservedAdminID || id == ReservedUserID
}
