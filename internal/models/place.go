package models

import "time"

type Place struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Address     string    `gorm:"size:255;not null" json:"address"`
	Location    string    `gorm:"size:255;not null" json:"location"`
	Category    string    `gorm:"size:100;not null;index" json:"category"`
	Phone       string    `gorm:"size:50" json:"phone"`
	Website     string    `gorm:"size:255" json:"website"`
	Hours       string    `gorm:"size:255" json:"hours"`
	Rating      *float64  `gorm:"type:decimal(2,1)" json:"rating"`
	CreatedAt   time.Time `json:"created_at"`

	Images []PlaceImage `gorm:"foreignKey:PlaceID" json:"-"`
}

type PlaceImage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PlaceID   uint      `gorm:"not null;index" json:"place_id"`
	ImageURL  string    `gorm:"type:text;not null" json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
}

// Review is unique per (place, user); the index backs the duplicate check
// under concurrent inserts.
type Review struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PlaceID   uint      `gorm:"not null;uniqueIndex:idx_reviews_place_user" json:"place_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_reviews_place_user;index" json:"user_id"`
	Rating    int       `gorm:"not null;check:chk_reviews_rating,rating >= 1 AND rating <= 5" json:"rating"`
	Comment   string    `gorm:"type:text" json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

type Favorite struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PlaceID   uint      `gorm:"not null;uniqueIndex:idx_favorites_place_user" json:"place_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_favorites_place_user;index" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
