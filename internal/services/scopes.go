package services

import (
	"strings"

	"gorm.io/gorm"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// InCategory filters places by exact, case-insensitive category. Empty and
// "all" leave the query untouched.
func InCategory(category string) func(db *gorm.DB) *gorm.DB {
	category = strings.TrimSpace(category)
	return func(db *gorm.DB) *gorm.DB {
		if category == "" || strings.EqualFold(category, allCategories) {
			return db
		}
		return db.Where("LOWER(places.category) = ?", strings.ToLower(category))
	}
}

// MatchingSearch keeps places whose name, description or location contains
// term, ignoring case. LIKE wildcards in term match literally.
func MatchingSearch(term string) func(db *gorm.DB) *gorm.DB {
	term = strings.TrimSpace(term)
	return func(db *gorm.DB) *gorm.DB {
		if term == "" {
			return db
		}
		pattern := "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
		return db.Where(
			`(LOWER(places.name) LIKE ? ESCAPE '\' OR LOWER(places.description) LIKE ? ESCAPE '\' OR LOWER(places.location) LIKE ? ESCAPE '\')`,
			pattern, pattern, pattern,
		)
	}
}

// ByRating orders best rated first; unrated places go last.
func ByRating(db *gorm.DB) *gorm.DB {
	return db.Order("places.rating IS NULL").Order("places.rating DESC").Order("places.id")
}

// WithImages preloads image rows in insertion order.
func WithImages(db *gorm.DB) *gorm.DB {
	return db.Preload("Images", func(db *gorm.DB) *gorm.DB {
		return db.Order("place_images.id")
	})
}
