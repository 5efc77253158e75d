package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/ahmetcoskunkizilkaya/travel-places/internal/models"
	"github.com/ahmetcoskunkizilkaya/travel-places/internal/services"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

type File struct {
	Users  []User  `yaml:"users"`
	Places []Place `yaml:"places"`
}

type User struct {
	Username string `yaml:"username"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"`
}

type Place struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Address     string   `yaml:"address"`
	Location    string   `yaml:"location"`
	Category    string   `yaml:"category"`
	Phone       string   `yaml:"phone"`
	Website     string   `yaml:"website"`
	Hours       string   `yaml:"hours"`
	Images      []string `yaml:"images"`
}

// Result counts the rows Apply inserted.
type Result struct {
	Users   int
	Places  int
	Skipped bool
}

func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *File) validate() error {
	for i, u := range f.Users {
		if strings.TrimSpace(u.Username) == "" || strings.TrimSpace(u.Email) == "" || u.Password == "" {
			return fmt.Errorf("seed user %d: username, email and password are required", i)
		}
		if services.IsReservedEmail(u.Email) {
			return fmt.Errorf("seed user %d: %s is reserved for a built-in account", i, u.Email)
		}
		switch u.Role {
		case "", models.RoleUser, models.RoleAdmin:
		default:
			return fmt.Errorf("seed user %d: unknown role %q", i, u.Role)
		}
	}
	for i, p := range f.Places {
		place := p.model()
		if err := services.ValidatePlace(&place); err != nil {
			return fmt.Errorf("seed place %d (%s): %w", i, p.Name, err)
		}
		if len(place.Images) == 0 {
			return fmt.Errorf("seed place %d (%s): %w", i, p.Name, services.ErrNoImages)
		}
	}
	return nil
}

// model applies the same trimming the API does, so seeded rows and created
// rows satisfy one rule.
func (p Place) model() models.Place {
	place := models.Place{
		Name:        strings.TrimSpace(p.Name),
		Description: strings.TrimSpace(p.Description),
		Address:     strings.TrimSpace(p.Address),
		Location:    strings.TrimSpace(p.Location),
		Category:    strings.TrimSpace(p.Category),
		Phone:       strings.TrimSpace(p.Phone),
		Website:     strings.TrimSpace(p.Website),
		Hours:       strings.TrimSpace(p.Hours),
	}
	for _, url := range p.Images {
		if url = strings.TrimSpace(url); url != "" {
			place.Images = append(place.Images, models.PlaceImage{ImageURL: url})
		}
	}
	return place
}

// Apply inserts the file's users and places in one transaction. It does
// nothing when any place already exists; users whose email is taken are left
// alone.
func Apply(ctx context.Context, db *gorm.DB, f *File, bcryptCost int) (*Result, error) {
	res := &Result{}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var places int64
		if err := tx.Model(&models.Place{}).Count(&places).Error; err != nil {
			return fmt.Errorf("failed to count places: %w", err)
		}
		if places > 0 {
			res.Skipped = true
			return nil
		}

		for _, u := range f.Users {
			email := strings.ToLower(strings.TrimSpace(u.Email))
			var existing models.User
			err := tx.Select("id").Where("email = ?", email).First(&existing).Error
			if err == nil {
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("failed to check seed user: %w", err)
			}

			hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcryptCost)
			if err != nil {
				return fmt.Errorf("failed to hash seed password: %w", err)
			}
			role := u.Role
			if role == "" {
				role = models.RoleUser
			}
			user := models.User{
				Username:       strings.TrimSpace(u.Username),
				Email:          email,
				Password:       string(hash),
				Role:           role,
				ProfilePicture: models.DefaultProfilePicture,
			}
			if err := tx.Create(&user).Error; err != nil {
				return fmt.Errorf("failed to create seed user: %w", err)
			}
			res.Users++
		}

		for _, p := range f.Places {
			place := p.model()
			if err := tx.Create(&place).Error; err != nil {
				return fmt.Errorf("failed to create seed place: %w", err)
			}
			res.Places++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if res.Skipped {
		slog.Info("seed skipped, places already present")
	} else {
		slog.Info("seed applied", "users", res.Users, "places", res.Places)
	}
	return res, nil
}
