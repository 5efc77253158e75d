package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/travel-places/internal/config"
	"github.com/ahmetcoskunkizilkaya/travel-places/internal/database"
	"github.com/ahmetcoskunkizilkaya/travel-places/internal/dto"
	"github.com/ahmetcoskunkizilkaya/travel-places/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const minPasswordLength = 6

type AuthService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	return &AuthService{db: db, cfg: cfg}
}

func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	username := strings.TrimSpace(req.Username)
	email := normalizeEmail(req.Email)
	if username == "" || email == "" || req.Password == "" {
		return nil, ErrMissingFields
	}
	if len(req.Password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}
	if IsReservedEmail(email) {
		return nil, ErrEmailTaken
	}

	db := s.db.WithContext(ctx)

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	hash, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Username:       username,
		Email:          email,
		Password:       hash,
		Role:           models.RoleUser,
		ProfilePicture: models.DefaultProfilePicture,
	}
	if err := db.Create(&user).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.issueToken(&user, s.cfg.JWTExpiry)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{User: &user, Token: token}, nil
}

func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, ErrMissingFields
	}

	// Built-in pairs match the submitted email exactly, without normalization.
	if s.cfg.ReservedIdentities {
		if user, ok := reservedByCredentials(req.Email, req.Password); ok {
			token, err := s.issueToken(user, s.cfg.ReservedTokenExpiry)
			if err != nil {
				return nil, err
			}
			return &dto.AuthResponse{User: user, Token: token}, nil
		}
	}

	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if user.Blocked {
		return nil, ErrAccountBlocked
	}

	token, err := s.issueToken(&user, s.cfg.JWTExpiry)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{User: &user, Token: token}, nil
}

// ResolveIdentity verifies a raw bearer token and returns the acting user.
func (s *AuthService) ResolveIdentity(ctx context.Context, raw string) (*models.User, error) {
	claims, err := s.ParseToken(raw)
	if err != nil {
		return nil, err
	}
	return s.IdentityFromClaims(ctx, claims)
}

// ParseToken checks signature, algorithm and expiry.
func (s *AuthService) ParseToken(raw string) (jwt.MapClaims, error) {
	if raw == "" {
		return nil, ErrInvalidToken
	}
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// IdentityFromClaims maps already-verified claims to a user. Reserved
// identities are synthesized; everyone else must exist and not be blocked.
func (s *AuthService) IdentityFromClaims(ctx context.Context, claims jwt.MapClaims) (*models.User, error) {
	if exp, err := claims.GetExpirationTime(); err != nil || exp == nil {
		return nil, ErrInvalidToken
	}
	sub, _ := claims["sub"].(string)
	id, err := strconv.ParseUint(sub, 10, 64)
	if err != nil {
		return nil, ErrInvalidToken
	}
	email, _ := claims["email"].(string)

	if s.cfg.ReservedIdentities {
		if user, ok := reservedByToken(uint(id), email); ok {
			return user, nil
		}
	}

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user.Blocked {
		return nil, ErrAccountBlocked
	}
	return &user, nil
}

// Profile returns the freshest view of the identity.
func (s *AuthService) Profile(ctx context.Context, identity *models.User) (*models.User, error) {
	if isReserved(identity) {
		return identity, nil
	}
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, identity.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, identity *models.User, req *dto.UpdateProfileRequest) (*models.User, error) {
	if isReserved(identity) {
		return nil, ErrReservedIdentity
	}
	username := strings.TrimSpace(req.Username)
	email := normalizeEmail(req.Email)
	if username == "" || email == "" {
		return nil, ErrMissingFields
	}
	if IsReservedEmail(email) {
		return nil, ErrEmailTaken
	}

	db := s.db.WithContext(ctx)

	var count int64
	if err := db.Model(&models.User{}).Where("email = ? AND id <> ?", email, identity.ID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	var user models.User
	if err := db.First(&user, identity.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := db.Model(&user).Updates(map[string]interface{}{
		"username": username,
		"email":    email,
	}).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	user.Username = username
	user.Email = email
	return &user, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, identity *models.User, req *dto.ChangePasswordRequest) error {
	if isReserved(identity) {
		return ErrReservedIdentity
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return ErrMissingFields
	}
	if len(req.NewPassword) < minPasswordLength {
		return ErrPasswordTooShort
	}

	db := s.db.WithContext(ctx)

	var user models.User
	if err := db.First(&user, identity.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to load user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		return ErrIncorrectPassword
	}

	hash, err := s.hashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	if err := db.Model(&user).Update("password", hash).Error; err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

func (s *AuthService) hashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), s.cfg.BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func (s *AuthService) issueToken(user *models.User, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   strconv.FormatUint(uint64(user.ID), 10),
		"role":  user.Role,
		"email": user.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func isReserved(user *models.User) bool {
	_, ok := reservedByToken(user.ID, user.Email)
	return ok
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
