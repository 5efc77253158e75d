package services

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/travel-places/internal/dto"
	"github.com/ahmetcoskunkizilkaya/travel-places/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc := NewAuthService(newTestDB(t), testConfig())

	resp, err := svc.Register(ctx, &dto.RegisterRequest{Username: "alice", Email: "alice@x.com", Password: "Aa1!aaaa"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, models.RoleUser, resp.User.Role)
	assert.NotEqual(t, "Aa1!aaaa", resp.User.Password)
	assert.False(t, models.IsReservedID(resp.User.ID))

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "alice@x.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.ErrorIs(t, err, ErrBadRequest)

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "nobody@x.com", Password: "Aa1!aaaa"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	login, err := svc.Login(ctx, &dto.LoginRequest{Email: " ALICE@x.com ", Password: "Aa1!aaaa"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, login.User.Role)

	claims, err := svc.ParseToken(login.Token)
	require.NoError(t, err)
	assert.Equal(t, strconv.FormatUint(uint64(login.User.ID), 10), claims["sub"])
	assert.Equal(t, "user", claims["role"])
}

func TestRegisterValidation(t *testing.T) {
	ctx := context.Background()
	svc := NewAuthService(newTestDB(t), testConfig())

	_, err := svc.Register(ctx, &dto.RegisterRequest{Username: "bob", Email: "", Password: "secret1"})
	assert.ErrorIs(t, err, ErrMissingFields)

	_, err = svc.Register(ctx, &dto.RegisterRequest{Username: "bob", Email: "bob@x.com", Password: "short"})
	assert.ErrorIs(t, err, ErrPasswordTooShort)

	_, err = svc.Register(ctx, &dto.RegisterRequest{Username: "bob", Email: "bob@x.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, &dto.RegisterRequest{Username: "bob2", Email: "BOB@x.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.ErrorIs(t, err, ErrConflict)

	_, err = svc.Register(ctx, &dto.RegisterRequest{Username: "imposter", Email: "admin@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginBlockedAccount(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := NewAuthService(db, testConfig())

	resp, err := svc.Register(ctx, &dto.RegisterRequest{Username: "carol", Email: "carol@x.com", Password: "secret1"})
	require.NoError(t, err)
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", resp.User.ID).Update("blocked", true).Error)

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "carol@x.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrAccountBlocked)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "carol@x.com", Password: "nope123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// A token issued before the block stops working.
	_, err = svc.ResolveIdentity(ctx, resp.Token)
	assert.ErrorIs(t, err, ErrAccountBlocked)
}

func TestReservedIdentityLogin(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := NewAuthService(db, testConfig())

	resp, err := svc.Login(ctx, &dto.LoginRequest{Email: "admin@example.com", Password: "admin123"})
	require.NoError(t, err)
	assert.Equal(t, models.ReservedAdminID, resp.User.ID)
	assert.Equal(t, models.RoleAdmin, resp.User.Role)

	claims, err := svc.ParseToken(resp.Token)
	require.NoError(t, err)
	iat, err := claims.GetIssuedAt()
	require.NoError(t, err)
	exp, err := claims.GetExpirationTime()
	require.NoError(t, err)
	assert.Equal(t, 7*24*time.Hour, exp.Sub(iat.Time))

	// Resolved without touching the users table.
	identity, err := svc.ResolveIdentity(ctx, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, models.ReservedAdminID, identity.ID)
	assert.True(t, identity.IsAdmin())
	assert.Zero(t, count(t, db, &models.User{}, "1 = 1"))

	user, err := svc.Login(ctx, &dto.LoginRequest{Email: "user@example.com", Password: "user123"})
	require.NoError(t, err)
	assert.Equal(t, models.ReservedUserID, user.User.ID)
	assert.Equal(t, models.RoleUser, user.User.Role)

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "admin@example.com", Password: "admin1234"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestReservedIdentityLoginNeedsExactEmail(t *testing.T) {
	ctx := context.Background()
	svc := NewAuthService(newTestDB(t), testConfig())

	for _, email := range []string{" ADMIN@example.com ", "Admin@Example.com", "admin@example.com "} {
		resp, err := svc.Login(ctx, &dto.LoginRequest{Email: email, Password: "admin123"})
		assert.ErrorIs(t, err, ErrInvalidCredentials, email)
		assert.Nil(t, resp, email)
	}
}

func TestReservedIdentitiesDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.ReservedIdentities = false
	svc := NewAuthService(newTestDB(t), cfg)

	_, err := svc.Login(context.Background(), &dto.LoginRequest{Email: "admin@example.com", Password: "admin123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestResolveIdentityRejectsBadTokens(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	cfg := testConfig()
	svc := NewAuthService(db, cfg)

	_, err := svc.ResolveIdentity(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.ResolveIdentity(ctx, "not-a-jwt")
	assert.ErrorIs(t, err, ErrUnauthorized)

	user := createUser(t, db, "dave", models.RoleUser)

	expired, err := svc.issueToken(user, -time.Minute)
	require.NoError(t, err)
	_, err = svc.ResolveIdentity(ctx, expired)
	assert.ErrorIs(t, err, ErrInvalidToken)

	otherCfg := testConfig()
	otherCfg.JWTSecret = "another-secret"
	forged, err := NewAuthService(db, otherCfg).issueToken(user, time.Hour)
	require.NoError(t, err)
	_, err = svc.ResolveIdentity(ctx, forged)
	assert.ErrorIs(t, err, ErrInvalidToken)

	noExp := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "1", "email": user.Email})
	raw, err := noExp.SignedString([]byte(cfg.JWTSecret))
	require.NoError(t, err)
	_, err = svc.ResolveIdentity(ctx, raw)
	assert.ErrorIs(t, err, ErrInvalidToken)

	valid, err := svc.issueToken(user, time.Hour)
	require.NoError(t, err)
	require.NoError(t, db.Delete(&models.User{}, user.ID).Error)
	_, err = svc.ResolveIdentity(ctx, valid)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestReservedIdSynthesisNeedsMatchingEmail(t *testing.T) {
	ctx := context.Background()
	svc := NewAuthService(newTestDB(t), testConfig())

	spoof := &models.User{ID: models.ReservedAdminID, Email: "someone@else.com", Role: models.RoleAdmin}
	token, err := svc.issueToken(spoof, time.Hour)
	require.NoError(t, err)

	_, err = svc.ResolveIdentity(ctx, token)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	svc := NewAuthService(newTestDB(t), testConfig())

	resp, err := svc.Register(ctx, &dto.RegisterRequest{Username: "erin", Email: "erin@x.com", Password: "secret1"})
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, resp.User, &dto.ChangePasswordRequest{CurrentPassword: "wrong12", NewPassword: "secret2"})
	assert.ErrorIs(t, err, ErrIncorrectPassword)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	err = svc.ChangePassword(ctx, resp.User, &dto.ChangePasswordRequest{CurrentPassword: "secret1", NewPassword: "abc"})
	assert.ErrorIs(t, err, ErrPasswordTooShort)

	require.NoError(t, svc.ChangePassword(ctx, resp.User, &dto.ChangePasswordRequest{CurrentPassword: "secret1", NewPassword: "secret2"}))

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "erin@x.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "erin@x.com", Password: "secret2"})
	assert.NoError(t, err)
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	svc := NewAuthService(newTestDB(t), testConfig())

	frank, err := svc.Register(ctx, &dto.RegisterRequest{Username: "frank", Email: "frank@x.com", Password: "secret1"})
	require.NoError(t, err)
	_, err = svc.Register(ctx, &dto.RegisterRequest{Username: "gina", Email: "gina@x.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.UpdateProfile(ctx, frank.User, &dto.UpdateProfileRequest{Username: "frank", Email: "gina@x.com"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = svc.UpdateProfile(ctx, frank.User, &dto.UpdateProfileRequest{Username: "frank", Email: "user@example.com"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = svc.UpdateProfile(ctx, frank.User, &dto.UpdateProfileRequest{Username: "", Email: "frank@x.com"})
	assert.ErrorIs(t, err, ErrMissingFields)

	updated, err := svc.UpdateProfile(ctx, frank.User, &dto.UpdateProfileRequest{Username: "Franky", Email: "Franky@X.com"})
	require.NoError(t, err)
	assert.Equal(t, "Franky", updated.Username)
	assert.Equal(t, "franky@x.com", updated.Email)

	profile, err := svc.Profile(ctx, frank.User)
	require.NoError(t, err)
	assert.Equal(t, "franky@x.com", profile.Email)
}

func TestReservedIdentityCannotMutate(t *testing.T) {
	ctx := context.Background()
	svc := NewAuthService(newTestDB(t), testConfig())

	resp, err := svc.Login(ctx, &dto.LoginRequest{Email: "user@example.com", Password: "user123"})
	require.NoError(t, err)

	_, err = svc.UpdateProfile(ctx, resp.User, &dto.UpdateProfileRequest{Username: "x", Email: "x@x.com"})
	assert.ErrorIs(t, err, ErrReservedIdentity)

	err = svc.ChangePassword(ctx, resp.User, &dto.ChangePasswordRequest{CurrentPassword: "user123", NewPassword: "changed1"})
	assert.ErrorIs(t, err, ErrReservedIdentity)

	profile, err := svc.Profile(ctx, resp.User)
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", profile.Email)
}
