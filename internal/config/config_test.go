package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "JWT_EXPIRY", "RESERVED_TOKEN_EXPIRY", "RESERVED_IDENTITIES", "BCRYPT_COST", "AUTH_RATE_LIMIT_MAX", "REVIEW_MODERATION"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, 7*24*time.Hour, cfg.ReservedTokenExpiry)
	assert.True(t, cfg.ReservedIdentities)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, 10, cfg.AuthRateLimitMax)
	assert.False(t, cfg.ReviewModeration)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_EXPIRY", "2h")
	t.Setenv("RESERVED_IDENTITIES", "false")
	t.Setenv("BCRYPT_COST", "4")
	t.Setenv("AUTH_RATE_LIMIT_MAX", "0")
	t.Setenv("REVIEW_MODERATION", "true")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 2*time.Hour, cfg.JWTExpiry)
	assert.False(t, cfg.ReservedIdentities)
	assert.Equal(t, 4, cfg.BcryptCost)
	assert.Equal(t, 0, cfg.AuthRateLimitMax)
	assert.True(t, cfg.ReviewModeration)
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("JWT_EXPIRY", "tomorrow")
	t.Setenv("BCRYPT_COST", "ten")
	t.Setenv("RESERVED_IDENTITIES", "maybe")

	cfg := Load()

	assert.Equal(t, 24*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.True(t, cfg.ReservedIdentities)
}

func TestDSN(t *testing.T) {
	cfg := &Config{DBHost: "db", DBPort: "5432", DBUser: "u", DBPassword: "p", DBName: "places", DBSSLMode: "disable"}
	assert.Equal(t, "host=db user=u password=p dbname=places port=5432 sslmode=disable TimeZone=UTC", cfg.DSN())
}
