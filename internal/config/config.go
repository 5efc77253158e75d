package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv   string
	LogLevel string

	// Database
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBSSLMode      string
	DBMaxOpenConns int
	DBMaxIdleConns int

	// Auth
	JWTSecret           string
	JWTExpiry           time.Duration
	ReservedTokenExpiry time.Duration
	ReservedIdentities  bool
	BcryptCost          int

	// Server
	Port             string
	CORSOrigins      string
	RateLimitMax     int
	AuthRateLimitMax int
	RedisURL         string

	// Observability
	SentryDSN    string
	LogRetention time.Duration

	// Content
	SeedFile         string
	ReviewModeration bool
}

// Load reads configuration from the environment. A .env file in the working
// directory, if present, is applied first without overriding real variables.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", "postgres"),
		DBPassword:     getEnv("DB_PASSWORD", ""),
		DBName:         getEnv("DB_NAME", "travelapp"),
		DBSSLMode:      getEnv("DB_SSLMODE", "disable"),
		DBMaxOpenConns: getInt("DB_MAX_OPEN_CONNS", 20),
		DBMaxIdleConns: getInt("DB_MAX_IDLE_CONNS", 10),

		JWTSecret:           getEnv("JWT_SECRET", ""),
		JWTExpiry:           parseDuration(getEnv("JWT_EXPIRY", "24h"), 24*time.Hour),
		ReservedTokenExpiry: parseDuration(getEnv("RESERVED_TOKEN_EXPIRY", "168h"), 7*24*time.Hour),
		ReservedIdentities:  getBool("RESERVED_IDENTITIES", true),
		BcryptCost:          getInt("BCRYPT_COST", 10),

		Port:             getEnv("PORT", "5000"),
		CORSOrigins:      getEnv("CORS_ORIGINS", "*"),
		RateLimitMax:     getInt("RATE_LIMIT_MAX", 120),
		AuthRateLimitMax: getInt("AUTH_RATE_LIMIT_MAX", 10),
		RedisURL:         getEnv("REDIS_URL", ""),

		SentryDSN:    getEnv("SENTRY_DSN", ""),
		LogRetention: parseDuration(getEnv("LOG_RETENTION", "720h"), 30*24*time.Hour),

		SeedFile:         getEnv("SEED_FILE", ""),
		ReviewModeration: getBool("REVIEW_MODERATION", false),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return n
}

func getBool(key string, fallback bool) bool {
	b, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return b
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
