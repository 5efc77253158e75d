package database

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/travel-places/internal/config"
	"github.com/ahmetcoskunkizilkaya/travel-places/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// GormConfig is shared by every dialect so tests migrate and translate errors
// exactly like production does.
func GormConfig() *gorm.Config {
	return &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Warn),
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
	}
}

// Connect opens the PostgreSQL pool described by cfg.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), GormConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	slog.Info("database connected", "host", cfg.DBHost, "name", cfg.DBName)
	return db, nil
}

// Migrate creates or updates every table and reserves the identity id range.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Place{},
		&models.PlaceImage{},
		&models.Review{},
		&models.Favorite{},
		&models.SystemLog{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return reserveIdentityRange(db)
}

// reserveIdentityRange advances the users id sequence past the reserved ids.
// SQLite is only used by tests and assigns small ids there.
func reserveIdentityRange(db *gorm.DB) error {
	if db.Dialector.Name() != "postgres" {
		return nil
	}
	err := db.Exec(
		`SELECT setval(pg_get_serial_sequence('users', 'id'), GREATEST((SELECT COALESCE(MAX(id), 0) FROM users), ?))`,
		models.ReservedIDCeiling,
	).Error
	if err != nil {
		return fmt.Errorf("reserve identity range: %w", err)
	}
	return nil
}

func Ping(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// IsUniqueViolation reports whether err came from a unique index. GORM
// translates it for PostgreSQL; the message check covers drivers that do not.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}

// MonthExpr returns a SQL expression formatting column as YYYY-MM.
func MonthExpr(db *gorm.DB, column string) string {
	if db.Dialector.Name() == "sqlite" {
		return "strftime('%Y-%m', " + column + ")"
	}
	return "to_char(date_trunc('month', " + column + "), 'YYYY-MM')"
}
