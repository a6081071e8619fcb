package database

import (
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/hire-go-api/internal/models"
)

// memoryDSN keeps a single shared in-memory SQLite database for the lifetime of the process.
const memoryDSN = "file:hire?mode=memory&cache=shared"

// gormConfig maps driver constraint errors onto gorm.ErrDuplicatedKey and gorm.ErrForeignKeyViolated
// so services can react to them without knowing the driver.
func gormConfig() *gorm.Config {
	return &gorm.Config{TranslateError: true}
}

// ConnectPostgres establishes a connection to the PostgreSQL database using the provided DSN.
func ConnectPostgres(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres dsn must not be empty")
	}

	db, err := gorm.Open(postgres.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	return db, nil
}

// OpenMemory opens the non-durable SQLite store used when Postgres is unavailable.
// Data does not survive a restart.
func OpenMemory() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(memoryDSN), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory store: %w", err)
	}

	return db, nil
}

// Connect opens Postgres, falling back to the in-memory store when allowed.
func Connect(dsn string, allowFallback bool, logger zerolog.Logger) (*gorm.DB, error) {
	db, err := ConnectPostgres(dsn)
	if err == nil {
		return db, nil
	}
	if !allowFallback {
		return nil, err
	}

	logger.Warn().Err(err).Msg("postgres unavailable, using in-memory store")
	return OpenMemory()
}

// Migrate creates or updates the tables used by the service.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{}, &models.Job{}, &models.Application{}, &models.ActivityLog{})
}
