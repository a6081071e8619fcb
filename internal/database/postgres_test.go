package database

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/hire-go-api/internal/models"
)

func TestConnectFallsBackToMemoryStore(t *testing.T) {
	db, err := Connect("", true, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	require.NoError(t, db.Create(&models.User{Email: "fallback@example.com", Role: models.RoleAdmin}).Error)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Where("email = ?", "fallback@example.com").Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func TestConnectWithoutFallbackFails(t *testing.T) {
	_, err := Connect("", false, zerolog.Nop())
	require.Error(t, err)
}

func TestConnectRedisRequiresURL(t *testing.T) {
	_, err := ConnectRedis("")
	require.Error(t, err)
}
