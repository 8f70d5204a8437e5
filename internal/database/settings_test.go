package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsRepo_Get(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)

	repo := &settingsRepo{db: db.conn}

	t.Run("migration seeds the singleton row", func(t *testing.T) {
		settings, err := repo.Get()

		require.NoError(t, err)
		require.NotNil(t, settings)
		assert.Equal(t, int64(1), settings.ID)
		assert.Empty(t, settings.ChannelID)
		assert.Nil(t, settings.LastWeeklyRun)
	})
}

func TestSettingsRepo_SetChannel(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)

	repo := &settingsRepo{db: db.conn}

	require.NoError(t, repo.SetChannel("C123456789"))

	settings, err := repo.Get()
	require.NoError(t, err)
	assert.Equal(t, "C123456789", settings.ChannelID)

	// Re-activation moves the destination
	require.NoError(t, repo.SetChannel("C987654321"))

	settings, err = repo.Get()
	require.NoError(t, err)
	assert.Equal(t, "C987654321", settings.ChannelID)
}

func TestSettingsRepo_SetLastWeeklyRun(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)

	repo := &settingsRepo{db: db.conn}

	day := time.Date(2024, 6, 3, 12, 30, 0, 0, time.UTC)
	require.NoError(t, repo.SetLastWeeklyRun(day))

	settings, err := repo.Get()
	require.NoError(t, err)
	require.NotNil(t, settings.LastWeeklyRun)

	// Stored at date granularity only
	assert.Equal(t, time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC), *settings.LastWeeklyRun)
}
