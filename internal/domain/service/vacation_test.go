package service

import (
	"testing"
	"time"

	"github.com/dutyrotation/slack-duty-bot/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestVacation_Add(t *testing.T) {
	env := newTestEnv(t, monday)
	env.addParticipant(t, "UA", "Alice")
	env.addParticipant(t, "UB", "Bob")

	t.Run("should store vacation with fresh id and pending flags", func(t *testing.T) {
		vacation, err := env.services.Vacation.Add("UA", day(2024, 6, 3), day(2024, 6, 7))

		require.NoError(t, err)
		assert.NotEmpty(t, vacation.UID)
		assert.False(t, vacation.AnnouncedStart)
		assert.False(t, vacation.AnnouncedEnd)
	})

	t.Run("should reject start after end", func(t *testing.T) {
		_, err := env.services.Vacation.Add("UA", day(2024, 7, 10), day(2024, 7, 1))

		assert.ErrorIs(t, err, domain.ErrInvalidRange)
	})

	t.Run("should accept single day vacation", func(t *testing.T) {
		_, err := env.services.Vacation.Add("UA", day(2024, 9, 2), day(2024, 9, 2))

		assert.NoError(t, err)
	})

	t.Run("should reject unknown participant", func(t *testing.T) {
		_, err := env.services.Vacation.Add("UX", day(2024, 6, 3), day(2024, 6, 7))

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("should reject overlapping vacations of the same participant", func(t *testing.T) {
		tests := []struct {
			name       string
			start, end time.Time
		}{
			{name: "identical interval", start: day(2024, 6, 3), end: day(2024, 6, 7)},
			{name: "contained interval", start: day(2024, 6, 4), end: day(2024, 6, 5)},
			{name: "overlapping tail", start: day(2024, 6, 6), end: day(2024, 6, 10)},
			{name: "overlapping head", start: day(2024, 6, 1), end: day(2024, 6, 3)},
			{name: "touching start endpoint", start: day(2024, 5, 30), end: day(2024, 6, 3)},
			{name: "touching end endpoint", start: day(2024, 6, 7), end: day(2024, 6, 12)},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := env.services.Vacation.Add("UA", tt.start, tt.end)

				assert.ErrorIs(t, err, domain.ErrOverlap)
			})
		}
	})

	t.Run("should accept same dates for another participant", func(t *testing.T) {
		_, err := env.services.Vacation.Add("UB", day(2024, 6, 3), day(2024, 6, 7))

		assert.NoError(t, err)
	})

	t.Run("should accept adjacent but disjoint interval", func(t *testing.T) {
		_, err := env.services.Vacation.Add("UA", day(2024, 6, 8), day(2024, 6, 10))

		assert.NoError(t, err)
	})
}

func TestVacation_ListFor(t *testing.T) {
	env := newTestEnv(t, monday)
	env.addParticipant(t, "UA", "Alice")

	t.Run("empty list for participant without vacations", func(t *testing.T) {
		vacations, err := env.services.Vacation.ListFor("UA")

		require.NoError(t, err)
		assert.Empty(t, vacations)
	})

	t.Run("returns insertion order", func(t *testing.T) {
		_, err := env.services.Vacation.Add("UA", day(2024, 8, 1), day(2024, 8, 5))
		require.NoError(t, err)
		_, err = env.services.Vacation.Add("UA", day(2024, 6, 3), day(2024, 6, 7))
		require.NoError(t, err)

		vacations, err := env.services.Vacation.ListFor("UA")
		require.NoError(t, err)
		require.Len(t, vacations, 2)
		assert.Equal(t, day(2024, 8, 1), vacations[0].StartDate)
		assert.Equal(t, day(2024, 6, 3), vacations[1].StartDate)
	})

	t.Run("unknown participant", func(t *testing.T) {
		_, err := env.services.Vacation.ListFor("UX")

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestVacation_DeleteAt(t *testing.T) {
	env := newTestEnv(t, monday)
	env.addParticipant(t, "UA", "Alice")

	_, err := env.services.Vacation.Add("UA", day(2024, 6, 3), day(2024, 6, 7))
	require.NoError(t, err)
	_, err = env.services.Vacation.Add("UA", day(2024, 8, 1), day(2024, 8, 5))
	require.NoError(t, err)

	t.Run("out of range index never mutates", func(t *testing.T) {
		for _, index := range []int{-1, 0, 3, 100} {
			_, err := env.services.Vacation.DeleteAt("UA", index)
			assert.ErrorIs(t, err, domain.ErrOutOfRange, "index %d", index)
		}

		vacations, err := env.services.Vacation.ListFor("UA")
		require.NoError(t, err)
		assert.Len(t, vacations, 2)
	})

	t.Run("deletes by one-based index", func(t *testing.T) {
		deleted, err := env.services.Vacation.DeleteAt("UA", 1)

		require.NoError(t, err)
		assert.Equal(t, day(2024, 6, 3), deleted.StartDate)

		vacations, err := env.services.Vacation.ListFor("UA")
		require.NoError(t, err)
		require.Len(t, vacations, 1)
		assert.Equal(t, day(2024, 8, 1), vacations[0].StartDate)
	})
}

func TestVacation_IsOnVacation(t *testing.T) {
	env := newTestEnv(t, monday)
	alice := env.addParticipant(t, "UA", "Alice")

	_, err := env.services.Vacation.Add("UA", day(2024, 6, 3), day(2024, 6, 7))
	require.NoError(t, err)

	onVacation, err := env.services.Vacation.IsOnVacation(alice.ID, day(2024, 6, 5))
	require.NoError(t, err)
	assert.True(t, onVacation)

	onVacation, err = env.services.Vacation.IsOnVacation(alice.ID, day(2024, 6, 8))
	require.NoError(t, err)
	assert.False(t, onVacation)
}
