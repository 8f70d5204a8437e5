package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const testChannelID = "C123456789"

func activate(t *testing.T, env *testEnv) {
	t.Helper()
	require.NoError(t, env.services.Roster.Activate(testChannelID))
}

func expectNotification(env *testEnv, times int) *gomock.Call {
	return env.slackMock.EXPECT().
		PostMessage(testChannelID, gomock.Any(), gomock.Any()).
		Return("", "", nil).
		Times(times)
}

func TestScheduler_VacationStartAnnouncement(t *testing.T) {
	env := newTestEnv(t, monday)
	activate(t, env)
	env.addParticipant(t, "UA", "Alice")

	_, err := env.services.Vacation.Add("UA", day(2024, 6, 3), day(2024, 6, 7))
	require.NoError(t, err)

	t.Run("does not fire outside the announce hour", func(t *testing.T) {
		env.services.Scheduler.tick(time.Date(2024, 6, 3, 9, 59, 0, 0, time.UTC))
	})

	t.Run("fires once at the announce hour", func(t *testing.T) {
		expectNotification(env, 1)

		env.services.Scheduler.tick(time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC))

		vacations, err := env.services.Vacation.ListFor("UA")
		require.NoError(t, err)
		assert.True(t, vacations[0].AnnouncedStart)
		assert.False(t, vacations[0].AnnouncedEnd)
	})

	t.Run("later ticks in the same hour stay silent", func(t *testing.T) {
		env.services.Scheduler.tick(time.Date(2024, 6, 3, 10, 1, 0, 0, time.UTC))
		env.services.Scheduler.tick(time.Date(2024, 6, 3, 10, 59, 0, 0, time.UTC))
	})

	t.Run("end announcement fires on the end date", func(t *testing.T) {
		expectNotification(env, 1)

		env.services.Scheduler.tick(time.Date(2024, 6, 7, 10, 30, 0, 0, time.UTC))

		vacations, err := env.services.Vacation.ListFor("UA")
		require.NoError(t, err)
		assert.True(t, vacations[0].AnnouncedEnd)
	})
}

func TestScheduler_SingleDayVacationAnnouncesBothOnSameTick(t *testing.T) {
	env := newTestEnv(t, monday)
	activate(t, env)
	env.addParticipant(t, "UA", "Alice")

	_, err := env.services.Vacation.Add("UA", day(2024, 6, 3), day(2024, 6, 3))
	require.NoError(t, err)

	expectNotification(env, 2)

	env.services.Scheduler.tick(time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC))

	vacations, err := env.services.Vacation.ListFor("UA")
	require.NoError(t, err)
	assert.True(t, vacations[0].AnnouncedStart)
	assert.True(t, vacations[0].AnnouncedEnd)
}

func TestScheduler_AnnouncementCommitsEvenWhenBotNotActivated(t *testing.T) {
	env := newTestEnv(t, monday)
	env.addParticipant(t, "UA", "Alice")

	_, err := env.services.Vacation.Add("UA", day(2024, 6, 3), day(2024, 6, 7))
	require.NoError(t, err)

	// No PostMessage expectation: delivery is skipped, the flag still
	// commits and the announcement is spent.
	env.services.Scheduler.tick(time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC))

	vacations, err := env.services.Vacation.ListFor("UA")
	require.NoError(t, err)
	assert.True(t, vacations[0].AnnouncedStart)
}

func TestScheduler_WeeklyHandoff(t *testing.T) {
	env := newTestEnv(t, monday)
	activate(t, env)
	env.addParticipant(t, "UA", "Alice")
	env.addParticipant(t, "UB", "Bob")

	t.Run("does not fire outside the hand-off window", func(t *testing.T) {
		env.services.Scheduler.tick(time.Date(2024, 6, 3, 11, 59, 0, 0, time.UTC)) // Monday, wrong hour
		env.services.Scheduler.tick(time.Date(2024, 6, 4, 12, 0, 0, 0, time.UTC))  // Tuesday, right hour

		assert.Equal(t, map[string]int{"UA": 1, "UB": 2}, env.positionsBySlackID(t))
	})

	t.Run("fires exactly once across every tick of the noon hour", func(t *testing.T) {
		expectNotification(env, 1)

		for minute := 0; minute < 60; minute++ {
			env.services.Scheduler.tick(time.Date(2024, 6, 3, 12, minute, 0, 0, time.UTC))
		}

		assert.Equal(t, map[string]int{"UB": 1, "UA": 2}, env.positionsBySlackID(t), "rotation advanced a single step")

		settings, err := env.dm.Settings().Get()
		require.NoError(t, err)
		require.NotNil(t, settings.LastWeeklyRun)
		assert.Equal(t, day(2024, 6, 3), *settings.LastWeeklyRun)
	})

	t.Run("fires again the following week", func(t *testing.T) {
		expectNotification(env, 1)

		env.services.Scheduler.tick(time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC))

		assert.Equal(t, map[string]int{"UA": 1, "UB": 2}, env.positionsBySlackID(t))
	})
}

func TestScheduler_WeeklyHandoffSpendsTheDayWithoutParticipants(t *testing.T) {
	env := newTestEnv(t, monday)
	activate(t, env)

	// Empty roster: no notification, but the day is still marked so the
	// trigger cannot retry until next week.
	env.services.Scheduler.tick(time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC))
	env.services.Scheduler.tick(time.Date(2024, 6, 3, 12, 1, 0, 0, time.UTC))

	settings, err := env.dm.Settings().Get()
	require.NoError(t, err)
	require.NotNil(t, settings.LastWeeklyRun)
	assert.Equal(t, day(2024, 6, 3), *settings.LastWeeklyRun)
}

func TestScheduler_StartStop(t *testing.T) {
	env := newTestEnv(t, monday)

	scheduler := env.services.Scheduler
	require.False(t, scheduler.running)

	scheduler.Start()
	assert.True(t, scheduler.running)

	// Second start is a no-op
	scheduler.Start()
	assert.True(t, scheduler.running)

	scheduler.Stop()
	assert.False(t, scheduler.running)

	// Second stop is a no-op
	scheduler.Stop()
	assert.False(t, scheduler.running)
}
