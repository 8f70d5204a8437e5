package service

import (
	"testing"
	"time"

	"github.com/dutyrotation/slack-duty-bot/internal/config"
	"github.com/dutyrotation/slack-duty-bot/internal/database"
	"github.com/dutyrotation/slack-duty-bot/internal/domain"
	"github.com/dutyrotation/slack-duty-bot/internal/domain/contract"
	"github.com/dutyrotation/slack-duty-bot/internal/domain/entity"
	"github.com/dutyrotation/slack-duty-bot/mocks"
	"github.com/jonboulle/clockwork"
	"github.com/slack-go/slack"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

type testEnv struct {
	services  *Instance
	dm        contract.DataManager
	slackMock *mocks.MockSlackClient
	clock     clockwork.FakeClock
}

// newTestEnv wires the services over an in-memory database, a mocked
// slack client and a fake clock frozen at the given instant.
func newTestEnv(t *testing.T, now time.Time) *testEnv {
	t.Helper()

	ctrl := gomock.NewController(t)

	db := database.SetupTestDB(t)
	t.Cleanup(func() { database.CleanupTestDB(t, db) })

	dm := database.NewInstance(db)
	slackMock := mocks.NewMockSlackClient(ctrl)
	clock := clockwork.NewFakeClockAt(now)

	cfg := &config.Config{
		TickInterval:   domain.DefaultTickInterval,
		AnnounceHour:   domain.DefaultAnnounceHour,
		HandoffWeekday: domain.DefaultHandoffWeekday,
		HandoffHour:    domain.DefaultHandoffHour,
	}

	services := NewInstance(dm, slackMock, cfg, clock, zap.NewNop())
	require.NotNil(t, services)

	return &testEnv{
		services:  services,
		dm:        dm,
		slackMock: slackMock,
		clock:     clock,
	}
}

// addParticipant puts a member on the roster, stubbing the slack user
// info lookup the roster service performs at add time.
func (e *testEnv) addParticipant(t *testing.T, slackUserID, displayName string) *entity.Participant {
	t.Helper()

	e.slackMock.EXPECT().
		GetUserInfo(slackUserID).
		Return(&slack.User{
			Name: displayName,
			Profile: slack.UserProfile{
				RealName: displayName,
			},
		}, nil).
		Times(1)

	participant, err := e.services.Roster.AddParticipant(slackUserID)
	require.NoError(t, err)

	return participant
}

// positionsBySlackID snapshots the roster as a slack id -> position map.
func (e *testEnv) positionsBySlackID(t *testing.T) map[string]int {
	t.Helper()

	participants, err := e.services.Roster.List()
	require.NoError(t, err)

	positions := make(map[string]int, len(participants))
	for _, p := range participants {
		positions[p.SlackUserID] = p.Position
	}

	return positions
}
