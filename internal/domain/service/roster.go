package service

import (
	"context"
	"fmt"

	"github.com/dutyrotation/slack-duty-bot/internal/domain"
	"github.com/dutyrotation/slack-duty-bot/internal/domain/contract"
	"github.com/dutyrotation/slack-duty-bot/internal/domain/entity"
	"go.uber.org/zap"
)

type rosterService struct {
	dm          contract.DataManager
	slackClient contract.SlackClient
	log         *zap.Logger
}

func newRoster(dm contract.DataManager, slackClient contract.SlackClient, log *zap.Logger) *rosterService {
	return &rosterService{
		dm:          dm,
		slackClient: slackClient,
		log:         log,
	}
}

// Activate binds the notification channel. Announcements from the
// scheduler go to this channel until it is activated elsewhere.
func (s *rosterService) Activate(channelID string) error {
	if err := s.dm.Settings().SetChannel(channelID); err != nil {
		return fmt.Errorf("failed to activate channel: %w", err)
	}

	s.log.Info("bot activated", zap.String("channel_id", channelID))
	return nil
}

// AddParticipant appends a member to the end of the rotation queue. The
// display name is captured from the Slack users API at add time and not
// kept in sync afterwards.
func (s *rosterService) AddParticipant(slackUserID string) (*entity.Participant, error) {
	existing, err := s.dm.Roster().GetBySlackID(slackUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing participant: %w", err)
	}

	if existing != nil {
		return nil, domain.ErrAlreadyExists
	}

	userInfo, err := s.slackClient.GetUserInfo(slackUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user info from Slack: %w", err)
	}

	displayName := userInfo.Profile.RealName
	if displayName == "" {
		displayName = userInfo.Profile.DisplayName
	}
	if displayName == "" {
		displayName = userInfo.Name
	}

	participants, err := s.dm.Roster().List()
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}

	maxPosition := 0
	for _, p := range participants {
		if p.Position > maxPosition {
			maxPosition = p.Position
		}
	}

	participant := &entity.Participant{
		SlackUserID: slackUserID,
		DisplayName: displayName,
		Position:    maxPosition + 1,
	}

	if err := s.dm.Roster().Create(participant); err != nil {
		return nil, fmt.Errorf("failed to create participant: %w", err)
	}

	s.log.Info("participant added",
		zap.String("slack_user_id", slackUserID),
		zap.Int("position", participant.Position))

	return participant, nil
}

// RemoveParticipant deletes a member and closes the position gap in the
// same transaction, so roster positions stay a contiguous 1..N set.
// The member's vacations are removed by the cascading foreign key.
func (s *rosterService) RemoveParticipant(ctx context.Context, slackUserID string) error {
	participant, err := s.dm.Roster().GetBySlackID(slackUserID)
	if err != nil {
		return fmt.Errorf("failed to find participant: %w", err)
	}

	if participant == nil {
		return domain.ErrNotFound
	}

	err = s.dm.WithTransaction(ctx, func(tx contract.DataManager) error {
		if err := tx.Roster().Delete(participant.ID); err != nil {
			return err
		}
		return tx.Roster().ShiftPositionsAbove(participant.Position)
	})
	if err != nil {
		return fmt.Errorf("failed to remove participant: %w", err)
	}

	s.log.Info("participant removed", zap.String("slack_user_id", slackUserID))
	return nil
}

// Position returns the participant's current rank in the rotation queue.
func (s *rosterService) Position(slackUserID string) (int, error) {
	participant, err := s.dm.Roster().GetBySlackID(slackUserID)
	if err != nil {
		return 0, fmt.Errorf("failed to find participant: %w", err)
	}

	if participant == nil {
		return 0, domain.ErrNotFound
	}

	return participant.Position, nil
}

// List returns the whole roster ordered by position.
func (s *rosterService) List() ([]*entity.Participant, error) {
	return s.dm.Roster().List()
}
