package service

import (
	"fmt"
	"time"

	"github.com/dutyrotation/slack-duty-bot/internal/domain"
	"github.com/dutyrotation/slack-duty-bot/internal/domain/contract"
	"github.com/dutyrotation/slack-duty-bot/internal/domain/entity"
	"github.com/google/uuid"
)

type vacationService struct {
	dm contract.DataManager
}

func newVacation(dm contract.DataManager) *vacationService {
	return &vacationService{dm: dm}
}

// Add stores a vacation interval for the participant. The interval is
// inclusive on both ends and must be disjoint from every interval the
// participant already has; touching endpoints count as overlap.
func (s *vacationService) Add(slackUserID string, start, end time.Time) (*entity.Vacation, error) {
	start = dateOnly(start)
	end = dateOnly(end)

	if start.After(end) {
		return nil, domain.ErrInvalidRange
	}

	participant, err := s.participant(slackUserID)
	if err != nil {
		return nil, err
	}

	existing, err := s.dm.Vacation().ListByParticipant(participant.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list vacations: %w", err)
	}

	for _, v := range existing {
		if v.Overlaps(start, end) {
			return nil, domain.ErrOverlap
		}
	}

	vacation := &entity.Vacation{
		UID:           uuid.NewString(),
		ParticipantID: participant.ID,
		StartDate:     start,
		EndDate:       end,
	}

	if err := s.dm.Vacation().Create(vacation); err != nil {
		return nil, fmt.Errorf("failed to create vacation: %w", err)
	}

	return vacation, nil
}

// ListFor returns the participant's vacations in insertion order. The
// 1-based index of the result is the handle DeleteAt accepts.
func (s *vacationService) ListFor(slackUserID string) ([]*entity.Vacation, error) {
	participant, err := s.participant(slackUserID)
	if err != nil {
		return nil, err
	}

	return s.dm.Vacation().ListByParticipant(participant.ID)
}

// DeleteAt removes the participant's vacation at the given 1-based
// index. An index outside the list never mutates state.
func (s *vacationService) DeleteAt(slackUserID string, index int) (*entity.Vacation, error) {
	participant, err := s.participant(slackUserID)
	if err != nil {
		return nil, err
	}

	vacations, err := s.dm.Vacation().ListByParticipant(participant.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list vacations: %w", err)
	}

	if index < 1 || index > len(vacations) {
		return nil, domain.ErrOutOfRange
	}

	vacation := vacations[index-1]
	if err := s.dm.Vacation().Delete(vacation.ID); err != nil {
		return nil, fmt.Errorf("failed to delete vacation: %w", err)
	}

	return vacation, nil
}

// IsOnVacation reports whether the participant has any interval
// covering the given day.
func (s *vacationService) IsOnVacation(participantID int64, day time.Time) (bool, error) {
	return s.dm.Vacation().ExistsOn(participantID, day)
}

func (s *vacationService) participant(slackUserID string) (*entity.Participant, error) {
	participant, err := s.dm.Roster().GetBySlackID(slackUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to find participant: %w", err)
	}

	if participant == nil {
		return nil, domain.ErrNotFound
	}

	return participant, nil
}

// dateOnly truncates an instant to its calendar day.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
