package service

import (
	"context"
	"fmt"
	"time"

	"github.com/dutyrotation/slack-duty-bot/internal/domain"
	"github.com/dutyrotation/slack-duty-bot/internal/domain/contract"
	"github.com/dutyrotation/slack-duty-bot/internal/domain/entity"
	"go.uber.org/zap"
)

// rotationService is the rotation engine: it selects the next duty
// holder among participants that are not on vacation and rotates the
// queue positions. It holds no state of its own and is safe to call
// repeatedly; the weekly once-per-day guard lives in the scheduler.
type rotationService struct {
	dm  contract.DataManager
	log *zap.Logger
}

func newRotation(dm contract.DataManager, log *zap.Logger) *rotationService {
	return &rotationService{
		dm:  dm,
		log: log,
	}
}

// Advance picks the new duty holder for the given day and renumbers the
// whole roster in one transaction. It returns nil without mutating
// anything when the roster is empty or everyone is on vacation.
//
// Selection rule: the available participant at position 2 (the next
// holder snapshotted by the previous advance) wins; if that participant
// is unavailable, the available participant with the lowest position is
// the fallback, which best preserves the queue order.
func (s *rotationService) Advance(ctx context.Context, now time.Time) (*entity.Participant, error) {
	participants, err := s.dm.Roster().List()
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}

	if len(participants) == 0 {
		return nil, nil
	}

	// List is ordered by position, so the first available participant
	// is the minimum-position fallback.
	var available []*entity.Participant
	for _, p := range participants {
		onVacation, err := s.dm.Vacation().ExistsOn(p.ID, now)
		if err != nil {
			return nil, fmt.Errorf("failed to check vacation: %w", err)
		}
		if !onVacation {
			available = append(available, p)
		}
	}

	if len(available) == 0 {
		return nil, nil
	}

	selectee := available[0]
	for _, p := range available {
		if p.Position == domain.NextPosition {
			selectee = p
			break
		}
	}

	maxPosition := 0
	for _, p := range participants {
		if p.Position > maxPosition {
			maxPosition = p.Position
		}
	}

	// Vacationing participants keep rotating with everyone else, so
	// their queue depth is preserved while they are skipped as
	// candidates.
	err = s.dm.WithTransaction(ctx, func(tx contract.DataManager) error {
		for _, p := range participants {
			if p.ID == selectee.ID {
				continue
			}

			newPosition := p.Position - 1
			if p.Position == domain.ActivePosition {
				newPosition = maxPosition
			}

			if err := tx.Roster().UpdatePosition(p.ID, newPosition); err != nil {
				return err
			}
		}

		return tx.Roster().UpdatePosition(selectee.ID, domain.ActivePosition)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to rotate positions: %w", err)
	}

	selectee.Position = domain.ActivePosition

	s.log.Info("rotation advanced",
		zap.String("slack_user_id", selectee.SlackUserID),
		zap.String("display_name", selectee.DisplayName))

	return selectee, nil
}

// Current returns the participant on duty right now, without mutating
// the rotation. Nil when the roster is empty.
func (s *rotationService) Current() (*entity.Participant, error) {
	return s.dm.Roster().GetByPosition(domain.ActivePosition)
}
