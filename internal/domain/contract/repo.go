package contract

import (
	"context"
	"time"

	"github.com/dutyrotation/slack-duty-bot/internal/domain/entity"
)

// DataManager aggregates all repository interfaces
type DataManager interface {
	WithTransaction(ctx context.Context, fn func(dm DataManager) error) error
	Roster() RosterRepo
	Vacation() VacationRepo
	Settings() SettingsRepo
}

// RosterRepo defines the contract for the participant repository
type RosterRepo interface {
	Create(participant *entity.Participant) error
	GetByID(participantID int64) (*entity.Participant, error)
	GetBySlackID(slackUserID string) (*entity.Participant, error)
	GetByPosition(position int) (*entity.Participant, error)
	List() ([]*entity.Participant, error)
	UpdatePosition(participantID int64, position int) error
	// ShiftPositionsAbove decrements the position of every participant
	// whose position is greater than the given one. Used to close the
	// gap left by a removal.
	ShiftPositionsAbove(position int) error
	Delete(participantID int64) error
}

// VacationRepo defines the contract for the vacation repository
type VacationRepo interface {
	Create(vacation *entity.Vacation) error
	// ListByParticipant returns the participant's vacations in
	// insertion order. The 1-based index of this sequence is the
	// public handle for deletion.
	ListByParticipant(participantID int64) ([]*entity.Vacation, error)
	// ListUnannounced returns every vacation that still has a pending
	// start or end announcement.
	ListUnannounced() ([]*entity.Vacation, error)
	ExistsOn(participantID int64, day time.Time) (bool, error)
	SetAnnouncedStart(vacationID int64) error
	SetAnnouncedEnd(vacationID int64) error
	Delete(vacationID int64) error
}

// SettingsRepo defines the contract for the singleton bot settings row
type SettingsRepo interface {
	Get() (*entity.Settings, error)
	SetChannel(channelID string) error
	SetLastWeeklyRun(day time.Time) error
}
