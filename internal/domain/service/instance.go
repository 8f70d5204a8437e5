package service

import (
	"github.com/dutyrotation/slack-duty-bot/internal/config"
	"github.com/dutyrotation/slack-duty-bot/internal/domain/contract"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

type Instance struct {
	Roster    *rosterService
	Vacation  *vacationService
	Rotation  *rotationService
	Scheduler *scheduler
}

func NewInstance(dm contract.DataManager, slackClient contract.SlackClient, cfg *config.Config, clock clockwork.Clock, log *zap.Logger) *Instance {
	notifier := newNotifier(dm, slackClient, log)
	rotation := newRotation(dm, log)

	return &Instance{
		Roster:    newRoster(dm, slackClient, log),
		Vacation:  newVacation(dm),
		Rotation:  rotation,
		Scheduler: newScheduler(dm, rotation, notifier, cfg, clock, log),
	}
}
