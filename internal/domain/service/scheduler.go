package service

import (
	"context"
	"fmt"
	"time"

	"github.com/dutyrotation/slack-duty-bot/internal/config"
	"github.com/dutyrotation/slack-duty-bot/internal/domain"
	"github.com/dutyrotation/slack-duty-bot/internal/domain/contract"
	"github.com/dutyrotation/slack-duty-bot/internal/domain/entity"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// scheduler drives the time-triggered announcements: vacation start and
// end at the announce hour, and the weekly duty hand-off. It wakes on a
// fixed tick and derives everything else from wall-clock conditions and
// persisted state, so a missed tick never double-fires and a restart
// picks up where the process left off.
type scheduler struct {
	dm       contract.DataManager
	rotation *rotationService
	notifier *notifier
	clock    clockwork.Clock
	log      *zap.Logger

	tickInterval   time.Duration
	announceHour   int
	handoffWeekday time.Weekday
	handoffHour    int

	stopChan chan struct{}
	running  bool
}

func newScheduler(dm contract.DataManager, rotation *rotationService, notifier *notifier, cfg *config.Config, clock clockwork.Clock, log *zap.Logger) *scheduler {
	return &scheduler{
		dm:             dm,
		rotation:       rotation,
		notifier:       notifier,
		clock:          clock,
		log:            log,
		tickInterval:   cfg.TickInterval,
		announceHour:   cfg.AnnounceHour,
		handoffWeekday: cfg.HandoffWeekday,
		handoffHour:    cfg.HandoffHour,
		stopChan:       make(chan struct{}),
		running:        false,
	}
}

func (s *scheduler) Start() {
	if s.running {
		return
	}
	s.running = true
	s.log.Info("scheduler starting", zap.Duration("tick_interval", s.tickInterval))
	go s.mainLoop()
}

func (s *scheduler) Stop() {
	if !s.running {
		return
	}
	s.log.Info("scheduler stopping")
	close(s.stopChan)
	s.running = false
}

func (s *scheduler) mainLoop() {
	ticker := s.clock.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.Chan():
			s.tick(s.clock.Now())
		case <-s.stopChan:
			return
		}
	}
}

// tick evaluates every trigger condition for the given instant. Each
// state transition is committed before its notification attempt, so a
// failed delivery is never retried.
func (s *scheduler) tick(now time.Time) {
	s.announceVacations(now)
	s.runWeeklyHandoff(now)
}

// announceVacations fires the pending start/end announcements of every
// vacation whose boundary falls on today. The hour-equality check keeps
// each announcement inside a single wall-clock hour; the persisted
// flags keep it to a single tick within that hour. A one-day vacation
// fires both announcements on the same tick, start first.
func (s *scheduler) announceVacations(now time.Time) {
	if now.Hour() != s.announceHour {
		return
	}

	vacations, err := s.dm.Vacation().ListUnannounced()
	if err != nil {
		s.log.Error("failed to list unannounced vacations", zap.Error(err))
		return
	}

	for _, vacation := range vacations {
		participant, err := s.dm.Roster().GetByID(vacation.ParticipantID)
		if err != nil {
			s.log.Error("failed to load vacation owner", zap.Error(err))
			continue
		}
		if participant == nil {
			continue
		}

		if !vacation.AnnouncedStart && domain.SameDate(now, vacation.StartDate) {
			s.announceStart(vacation, participant)
		}

		if !vacation.AnnouncedEnd && domain.SameDate(now, vacation.EndDate) {
			s.announceEnd(vacation, participant)
		}
	}
}

func (s *scheduler) announceStart(vacation *entity.Vacation, participant *entity.Participant) {
	if err := s.dm.Vacation().SetAnnouncedStart(vacation.ID); err != nil {
		s.log.Error("failed to mark vacation start announced", zap.Error(err))
		return
	}

	s.notifier.Send(fmt.Sprintf("<@%s> is off on vacation until %s!",
		participant.SlackUserID, vacation.EndDate.Format(domain.DateLayout)))
}

func (s *scheduler) announceEnd(vacation *entity.Vacation, participant *entity.Participant) {
	if err := s.dm.Vacation().SetAnnouncedEnd(vacation.ID); err != nil {
		s.log.Error("failed to mark vacation end announced", zap.Error(err))
		return
	}

	s.notifier.Send(fmt.Sprintf("<@%s> is back from vacation!", participant.SlackUserID))
}

// runWeeklyHandoff advances the rotation once per hand-off day. The
// persisted last-run date guards against re-firing while the hour
// condition stays true across ticks, and is written even when nobody is
// available, so the hand-off never retries within the same day.
func (s *scheduler) runWeeklyHandoff(now time.Time) {
	if now.Weekday() != s.handoffWeekday || now.Hour() != s.handoffHour {
		return
	}

	settings, err := s.dm.Settings().Get()
	if err != nil {
		s.log.Error("failed to load settings", zap.Error(err))
		return
	}

	if settings.LastWeeklyRun != nil && domain.SameDate(*settings.LastWeeklyRun, now) {
		return
	}

	selectee, err := s.rotation.Advance(context.Background(), now)
	if err != nil {
		s.log.Error("weekly hand-off failed to advance rotation", zap.Error(err))
		return
	}

	if err := s.dm.Settings().SetLastWeeklyRun(now); err != nil {
		s.log.Error("failed to persist weekly run date", zap.Error(err))
		return
	}

	if selectee == nil {
		s.log.Warn("weekly hand-off found no available participant")
		return
	}

	s.notifier.Send(fmt.Sprintf("<@%s>, it's your turn on duty this week!", selectee.SlackUserID))
}
