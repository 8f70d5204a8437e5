package service

import (
	"github.com/dutyrotation/slack-duty-bot/internal/domain"
	"github.com/dutyrotation/slack-duty-bot/internal/domain/contract"
	"github.com/slack-go/slack"
	"go.uber.org/zap"
)

// notifier delivers announcements to the activated channel. Delivery is
// best effort with a single attempt: callers must commit their state
// transition before calling Send, so a failed delivery is never retried.
type notifier struct {
	dm          contract.DataManager
	slackClient contract.SlackClient
	log         *zap.Logger
}

func newNotifier(dm contract.DataManager, slackClient contract.SlackClient, log *zap.Logger) *notifier {
	return &notifier{
		dm:          dm,
		slackClient: slackClient,
		log:         log,
	}
}

func (n *notifier) Send(text string) {
	settings, err := n.dm.Settings().Get()
	if err != nil {
		n.log.Error("failed to load settings for notification", zap.Error(err))
		return
	}

	if settings.ChannelID == "" {
		n.log.Warn("notification skipped", zap.Error(domain.ErrNotActivated))
		return
	}

	_, _, err = n.slackClient.PostMessage(
		settings.ChannelID,
		slack.MsgOptionText(text, false),
		slack.MsgOptionAsUser(false),
	)
	if err != nil {
		n.log.Error("failed to send notification",
			zap.String("channel_id", settings.ChannelID),
			zap.Error(err))
	}
}
