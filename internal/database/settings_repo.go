package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dutyrotation/slack-duty-bot/internal/domain"
	"github.com/dutyrotation/slack-duty-bot/internal/domain/contract"
	"github.com/dutyrotation/slack-duty-bot/internal/domain/entity"
)

// The settings table holds a single row, seeded by the initial
// migration. There is one roster and one notification channel.
type settingsRepo struct {
	db dbConn
}

func newSettingsRepo(db dbConn) contract.SettingsRepo {
	return &settingsRepo{db: db}
}

func (r *settingsRepo) Get() (*entity.Settings, error) {
	settings := &entity.Settings{}
	query := `
		SELECT id, channel_id, last_weekly_run, updated_at
		FROM bot_settings
		WHERE id = 1
	`

	var channelID sql.NullString
	var lastWeeklyRun sql.NullString
	err := r.db.QueryRow(query).Scan(
		&settings.ID,
		&channelID,
		&lastWeeklyRun,
		&settings.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}

	settings.ChannelID = channelID.String
	if lastWeeklyRun.Valid {
		day, err := time.Parse(domain.DateLayout, lastWeeklyRun.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse last weekly run: %w", err)
		}
		settings.LastWeeklyRun = &day
	}

	return settings, nil
}

func (r *settingsRepo) SetChannel(channelID string) error {
	query := `UPDATE bot_settings SET channel_id = ?, updated_at = ? WHERE id = 1`

	_, err := r.db.Exec(query, channelID, time.Now())
	if err != nil {
		return fmt.Errorf("failed to set channel: %w", err)
	}

	return nil
}

func (r *settingsRepo) SetLastWeeklyRun(day time.Time) error {
	query := `UPDATE bot_settings SET last_weekly_run = ?, updated_at = ? WHERE id = 1`

	_, err := r.db.Exec(query, day.Format(domain.DateLayout), time.Now())
	if err != nil {
		return fmt.Errorf("failed to set last weekly run: %w", err)
	}

	return nil
}
