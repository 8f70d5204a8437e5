package database

import (
	"database/sql"
	"fmt"

	"github.com/dutyrotation/slack-duty-bot/internal/domain/contract"
	"github.com/dutyrotation/slack-duty-bot/internal/domain/entity"
)

type rosterRepo struct {
	db dbConn
}

func newRosterRepo(db dbConn) contract.RosterRepo {
	return &rosterRepo{db: db}
}

func (r *rosterRepo) Create(participant *entity.Participant) error {
	query := `
		INSERT INTO participants (slack_user_id, display_name, position)
		VALUES (?, ?, ?)
	`

	result, err := r.db.Exec(query,
		participant.SlackUserID,
		participant.DisplayName,
		participant.Position,
	)
	if err != nil {
		return fmt.Errorf("failed to create participant: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	participant.ID = id
	return nil
}

func (r *rosterRepo) GetByID(participantID int64) (*entity.Participant, error) {
	query := `
		SELECT id, slack_user_id, display_name, position, joined_at
		FROM participants
		WHERE id = ?
	`

	return r.scanOne(r.db.QueryRow(query, participantID))
}

func (r *rosterRepo) GetBySlackID(slackUserID string) (*entity.Participant, error) {
	query := `
		SELECT id, slack_user_id, display_name, position, joined_at
		FROM participants
		WHERE slack_user_id = ?
	`

	return r.scanOne(r.db.QueryRow(query, slackUserID))
}

func (r *rosterRepo) GetByPosition(position int) (*entity.Participant, error) {
	query := `
		SELECT id, slack_user_id, display_name, position, joined_at
		FROM participants
		WHERE position = ?
	`

	return r.scanOne(r.db.QueryRow(query, position))
}

func (r *rosterRepo) List() ([]*entity.Participant, error) {
	query := `
		SELECT id, slack_user_id, display_name, position, joined_at
		FROM participants
		ORDER BY position ASC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	var participants []*entity.Participant
	for rows.Next() {
		participant := &entity.Participant{}
		err := rows.Scan(
			&participant.ID,
			&participant.SlackUserID,
			&participant.DisplayName,
			&participant.Position,
			&participant.JoinedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, participant)
	}

	return participants, rows.Err()
}

func (r *rosterRepo) UpdatePosition(participantID int64, position int) error {
	query := `UPDATE participants SET position = ? WHERE id = ?`

	_, err := r.db.Exec(query, position, participantID)
	if err != nil {
		return fmt.Errorf("failed to update position: %w", err)
	}

	return nil
}

func (r *rosterRepo) ShiftPositionsAbove(position int) error {
	query := `UPDATE participants SET position = position - 1 WHERE position > ?`

	_, err := r.db.Exec(query, position)
	if err != nil {
		return fmt.Errorf("failed to shift positions: %w", err)
	}

	return nil
}

func (r *rosterRepo) Delete(participantID int64) error {
	query := `DELETE FROM participants WHERE id = ?`

	_, err := r.db.Exec(query, participantID)
	if err != nil {
		return fmt.Errorf("failed to delete participant: %w", err)
	}

	return nil
}

func (r *rosterRepo) scanOne(row *sql.Row) (*entity.Participant, error) {
	participant := &entity.Participant{}
	err := row.Scan(
		&participant.ID,
		&participant.SlackUserID,
		&participant.DisplayName,
		&participant.Position,
		&participant.JoinedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}

	return participant, nil
}
