package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dutyrotation/slack-duty-bot/internal/domain"
	"github.com/dutyrotation/slack-duty-bot/internal/domain/contract"
	"github.com/dutyrotation/slack-duty-bot/internal/domain/entity"
)

type vacationRepo struct {
	db dbConn
}

func newVacationRepo(db dbConn) contract.VacationRepo {
	return &vacationRepo{db: db}
}

func (r *vacationRepo) Create(vacation *entity.Vacation) error {
	query := `
		INSERT INTO vacations (uid, participant_id, start_date, end_date, announced_start, announced_end)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.Exec(query,
		vacation.UID,
		vacation.ParticipantID,
		vacation.StartDate.Format(domain.DateLayout),
		vacation.EndDate.Format(domain.DateLayout),
		vacation.AnnouncedStart,
		vacation.AnnouncedEnd,
	)
	if err != nil {
		return fmt.Errorf("failed to create vacation: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	vacation.ID = id
	return nil
}

func (r *vacationRepo) ListByParticipant(participantID int64) ([]*entity.Vacation, error) {
	query := `
		SELECT id, uid, participant_id, start_date, end_date, announced_start, announced_end, created_at
		FROM vacations
		WHERE participant_id = ?
		ORDER BY id ASC
	`

	rows, err := r.db.Query(query, participantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list vacations: %w", err)
	}
	defer rows.Close()

	return r.scanAll(rows)
}

func (r *vacationRepo) ListUnannounced() ([]*entity.Vacation, error) {
	query := `
		SELECT id, uid, participant_id, start_date, end_date, announced_start, announced_end, created_at
		FROM vacations
		WHERE announced_start = 0 OR announced_end = 0
		ORDER BY id ASC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list unannounced vacations: %w", err)
	}
	defer rows.Close()

	return r.scanAll(rows)
}

func (r *vacationRepo) ExistsOn(participantID int64, day time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM vacations
			WHERE participant_id = ? AND start_date <= ? AND end_date >= ?
		)
	`

	d := day.Format(domain.DateLayout)

	var exists bool
	if err := r.db.QueryRow(query, participantID, d, d).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check vacation: %w", err)
	}

	return exists, nil
}

func (r *vacationRepo) SetAnnouncedStart(vacationID int64) error {
	query := `UPDATE vacations SET announced_start = 1 WHERE id = ?`

	_, err := r.db.Exec(query, vacationID)
	if err != nil {
		return fmt.Errorf("failed to mark start announced: %w", err)
	}

	return nil
}

func (r *vacationRepo) SetAnnouncedEnd(vacationID int64) error {
	query := `UPDATE vacations SET announced_end = 1 WHERE id = ?`

	_, err := r.db.Exec(query, vacationID)
	if err != nil {
		return fmt.Errorf("failed to mark end announced: %w", err)
	}

	return nil
}

func (r *vacationRepo) Delete(vacationID int64) error {
	query := `DELETE FROM vacations WHERE id = ?`

	_, err := r.db.Exec(query, vacationID)
	if err != nil {
		return fmt.Errorf("failed to delete vacation: %w", err)
	}

	return nil
}

func (r *vacationRepo) scanAll(rows *sql.Rows) ([]*entity.Vacation, error) {
	var vacations []*entity.Vacation
	for rows.Next() {
		vacation := &entity.Vacation{}
		var startDate, endDate string
		err := rows.Scan(
			&vacation.ID,
			&vacation.UID,
			&vacation.ParticipantID,
			&startDate,
			&endDate,
			&vacation.AnnouncedStart,
			&vacation.AnnouncedEnd,
			&vacation.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan vacation: %w", err)
		}

		if vacation.StartDate, err = time.Parse(domain.DateLayout, startDate); err != nil {
			return nil, fmt.Errorf("failed to parse start date: %w", err)
		}
		if vacation.EndDate, err = time.Parse(domain.DateLayout, endDate); err != nil {
			return nil, fmt.Errorf("failed to parse end date: %w", err)
		}

		vacations = append(vacations, vacation)
	}

	return vacations, rows.Err()
}
