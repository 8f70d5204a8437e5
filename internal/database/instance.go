package database

import (
	"context"
	"fmt"

	"github.com/dutyrotation/slack-duty-bot/internal/domain/contract"
)

// instance implements the DataManager interface
type instance struct {
	db           *DB
	rosterRepo   contract.RosterRepo
	vacationRepo contract.VacationRepo
	settingsRepo contract.SettingsRepo
}

// NewInstance creates a new database instance with all repositories
func NewInstance(db *DB) contract.DataManager {
	i := &instance{db: db}
	i.rosterRepo = newRosterRepo(db.conn)
	i.vacationRepo = newVacationRepo(db.conn)
	i.settingsRepo = newSettingsRepo(db.conn)
	return i
}

// repoInstancesWithConn creates repository instances with a custom dbConn
func repoInstancesWithConn(db dbConn) *instance {
	return &instance{
		rosterRepo:   newRosterRepo(db),
		vacationRepo: newVacationRepo(db),
		settingsRepo: newSettingsRepo(db),
	}
}

// Roster returns the participant repository
func (i *instance) Roster() contract.RosterRepo {
	return i.rosterRepo
}

// Vacation returns the vacation repository
func (i *instance) Vacation() contract.VacationRepo {
	return i.vacationRepo
}

// Settings returns the bot settings repository
func (i *instance) Settings() contract.SettingsRepo {
	return i.settingsRepo
}

// WithTransaction executes a function within a database transaction
func (i *instance) WithTransaction(ctx context.Context, fn func(dm contract.DataManager) error) error {
	tx, err := i.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	txInstance := repoInstancesWithConn(tx)
	err = fn(txInstance)
	if err != nil {
		rbErr := tx.Rollback()
		if rbErr != nil {
			return fmt.Errorf("error rolling back transaction: %v, original error: %w", rbErr, err)
		}
		return err
	}

	return tx.Commit()
}
