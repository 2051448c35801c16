package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/claude/kabunga/internal/models"
	"github.com/jackc/pgx/v5"
)

// GetDailyLog returns the habit log for (user, date), or nil when the day
// was never logged.
func (db *DB) GetDailyLog(ctx context.Context, userID, date string) (*models.DailyLog, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT user_id, date, trained, protein_hit, slept_well, notes, completed_at
		 FROM daily_logs WHERE user_id = $1 AND date = $2`,
		userID, date)
	var l models.DailyLog
	err := row.Scan(&l.UserID, &l.Date, &l.Trained, &l.ProteinHit, &l.SleptWell, &l.Notes, &l.CompletedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying daily log: %w", err)
	}
	return &l, nil
}

// UpsertDailyLog merges the patch into the day's log, creating it on first
// touch. CompletedAt is stamped when all three habits are checked.
func (db *DB) UpsertDailyLog(ctx context.Context, userID, date string, patch models.DailyLogPatch) (models.DailyLog, error) {
	current, err := db.GetDailyLog(ctx, userID, date)
	if err != nil {
		return models.DailyLog{}, err
	}
	l := models.DailyLog{UserID: userID, Date: date}
	if current != nil {
		l = *current
	}
	if patch.Trained != nil {
		l.Trained = *patch.Trained
	}
	if patch.ProteinHit != nil {
		l.ProteinHit = *patch.ProteinHit
	}
	if patch.SleptWell != nil {
		l.SleptWell = *patch.SleptWell
	}
	if patch.Notes != nil {
		l.Notes = *patch.Notes
	}
	if l.Trained && l.ProteinHit && l.SleptWell {
		if l.CompletedAt == nil {
			now := time.Now()
			l.CompletedAt = &now
		}
	} else {
		l.CompletedAt = nil
	}

	_, err = db.Pool.Exec(ctx,
		`INSERT INTO daily_logs (user_id, date, trained, protein_hit, slept_well, notes, completed_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)
		 ON CONFLICT (user_id, date) DO UPDATE SET
		   trained = EXCLUDED.trained,
		   protein_hit = EXCLUDED.protein_hit,
		   slept_well = EXCLUDED.slept_well,
		   notes = EXCLUDED.notes,
		   completed_at = EXCLUDED.completed_at`,
		l.UserID, l.Date, l.Trained, l.ProteinHit, l.SleptWell, l.Notes, l.CompletedAt)
	if err != nil {
		return models.DailyLog{}, fmt.Errorf("saving daily log: %w", err)
	}
	return l, nil
}
