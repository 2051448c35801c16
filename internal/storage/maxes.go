package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/claude/kabunga/internal/models"
	"github.com/jackc/pgx/v5"
)

// GetMaxes returns the user's stored one-rep maxes, or nil when none were
// ever saved.
func (db *DB) GetMaxes(ctx context.Context, userID string) (*models.OneRepMaxes, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT user_id, bench_press, back_squat, overhead_press, bent_over_row, romanian_dl, updated_at
		 FROM one_rep_maxes WHERE user_id = $1`,
		userID)
	var m models.OneRepMaxes
	err := row.Scan(&m.UserID, &m.BenchPress, &m.BackSquat, &m.OverheadPress,
		&m.BentOverRow, &m.RomanianDL, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying one-rep maxes: %w", err)
	}
	return &m, nil
}

// UpdateMaxes merges the patch into the stored maxes (starting from the
// current row, or zeros when none exists) and upserts the result.
func (db *DB) UpdateMaxes(ctx context.Context, userID string, patch models.OneRepMaxPatch) (models.OneRepMaxes, error) {
	current, err := db.GetMaxes(ctx, userID)
	if err != nil {
		return models.OneRepMaxes{}, err
	}
	m := models.OneRepMaxes{UserID: userID}
	if current != nil {
		m = *current
	}
	if patch.BenchPress != nil {
		m.BenchPress = *patch.BenchPress
	}
	if patch.BackSquat != nil {
		m.BackSquat = *patch.BackSquat
	}
	if patch.OverheadPress != nil {
		m.OverheadPress = *patch.OverheadPress
	}
	if patch.BentOverRow != nil {
		m.BentOverRow = *patch.BentOverRow
	}
	if patch.RomanianDL != nil {
		m.RomanianDL = *patch.RomanianDL
	}
	m.UpdatedAt = time.Now()

	_, err = db.Pool.Exec(ctx,
		`INSERT INTO one_rep_maxes (user_id, bench_press, back_squat, overhead_press, bent_over_row, romanian_dl, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)
		 ON CONFLICT (user_id) DO UPDATE SET
		   bench_press = EXCLUDED.bench_press,
		   back_squat = EXCLUDED.back_squat,
		   overhead_press = EXCLUDED.overhead_press,
		   bent_over_row = EXCLUDED.bent_over_row,
		   romanian_dl = EXCLUDED.romanian_dl,
		   updated_at = EXCLUDED.updated_at`,
		m.UserID, m.BenchPress, m.BackSquat, m.OverheadPress, m.BentOverRow, m.RomanianDL, m.UpdatedAt)
	if err != nil {
		return models.OneRepMaxes{}, fmt.Errorf("saving one-rep maxes: %w", err)
	}
	return m, nil
}
