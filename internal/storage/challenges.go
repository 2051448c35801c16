package storage

import (
	"context"
	"fmt"

	"github.com/claude/kabunga/internal/models"
)

// ListChallenges returns the user's challenges, active ones first, then by
// creation time descending.
func (db *DB) ListChallenges(ctx context.Context, userID string) ([]models.Challenge, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, user_id, title, description, period, target_count, current_count,
		 start_date, end_date, completed, created_at
		 FROM challenges WHERE user_id = $1
		 ORDER BY completed ASC, created_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("querying challenges: %w", err)
	}
	defer rows.Close()

	var result []models.Challenge
	for rows.Next() {
		var c models.Challenge
		var period string
		if err := rows.Scan(&c.ID, &c.UserID, &c.Title, &c.Description, &period,
			&c.TargetCount, &c.CurrentCount, &c.StartDate, &c.EndDate, &c.Completed, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning challenge: %w", err)
		}
		c.Period = models.ChallengePeriod(period)
		result = append(result, c)
	}
	return result, rows.Err()
}

// SaveChallenge upserts a challenge, including its recomputed progress.
func (db *DB) SaveChallenge(ctx context.Context, c models.Challenge) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO challenges (id, user_id, title, description, period, target_count,
		 current_count, start_date, end_date, completed, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		 ON CONFLICT (id) DO UPDATE SET
		   title = EXCLUDED.title,
		   description = EXCLUDED.description,
		   target_count = EXCLUDED.target_count,
		   current_count = EXCLUDED.current_count,
		   end_date = EXCLUDED.end_date,
		   completed = EXCLUDED.completed`,
		c.ID, c.UserID, c.Title, c.Description, string(c.Period), c.TargetCount,
		c.CurrentCount, c.StartDate, c.EndDate, c.Completed, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("saving challenge: %w", err)
	}
	return nil
}

// DeleteChallenge removes a challenge.
func (db *DB) DeleteChallenge(ctx context.Context, id, userID string) error {
	_, err := db.Pool.Exec(ctx,
		`DELETE FROM challenges WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting challenge: %w", err)
	}
	return nil
}
