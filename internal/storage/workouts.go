package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/claude/kabunga/internal/models"
	"github.com/jackc/pgx/v5"
)

// SaveWorkout upserts a finalized session. Exercises and media URLs are
// stored as JSONB; the session is the unit of persistence, individual sets
// are never written separately. Invalidates the user's cached reads.
func (db *DB) SaveWorkout(ctx context.Context, s models.WorkoutSession) error {
	exercises, err := json.Marshal(s.Exercises)
	if err != nil {
		return fmt.Errorf("encoding exercises: %w", err)
	}
	media, err := json.Marshal(s.MediaURLs)
	if err != nil {
		return fmt.Errorf("encoding media urls: %w", err)
	}

	_, err = db.Pool.Exec(ctx,
		`INSERT INTO workouts (id, user_id, template_id, started_at, ended_at, duration_sec,
		 exercises, media_urls, calories_estimate, notes, status, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		 ON CONFLICT (id) DO UPDATE SET
		   ended_at = EXCLUDED.ended_at,
		   duration_sec = EXCLUDED.duration_sec,
		   exercises = EXCLUDED.exercises,
		   media_urls = EXCLUDED.media_urls,
		   calories_estimate = EXCLUDED.calories_estimate,
		   notes = EXCLUDED.notes,
		   status = EXCLUDED.status,
		   updated_at = EXCLUDED.updated_at`,
		s.ID, s.UserID, nullableStr(s.TemplateID), s.StartedAt, s.EndedAt, s.Duration,
		exercises, media, s.CaloriesEstimate, s.Notes, string(s.Status), s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("saving workout: %w", err)
	}

	db.cache.invalidateUser(s.UserID)
	return nil
}

// CompletedWorkouts returns the user's completed sessions newest-first, at
// most limit of them (no limit when limit <= 0). Results are served from a
// short-lived cache keyed by (user, limit).
func (db *DB) CompletedWorkouts(ctx context.Context, userID string, limit int) ([]models.WorkoutSession, error) {
	if cached, ok := db.cache.get(userID, limit); ok {
		return cached, nil
	}

	query := `SELECT id, user_id, template_id, started_at, ended_at, duration_sec,
	 exercises, media_urls, calories_estimate, notes, status, created_at, updated_at
	 FROM workouts
	 WHERE user_id = $1 AND status = 'completed'
	 ORDER BY started_at DESC`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying workouts: %w", err)
	}
	defer rows.Close()

	var result []models.WorkoutSession
	for rows.Next() {
		s, err := scanWorkout(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	db.cache.put(userID, limit, result)
	return result, nil
}

// GetWorkout retrieves one session by ID, regardless of status.
func (db *DB) GetWorkout(ctx context.Context, id, userID string) (*models.WorkoutSession, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT id, user_id, template_id, started_at, ended_at, duration_sec,
		 exercises, media_urls, calories_estimate, notes, status, created_at, updated_at
		 FROM workouts WHERE id = $1 AND user_id = $2`,
		id, userID)
	s, err := scanWorkout(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// DeleteWorkout removes a session and invalidates the user's cache.
func (db *DB) DeleteWorkout(ctx context.Context, id, userID string) error {
	_, err := db.Pool.Exec(ctx,
		`DELETE FROM workouts WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting workout: %w", err)
	}
	db.cache.invalidateUser(userID)
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWorkout(row rowScanner) (models.WorkoutSession, error) {
	var s models.WorkoutSession
	var templateID *string
	var exercises, media []byte
	var status string
	err := row.Scan(&s.ID, &s.UserID, &templateID, &s.StartedAt, &s.EndedAt, &s.Duration,
		&exercises, &media, &s.CaloriesEstimate, &s.Notes, &status, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return s, fmt.Errorf("scanning workout: %w", err)
	}
	if templateID != nil {
		s.TemplateID = *templateID
	}
	s.Status = models.SessionStatus(status)
	if err := json.Unmarshal(exercises, &s.Exercises); err != nil {
		return s, fmt.Errorf("decoding exercises: %w", err)
	}
	if err := json.Unmarshal(media, &s.MediaURLs); err != nil {
		return s, fmt.Errorf("decoding media urls: %w", err)
	}
	return s, nil
}

func nullableStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
