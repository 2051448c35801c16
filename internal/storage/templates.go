package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/claude/kabunga/internal/models"
	"github.com/jackc/pgx/v5"
)

// ListTemplates returns the user's own templates newest-first. Built-in
// templates are compiled into the binary and never stored here.
func (db *DB) ListTemplates(ctx context.Context, userID string) ([]models.WorkoutTemplate, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, user_id, title, category, goal_focus, phases, progression_rule, created_at, updated_at
		 FROM templates WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("querying templates: %w", err)
	}
	defer rows.Close()

	var result []models.WorkoutTemplate
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

// GetTemplate returns one user template, or nil when absent.
func (db *DB) GetTemplate(ctx context.Context, id, userID string) (*models.WorkoutTemplate, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT id, user_id, title, category, goal_focus, phases, progression_rule, created_at, updated_at
		 FROM templates WHERE id = $1 AND user_id = $2`,
		id, userID)
	t, err := scanTemplate(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// SaveTemplate upserts a user-authored template. Phases are stored as JSONB.
func (db *DB) SaveTemplate(ctx context.Context, t models.WorkoutTemplate) error {
	phases, err := json.Marshal(t.Phases)
	if err != nil {
		return fmt.Errorf("encoding phases: %w", err)
	}
	_, err = db.Pool.Exec(ctx,
		`INSERT INTO templates (id, user_id, title, category, goal_focus, phases, progression_rule, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		 ON CONFLICT (id) DO UPDATE SET
		   title = EXCLUDED.title,
		   category = EXCLUDED.category,
		   goal_focus = EXCLUDED.goal_focus,
		   phases = EXCLUDED.phases,
		   progression_rule = EXCLUDED.progression_rule,
		   updated_at = EXCLUDED.updated_at`,
		t.ID, t.UserID, t.Title, t.Category, t.GoalFocus, phases, string(t.ProgressionRule),
		t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("saving template: %w", err)
	}
	return nil
}

// DeleteTemplate removes a user template.
func (db *DB) DeleteTemplate(ctx context.Context, id, userID string) error {
	_, err := db.Pool.Exec(ctx,
		`DELETE FROM templates WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting template: %w", err)
	}
	return nil
}

func scanTemplate(row rowScanner) (models.WorkoutTemplate, error) {
	var t models.WorkoutTemplate
	var phases []byte
	var rule string
	err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Category, &t.GoalFocus,
		&phases, &rule, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return t, err
		}
		return t, fmt.Errorf("scanning template: %w", err)
	}
	t.ProgressionRule = models.ProgressionRule(rule)
	if err := json.Unmarshal(phases, &t.Phases); err != nil {
		return t, fmt.Errorf("decoding phases: %w", err)
	}
	return t, nil
}
