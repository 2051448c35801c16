package storage

import (
	"context"
	"fmt"

	"github.com/claude/kabunga/internal/models"
)

// AddMeal inserts a logged meal.
func (db *DB) AddMeal(ctx context.Context, m models.Meal) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO meals (id, user_id, name, calories, protein, carbs, fat, date, meal_type, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		m.ID, m.UserID, m.Name, m.Calories, m.Protein, m.Carbs, m.Fat, m.Date, m.MealType, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting meal: %w", err)
	}
	return nil
}

// MealsForDate returns a day's meals in logging order.
func (db *DB) MealsForDate(ctx context.Context, userID, date string) ([]models.Meal, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, user_id, name, calories, protein, carbs, fat, date, meal_type, created_at
		 FROM meals WHERE user_id = $1 AND date = $2
		 ORDER BY created_at ASC`,
		userID, date)
	if err != nil {
		return nil, fmt.Errorf("querying meals: %w", err)
	}
	defer rows.Close()

	var result []models.Meal
	for rows.Next() {
		var m models.Meal
		if err := rows.Scan(&m.ID, &m.UserID, &m.Name, &m.Calories, &m.Protein,
			&m.Carbs, &m.Fat, &m.Date, &m.MealType, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning meal: %w", err)
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

// DeleteMeal removes one logged meal.
func (db *DB) DeleteMeal(ctx context.Context, id, userID string) error {
	_, err := db.Pool.Exec(ctx,
		`DELETE FROM meals WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting meal: %w", err)
	}
	return nil
}
