package workout

import (
	"strings"
	"testing"

	"github.com/claude/kabunga/internal/models"
)

// TestSummaryText verifies the share blurb counts every set and formats the
// duration in whole minutes.
func TestSummaryText(t *testing.T) {
	s := &models.WorkoutSession{
		Duration:         2700,
		CaloriesEstimate: 315,
		Exercises: []models.Exercise{
			{Name: "Bench Press", Sets: make([]models.ExerciseSet, 3)},
			{Name: "Overhead Press", Sets: make([]models.ExerciseSet, 2)},
		},
	}

	text := SummaryText(s)
	for _, want := range []string{
		"Duration: 45m",
		"Exercises: 2",
		"Total Sets: 5",
		"Calories: ~315 kcal",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("summary missing %q:\n%s", want, text)
		}
	}
}

// TestFormatDurationHours verifies the hour form kicks in past 60 minutes.
func TestFormatDurationHours(t *testing.T) {
	if got := formatDuration(5400); got != "1h 30m" {
		t.Errorf("formatDuration(5400) = %q, want 1h 30m", got)
	}
	if got := formatDuration(359); got != "5m" {
		t.Errorf("formatDuration(359) = %q, want 5m", got)
	}
}
