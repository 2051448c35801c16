package workout

import (
	"fmt"
	"strings"

	"github.com/claude/kabunga/internal/models"
)

// SummaryText renders a completed session as a shareable blurb.
func SummaryText(s *models.WorkoutSession) string {
	totalSets := 0
	for _, ex := range s.Exercises {
		totalSets += len(ex.Sets)
	}

	var b strings.Builder
	b.WriteString("💪 Just crushed it with Kabunga!\n\n")
	fmt.Fprintf(&b, "⏱ Duration: %s\n", formatDuration(s.Duration))
	fmt.Fprintf(&b, "🏋️ Exercises: %d\n", len(s.Exercises))
	fmt.Fprintf(&b, "📊 Total Sets: %d\n", totalSets)
	fmt.Fprintf(&b, "🔥 Calories: ~%d kcal\n\n", s.CaloriesEstimate)
	b.WriteString("#KabungaWorkout #FitnessGoals")
	return b.String()
}

// formatDuration renders seconds as "1h 23m", or "45m" under an hour.
func formatDuration(seconds int) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}
