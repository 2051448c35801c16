// Package history derives read models from completed workout sessions:
// per-exercise history, streaks, dashboard aggregates and challenge
// progress. Every function is a pure reducer over a slice of sessions the
// store returns most-recent-first.
package history

import (
	"time"

	"github.com/claude/kabunga/internal/models"
	"github.com/claude/kabunga/internal/overload"
)

// ForExercise extracts the per-session history of one exercise by
// normalized name. Sessions are scanned most-recent-first and at most limit
// sessions are returned (no limit when limit <= 0). Sets with neither reps
// nor weight recorded are dropped; a session where nothing was recorded for
// the exercise does not count against the limit.
func ForExercise(sessions []models.WorkoutSession, name string, limit int) *models.ExerciseHistory {
	key := overload.NormalizeName(name)
	out := &models.ExerciseHistory{Name: key}
	for _, sess := range sessions {
		if limit > 0 && len(out.Sessions) >= limit {
			break
		}
		var sets []models.HistorySet
		for _, ex := range sess.Exercises {
			if overload.NormalizeName(ex.Name) != key {
				continue
			}
			for _, s := range ex.Sets {
				if s.Reps == 0 && s.Weight == 0 {
					continue
				}
				sets = append(sets, models.HistorySet{Reps: s.Reps, Weight: s.Weight, RPE: s.RPE})
			}
		}
		if len(sets) == 0 {
			continue
		}
		out.Sessions = append(out.Sessions, models.HistorySession{
			Date:    sess.StartedAt,
			Sets:    sets,
			BestSet: overload.BestSet(sets),
		})
	}
	return out
}

// BestScores computes the historical best weight*reps score per normalized
// exercise name across all sessions. Used to prime live record detection.
func BestScores(sessions []models.WorkoutSession) map[string]float64 {
	best := make(map[string]float64)
	for _, sess := range sessions {
		for _, ex := range sess.Exercises {
			key := overload.NormalizeName(ex.Name)
			for _, s := range ex.Sets {
				if score := overload.SetScore(s.Weight, s.Reps); score > best[key] {
					best[key] = score
				}
			}
		}
	}
	return best
}

// Streak counts consecutive training days walking backward from today. A day
// counts when at least one session started on it; multiple sessions on one
// day still count once. The walk stops at the first gap, so a rest day today
// means a streak of zero.
func Streak(sessions []models.WorkoutSession, now time.Time) int {
	trained := make(map[string]bool, len(sessions))
	for _, s := range sessions {
		trained[dayKey(s.StartedAt)] = true
	}
	day := now
	streak := 0
	for trained[dayKey(day)] {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// weekStart returns midnight of the Monday of t's week.
func weekStart(t time.Time) time.Time {
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := (int(midnight.Weekday()) + 6) % 7 // Monday=0 ... Sunday=6
	return midnight.AddDate(0, 0, -offset)
}

// Dashboard aggregates lifetime totals, the current streak, and the
// this-week / this-month counts. Weeks start on Monday; months are
// calendar months.
func Dashboard(sessions []models.WorkoutSession, now time.Time) models.DashboardStats {
	stats := models.DashboardStats{
		TotalWorkouts: len(sessions),
		CurrentStreak: Streak(sessions, now),
	}
	wkStart := weekStart(now)
	moStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	for _, s := range sessions {
		stats.TotalDuration += s.Duration
		stats.TotalCalories += s.CaloriesEstimate
		if !s.StartedAt.Before(wkStart) {
			stats.WeeklyWorkouts++
		}
		if !s.StartedAt.Before(moStart) {
			stats.MonthlyWorkouts++
		}
	}
	return stats
}

// ChallengeProgress recomputes a challenge's count from the sessions that
// started inside its window, inclusive on both ends.
func ChallengeProgress(ch models.Challenge, sessions []models.WorkoutSession) models.Challenge {
	count := 0
	for _, s := range sessions {
		if s.StartedAt.Before(ch.StartDate) || s.StartedAt.After(ch.EndDate) {
			continue
		}
		count++
	}
	ch.CurrentCount = count
	ch.Completed = ch.TargetCount > 0 && count >= ch.TargetCount
	return ch
}
