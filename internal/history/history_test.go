package history

import (
	"testing"
	"time"

	"github.com/claude/kabunga/internal/models"
)

func day(offset int) time.Time {
	base := time.Date(2025, 6, 15, 18, 0, 0, 0, time.UTC) // a Sunday evening
	return base.AddDate(0, 0, offset)
}

func sessionOn(t time.Time, exercises ...models.Exercise) models.WorkoutSession {
	return models.WorkoutSession{
		StartedAt: t,
		Duration:  1800,
		Exercises: exercises,
		Status:    models.StatusCompleted,
	}
}

func bench(sets ...models.ExerciseSet) models.Exercise {
	return models.Exercise{Name: "Bench Press", Sets: sets}
}

// TestForExerciseNormalizesAndFilters verifies name matching is
// case/whitespace insensitive and empty sets are dropped.
func TestForExerciseNormalizesAndFilters(t *testing.T) {
	sessions := []models.WorkoutSession{
		sessionOn(day(0), models.Exercise{
			Name: "  bench   PRESS ",
			Sets: []models.ExerciseSet{
				{Reps: 8, Weight: 60},
				{Reps: 0, Weight: 0}, // never recorded
			},
		}),
		sessionOn(day(-2), models.Exercise{Name: "Squat", Sets: []models.ExerciseSet{{Reps: 5, Weight: 100}}}),
	}

	h := ForExercise(sessions, "Bench Press", 0)
	if h.Name != "bench press" {
		t.Errorf("name = %q, want normalized", h.Name)
	}
	if len(h.Sessions) != 1 {
		t.Fatalf("sessions = %d, want 1", len(h.Sessions))
	}
	if len(h.Sessions[0].Sets) != 1 {
		t.Errorf("sets = %d, want empty set filtered", len(h.Sessions[0].Sets))
	}
	if h.Sessions[0].BestSet.Weight != 60 || h.Sessions[0].BestSet.Reps != 8 {
		t.Errorf("bestSet = %+v", h.Sessions[0].BestSet)
	}
}

// TestForExerciseLimit verifies empty sessions do not consume the limit.
func TestForExerciseLimit(t *testing.T) {
	sessions := []models.WorkoutSession{
		sessionOn(day(0), bench(models.ExerciseSet{Reps: 8, Weight: 62.5})),
		sessionOn(day(-1), bench(models.ExerciseSet{})), // nothing recorded
		sessionOn(day(-2), bench(models.ExerciseSet{Reps: 8, Weight: 60})),
		sessionOn(day(-3), bench(models.ExerciseSet{Reps: 8, Weight: 57.5})),
	}

	h := ForExercise(sessions, "Bench Press", 2)
	if len(h.Sessions) != 2 {
		t.Fatalf("sessions = %d, want 2", len(h.Sessions))
	}
	if h.Sessions[0].Sets[0].Weight != 62.5 || h.Sessions[1].Sets[0].Weight != 60 {
		t.Errorf("limit skipped the wrong sessions: %+v", h.Sessions)
	}
}

// TestBestScores verifies the per-exercise historical maximum of
// weight*reps.
func TestBestScores(t *testing.T) {
	sessions := []models.WorkoutSession{
		sessionOn(day(0), bench(
			models.ExerciseSet{Reps: 8, Weight: 60},  // 480
			models.ExerciseSet{Reps: 5, Weight: 100}, // 500
		)),
		sessionOn(day(-7), bench(models.ExerciseSet{Reps: 10, Weight: 45})), // 450
	}

	best := BestScores(sessions)
	if best["bench press"] != 500 {
		t.Errorf("bench press best = %g, want 500", best["bench press"])
	}
}

// TestStreakBreaksOnRestDayToday verifies the walk starts at today with no
// grace day: training on only the two prior days is a broken streak.
func TestStreakBreaksOnRestDayToday(t *testing.T) {
	sessions := []models.WorkoutSession{
		sessionOn(day(-1)),
		sessionOn(day(-2)),
	}
	if got := Streak(sessions, day(0)); got != 0 {
		t.Errorf("streak = %d, want 0", got)
	}
}

// TestStreakStopsAtFirstGap verifies a run through today counts until the
// first missing day.
func TestStreakStopsAtFirstGap(t *testing.T) {
	sessions := []models.WorkoutSession{
		sessionOn(day(0)),
		sessionOn(day(-1)),
		sessionOn(day(-2)),
		sessionOn(day(-4)), // gap at -3
	}
	if got := Streak(sessions, day(0)); got != 3 {
		t.Errorf("streak = %d, want 3", got)
	}
}

// TestStreakCountsTodayOnce verifies two sessions on one day count as one
// streak day.
func TestStreakCountsTodayOnce(t *testing.T) {
	sessions := []models.WorkoutSession{
		sessionOn(day(0)),
		sessionOn(day(0).Add(-3 * time.Hour)),
		sessionOn(day(-1)),
	}
	if got := Streak(sessions, day(0)); got != 2 {
		t.Errorf("streak = %d, want 2", got)
	}
}

// TestStreakZero verifies no recent training means no streak.
func TestStreakZero(t *testing.T) {
	sessions := []models.WorkoutSession{sessionOn(day(-5))}
	if got := Streak(sessions, day(0)); got != 0 {
		t.Errorf("streak = %d, want 0", got)
	}
}

// TestDashboardWeekStartsMonday verifies the weekly count uses a Monday
// week boundary, not a rolling seven days.
func TestDashboardWeekStartsMonday(t *testing.T) {
	// day(0) is Sunday 2025-06-15; its week began Monday 2025-06-09.
	sessions := []models.WorkoutSession{
		sessionOn(day(0)),  // Sunday, this week
		sessionOn(day(-6)), // Monday, this week
		sessionOn(day(-7)), // previous Sunday, last week
	}
	stats := Dashboard(sessions, day(0))
	if stats.WeeklyWorkouts != 2 {
		t.Errorf("weeklyWorkouts = %d, want 2", stats.WeeklyWorkouts)
	}
	if stats.MonthlyWorkouts != 3 { // all of them are in June
		t.Errorf("monthlyWorkouts = %d, want 3", stats.MonthlyWorkouts)
	}
	if stats.TotalWorkouts != 3 || stats.TotalDuration != 5400 {
		t.Errorf("totals = %+v", stats)
	}
}

// TestChallengeProgress verifies the inclusive window count and the
// completion flag.
func TestChallengeProgress(t *testing.T) {
	ch := models.Challenge{
		TargetCount: 3,
		StartDate:   day(-7),
		EndDate:     day(0),
	}
	sessions := []models.WorkoutSession{
		sessionOn(day(0)),  // on the end boundary
		sessionOn(day(-7)), // on the start boundary
		sessionOn(day(-8)), // outside
	}

	got := ChallengeProgress(ch, sessions)
	if got.CurrentCount != 2 {
		t.Errorf("currentCount = %d, want 2", got.CurrentCount)
	}
	if got.Completed {
		t.Error("challenge completed at 2/3")
	}

	sessions = append(sessions, sessionOn(day(-3)))
	got = ChallengeProgress(ch, sessions)
	if got.CurrentCount != 3 || !got.Completed {
		t.Errorf("progress = %d completed = %v, want 3/true", got.CurrentCount, got.Completed)
	}
}
