package overload

import (
	"testing"

	"github.com/claude/kabunga/internal/models"
)

func session(sets ...models.HistorySet) models.HistorySession {
	return models.HistorySession{Sets: sets}
}

// TestSuggestNextNoHistory verifies that an empty history yields no
// suggestion rather than a zeroed one.
func TestSuggestNextNoHistory(t *testing.T) {
	if got := SuggestNext(nil, 8, models.ProgressionLinear, 2.5); got != nil {
		t.Errorf("SuggestNext(nil) = %+v, want nil", got)
	}
	empty := []models.HistorySession{{}}
	if got := SuggestNext(empty, 8, models.ProgressionLinear, 2.5); got != nil {
		t.Errorf("SuggestNext(empty sets) = %+v, want nil", got)
	}
}

// TestSuggestNextLinearAllRepsHit verifies the weight increases by the
// increment when every set reached the planned reps.
func TestSuggestNextLinearAllRepsHit(t *testing.T) {
	hist := []models.HistorySession{session(
		models.HistorySet{Reps: 8, Weight: 60},
		models.HistorySet{Reps: 8, Weight: 60},
		models.HistorySet{Reps: 8, Weight: 60},
	)}
	got := SuggestNext(hist, 8, models.ProgressionLinear, 2.5)
	if got == nil {
		t.Fatal("expected a suggestion")
	}
	if got.Weight != 62.5 || got.Reps != 8 {
		t.Errorf("got %g x %d, want 62.5 x 8", got.Weight, got.Reps)
	}
	if got.Reason == "" {
		t.Error("expected a reason")
	}
}

// TestSuggestNextLinearMissedReps verifies the weight holds when any set
// fell short of the planned reps.
func TestSuggestNextLinearMissedReps(t *testing.T) {
	hist := []models.HistorySession{session(
		models.HistorySet{Reps: 8, Weight: 60},
		models.HistorySet{Reps: 6, Weight: 60},
		models.HistorySet{Reps: 8, Weight: 60},
	)}
	got := SuggestNext(hist, 8, models.ProgressionLinear, 2.5)
	if got == nil {
		t.Fatal("expected a suggestion")
	}
	if got.Weight != 60 || got.Reps != 8 {
		t.Errorf("got %g x %d, want 60 x 8", got.Weight, got.Reps)
	}
}

// TestSuggestNextLinearHighRPE verifies the weight holds when reps were hit
// but the average recorded RPE was above 8.
func TestSuggestNextLinearHighRPE(t *testing.T) {
	hist := []models.HistorySession{session(
		models.HistorySet{Reps: 8, Weight: 60, RPE: 9},
		models.HistorySet{Reps: 8, Weight: 60, RPE: 10},
	)}
	got := SuggestNext(hist, 8, models.ProgressionLinear, 2.5)
	if got == nil {
		t.Fatal("expected a suggestion")
	}
	if got.Weight != 60 || got.Reps != 8 {
		t.Errorf("got %g x %d, want 60 x 8", got.Weight, got.Reps)
	}
}

// TestSuggestNextDouble verifies rep-climbing until plannedReps+2, then a
// weight bump with reps reset.
func TestSuggestNextDouble(t *testing.T) {
	climb := []models.HistorySession{session(models.HistorySet{Reps: 9, Weight: 40})}
	got := SuggestNext(climb, 8, models.ProgressionDouble, 2.5)
	if got == nil || got.Weight != 40 || got.Reps != 10 {
		t.Errorf("climb: got %+v, want 40 x 10", got)
	}

	bump := []models.HistorySession{session(models.HistorySet{Reps: 10, Weight: 40})}
	got = SuggestNext(bump, 8, models.ProgressionDouble, 2.5)
	if got == nil || got.Weight != 42.5 || got.Reps != 8 {
		t.Errorf("bump: got %+v, want 42.5 x 8", got)
	}
}

// TestSuggestNextMaintenance verifies maintenance returns the last working
// weight and the reps of the final set.
func TestSuggestNextMaintenance(t *testing.T) {
	hist := []models.HistorySession{session(
		models.HistorySet{Reps: 10, Weight: 50},
		models.HistorySet{Reps: 7, Weight: 55},
	)}
	got := SuggestNext(hist, 8, models.ProgressionMaintenance, 2.5)
	if got == nil || got.Weight != 55 || got.Reps != 7 {
		t.Errorf("got %+v, want 55 x 7", got)
	}
}

// TestNormalizeNameIdempotent verifies normalization is idempotent and
// collapses casing and whitespace.
func TestNormalizeNameIdempotent(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Bench Press", "bench press"},
		{"  Bench   Press  ", "bench press"},
		{"OVERHEAD\tPRESS", "overhead press"},
		{"", ""},
	}
	for _, tc := range cases {
		got := NormalizeName(tc.in)
		if got != tc.want {
			t.Errorf("NormalizeName(%q) = %q, want %q", tc.in, got, tc.want)
		}
		if again := NormalizeName(got); again != got {
			t.Errorf("NormalizeName not idempotent: %q -> %q", got, again)
		}
	}
}

// TestBestSetTieBreak verifies the higher weight wins when two sets share
// the same weight*reps score.
func TestBestSetTieBreak(t *testing.T) {
	sets := []models.HistorySet{
		{Reps: 10, Weight: 50}, // 500
		{Reps: 5, Weight: 100}, // 500, heavier
		{Reps: 8, Weight: 60},  // 480
	}
	best := BestSet(sets)
	if best.Weight != 100 || best.Reps != 5 {
		t.Errorf("BestSet = %+v, want 100 x 5", best)
	}
}

// TestHistoricalBestScore verifies the score scans all sessions, not just
// the most recent one.
func TestHistoricalBestScore(t *testing.T) {
	h := &models.ExerciseHistory{Sessions: []models.HistorySession{
		session(models.HistorySet{Reps: 8, Weight: 60}),
		session(models.HistorySet{Reps: 10, Weight: 65}),
	}}
	if got := HistoricalBestScore(h); got != 650 {
		t.Errorf("HistoricalBestScore = %g, want 650", got)
	}
	if got := HistoricalBestScore(nil); got != 0 {
		t.Errorf("HistoricalBestScore(nil) = %g, want 0", got)
	}
}
