package ironprotocol

import (
	"testing"
	"time"

	"github.com/claude/kabunga/internal/models"
)

func ironTemplate(weights ...float64) models.WorkoutTemplate {
	exs := make([]models.TemplateExercise, len(weights))
	for i, w := range weights {
		exs[i] = models.TemplateExercise{Name: "Lift", Sets: 3, Reps: 8, Weight: w}
	}
	return models.WorkoutTemplate{
		ID:     "tpl_iron_push1", // mapped to benchPress, reference max 80
		Phases: []models.WorkoutPhase{{Name: "Working Sets", Exercises: exs}},
	}
}

// TestScaleTemplateRatio verifies weights scale by userMax/referenceMax with
// rounding to the nearest whole unit.
func TestScaleTemplateRatio(t *testing.T) {
	maxes := models.OneRepMaxes{BenchPress: 100} // ratio 100/80 = 1.25
	got := ScaleTemplate(ironTemplate(50), maxes)
	if w := got.Phases[0].Exercises[0].Weight; w != 63 {
		t.Errorf("scaled weight = %g, want 63", w)
	}
}

// TestScaleTemplateIdentity verifies a user max equal to the reference max
// leaves every weight unchanged.
func TestScaleTemplateIdentity(t *testing.T) {
	maxes := models.OneRepMaxes{BenchPress: 80}
	got := ScaleTemplate(ironTemplate(50, 62.5, 40), maxes)
	want := []float64{50, 63, 40} // 62.5 rounds to 63 even at ratio 1
	for i, ex := range got.Phases[0].Exercises {
		if ex.Weight != want[i] {
			t.Errorf("exercise %d weight = %g, want %g", i, ex.Weight, want[i])
		}
	}
}

// TestScaleTemplateBodyweight verifies zero-weight movements are never
// scaled regardless of ratio.
func TestScaleTemplateBodyweight(t *testing.T) {
	maxes := models.OneRepMaxes{BenchPress: 160} // ratio 2
	got := ScaleTemplate(ironTemplate(0), maxes)
	if w := got.Phases[0].Exercises[0].Weight; w != 0 {
		t.Errorf("bodyweight exercise scaled to %g, want 0", w)
	}
}

// TestScaleTemplateNonIron verifies non-Iron templates pass through.
func TestScaleTemplateNonIron(t *testing.T) {
	tpl := ironTemplate(50)
	tpl.ID = "tpl_push_day"
	got := ScaleTemplate(tpl, models.OneRepMaxes{BenchPress: 160})
	if w := got.Phases[0].Exercises[0].Weight; w != 50 {
		t.Errorf("non-iron template scaled to %g, want 50", w)
	}
}

// TestScaleTemplateDoesNotMutateInput verifies scaling is a pure copy.
func TestScaleTemplateDoesNotMutateInput(t *testing.T) {
	tpl := ironTemplate(50)
	ScaleTemplate(tpl, models.OneRepMaxes{BenchPress: 160})
	if w := tpl.Phases[0].Exercises[0].Weight; w != 50 {
		t.Errorf("input template mutated: weight = %g", w)
	}
}

// TestScheduleFor verifies the weekday lookup, including the Sunday rest day.
func TestScheduleFor(t *testing.T) {
	mon := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC) // a Monday
	day := ScheduleFor(mon)
	if day.SessionType != SessionPrimary || day.TemplateID != "tpl_iron_push1" {
		t.Errorf("Monday = %+v, want primary push1", day)
	}

	sun := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC) // a Sunday
	day = ScheduleFor(sun)
	if day.SessionType != SessionRest || day.TemplateID != "" {
		t.Errorf("Sunday = %+v, want rest day with no template", day)
	}
	if IsTrainingDay(sun) {
		t.Error("Sunday should not be a training day")
	}
}

// TestNormalizeMaxes verifies unset lifts fall back to the reference
// defaults while set lifts are kept.
func TestNormalizeMaxes(t *testing.T) {
	out := NormalizeMaxes("u1", models.OneRepMaxes{BackSquat: 160})
	if out.BackSquat != 160 {
		t.Errorf("backSquat = %g, want 160", out.BackSquat)
	}
	if out.BenchPress != DefaultMaxes[BenchPress] {
		t.Errorf("benchPress = %g, want default %g", out.BenchPress, DefaultMaxes[BenchPress])
	}
	if out.UserID != "u1" {
		t.Errorf("userId = %q, want u1", out.UserID)
	}
}

// TestClassifyPhase verifies phase-name classification keywords.
func TestClassifyPhase(t *testing.T) {
	cases := []struct {
		name     string
		isWarmup bool
		want     PhaseType
	}{
		{"Warmup", false, PhaseWarmup},
		{"Main Lifts", true, PhaseWarmup},
		{"Heavy Sets (Biweekly)", false, PhaseHeavy},
		{"Back-Off Sets", false, PhaseBackoff},
		{"Working Sets", false, PhaseWorking},
		{"Accessories", false, PhaseAccessories},
	}
	for _, tc := range cases {
		if got := ClassifyPhase(tc.name, tc.isWarmup); got != tc.want {
			t.Errorf("ClassifyPhase(%q, %v) = %q, want %q", tc.name, tc.isWarmup, got, tc.want)
		}
	}
}
