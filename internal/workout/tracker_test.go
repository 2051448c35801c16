package workout

import (
	"fmt"
	"testing"
	"time"

	"github.com/claude/kabunga/internal/models"
	"github.com/claude/kabunga/internal/templates"
)

type recordingNotifier struct {
	setComplete     int
	countdownBeep   int
	restComplete    int
	workoutComplete int
}

func (n *recordingNotifier) SetComplete()     { n.setComplete++ }
func (n *recordingNotifier) CountdownBeep()   { n.countdownBeep++ }
func (n *recordingNotifier) RestComplete()    { n.restComplete++ }
func (n *recordingNotifier) WorkoutComplete() { n.workoutComplete++ }

func newTestTracker(cues Notifier) *Tracker {
	tr := New(Config{DefaultRestSeconds: 90}, cues, nil)
	seq := 0
	tr.newID = func() string {
		seq++
		return fmt.Sprintf("id-%d", seq)
	}
	tr.now = func() time.Time {
		return time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	}
	return tr
}

// TestAddExerciseSeedsPlannedSets verifies adding "Bench Press" with a
// 3x8@60 plan yields three sets at weight 60 with zero reps.
func TestAddExerciseSeedsPlannedSets(t *testing.T) {
	tr := newTestTracker(nil)
	tr.Start("u1")
	tr.AddExercise("Bench Press", &Plan{Sets: 3, Reps: 8, Weight: 60})

	snap := tr.Snapshot()
	if len(snap.Session.Exercises) != 1 {
		t.Fatalf("exercises = %d, want 1", len(snap.Session.Exercises))
	}
	ex := snap.Session.Exercises[0]
	if len(ex.Sets) != 3 {
		t.Fatalf("sets = %d, want 3", len(ex.Sets))
	}
	for i, s := range ex.Sets {
		if s.Weight != 60 || s.Reps != 0 || s.Completed {
			t.Errorf("set %d = %+v, want weight 60, reps 0, not completed", i, s)
		}
	}
	if ex.PlannedReps != 8 {
		t.Errorf("plannedReps = %d, want 8", ex.PlannedReps)
	}
}

// TestAddExerciseWithoutPlan verifies a bare add gets one empty set.
func TestAddExerciseWithoutPlan(t *testing.T) {
	tr := newTestTracker(nil)
	tr.Start("u1")
	tr.AddExercise("Plank", nil)

	ex := tr.Snapshot().Session.Exercises[0]
	if len(ex.Sets) != 1 || ex.Sets[0].Weight != 0 {
		t.Errorf("sets = %+v, want one zero-weight set", ex.Sets)
	}
}

// TestAddSetCopiesPreviousSet verifies a new set inherits the previous
// set's weight and reps, falling back to the planned weight for the first.
func TestAddSetCopiesPreviousSet(t *testing.T) {
	tr := newTestTracker(nil)
	tr.Start("u1")
	tr.AddExercise("Squat", &Plan{Sets: 1, Weight: 100})
	ex := tr.Snapshot().Session.Exercises[0]

	reps, weight := 5, 102.5
	tr.UpdateSet(ex.ID, ex.Sets[0].ID, models.SetPatch{Reps: &reps, Weight: &weight})
	tr.AddSet(ex.ID)

	ex = tr.Snapshot().Session.Exercises[0]
	if len(ex.Sets) != 2 {
		t.Fatalf("sets = %d, want 2", len(ex.Sets))
	}
	if got := ex.Sets[1]; got.Weight != 102.5 || got.Reps != 5 {
		t.Errorf("new set = %+v, want weight 102.5 reps 5", got)
	}
}

// TestRemoveSetKeepsIdentities verifies removing the middle set leaves the
// others' IDs intact.
func TestRemoveSetKeepsIdentities(t *testing.T) {
	tr := newTestTracker(nil)
	tr.Start("u1")
	tr.AddExercise("Squat", &Plan{Sets: 3})
	ex := tr.Snapshot().Session.Exercises[0]
	first, last := ex.Sets[0].ID, ex.Sets[2].ID

	tr.RemoveSet(ex.ID, ex.Sets[1].ID)

	ex = tr.Snapshot().Session.Exercises[0]
	if len(ex.Sets) != 2 || ex.Sets[0].ID != first || ex.Sets[1].ID != last {
		t.Errorf("sets after removal = %+v", ex.Sets)
	}
}

// TestCompleteSetStartsRest verifies completing a set stamps completedAt,
// fires the cue, and auto-starts the exercise's rest override.
func TestCompleteSetStartsRest(t *testing.T) {
	cues := &recordingNotifier{}
	tr := newTestTracker(cues)
	tr.Start("u1")
	tr.AddExercise("Bench Press", &Plan{Sets: 1, RestSeconds: 120})
	ex := tr.Snapshot().Session.Exercises[0]

	tr.CompleteSet(ex.ID, ex.Sets[0].ID)

	snap := tr.Snapshot()
	set := snap.Session.Exercises[0].Sets[0]
	if !set.Completed || set.CompletedAt == nil {
		t.Errorf("set = %+v, want completed with timestamp", set)
	}
	if !snap.IsResting || snap.RestRemaining != 120 || snap.RestTarget != 120 {
		t.Errorf("rest state = resting=%v remaining=%d target=%d, want 120s countdown",
			snap.IsResting, snap.RestRemaining, snap.RestTarget)
	}
	if cues.setComplete != 1 {
		t.Errorf("setComplete cues = %d, want 1", cues.setComplete)
	}
}

// TestCompleteSetDefaultRest verifies the configured default applies when
// the exercise has no rest override.
func TestCompleteSetDefaultRest(t *testing.T) {
	tr := newTestTracker(nil)
	tr.Start("u1")
	tr.AddExercise("Curls", &Plan{Sets: 1})
	ex := tr.Snapshot().Session.Exercises[0]

	tr.CompleteSet(ex.ID, ex.Sets[0].ID)

	if snap := tr.Snapshot(); snap.RestRemaining != 90 {
		t.Errorf("restRemaining = %d, want default 90", snap.RestRemaining)
	}
}

// TestToggleSetCompleteClearsTimestamp verifies un-completing a set clears
// completedAt.
func TestToggleSetCompleteClearsTimestamp(t *testing.T) {
	tr := newTestTracker(nil)
	tr.Start("u1")
	tr.AddExercise("Squat", &Plan{Sets: 1})
	ex := tr.Snapshot().Session.Exercises[0]
	setID := ex.Sets[0].ID

	tr.ToggleSetComplete(ex.ID, setID)
	if s := tr.Snapshot().Session.Exercises[0].Sets[0]; !s.Completed || s.CompletedAt == nil {
		t.Fatalf("after first toggle: %+v", s)
	}
	tr.ToggleSetComplete(ex.ID, setID)
	if s := tr.Snapshot().Session.Exercises[0].Sets[0]; s.Completed || s.CompletedAt != nil {
		t.Errorf("after second toggle: %+v, want cleared", s)
	}
}

// TestPersonalRecordDetection verifies the weight*reps score beats both the
// historical and in-session bests, warmups included, and only fires once
// per score level.
func TestPersonalRecordDetection(t *testing.T) {
	tr := newTestTracker(nil)
	tr.SetHistoryBests(map[string]float64{"bench press": 400}) // 50x8
	tpl, _ := templates.ByID("tpl_iron_push1")
	tr.StartFromTemplate("u1", tpl)

	snap := tr.Snapshot()
	var ex models.Exercise
	for _, e := range snap.Session.Exercises {
		if e.Name == "Bench Press" && !e.IsWarmup {
			ex = e
			break
		}
	}
	if ex.ID == "" {
		t.Fatal("no working Bench Press exercise in expanded template")
	}

	reps, weight := 8, 60.0 // score 480 > 400
	tr.UpdateSet(ex.ID, ex.Sets[0].ID, models.SetPatch{Reps: &reps, Weight: &weight})
	if !tr.CompleteSet(ex.ID, ex.Sets[0].ID) {
		t.Error("first set: want personal record")
	}

	// Same score again: not a new record.
	tr.UpdateSet(ex.ID, ex.Sets[1].ID, models.SetPatch{Reps: &reps, Weight: &weight})
	if tr.CompleteSet(ex.ID, ex.Sets[1].ID) {
		t.Error("equal score flagged as a record")
	}

	// Higher score beats the in-session best.
	reps2 := 9
	tr.UpdateSet(ex.ID, ex.Sets[2].ID, models.SetPatch{Reps: &reps2, Weight: &weight})
	if !tr.CompleteSet(ex.ID, ex.Sets[2].ID) {
		t.Error("third set: want personal record over session best")
	}

	snap = tr.Snapshot()
	for _, e := range snap.Session.Exercises {
		if e.ID == ex.ID {
			if !e.Sets[0].PersonalBest || e.Sets[1].PersonalBest || !e.Sets[2].PersonalBest {
				t.Errorf("personalBest flags = %v %v %v, want true false true",
					e.Sets[0].PersonalBest, e.Sets[1].PersonalBest, e.Sets[2].PersonalBest)
			}
		}
	}
}

// TestNoRecordsOutsideIronSessions verifies manual sessions skip record
// detection entirely.
func TestNoRecordsOutsideIronSessions(t *testing.T) {
	tr := newTestTracker(nil)
	tr.Start("u1")
	tr.AddExercise("Bench Press", &Plan{Sets: 1, Weight: 500})
	ex := tr.Snapshot().Session.Exercises[0]
	reps := 10
	tr.UpdateSet(ex.ID, ex.Sets[0].ID, models.SetPatch{Reps: &reps})

	if tr.CompleteSet(ex.ID, ex.Sets[0].ID) {
		t.Error("manual session produced a personal record")
	}
}

// TestCompleteFinalizesSession verifies completion copies the elapsed
// counter into duration, estimates calories at the moderate rate, and
// clears the live state.
func TestCompleteFinalizesSession(t *testing.T) {
	cues := &recordingNotifier{}
	tr := newTestTracker(cues)
	tr.Start("u1")
	tr.AddExercise("Squat", &Plan{Sets: 1})
	tr.elapsedSeconds = 1800 // 30 minutes on the clock

	done := tr.Complete()
	if done == nil {
		t.Fatal("Complete() = nil")
	}
	if done.Duration != 1800 {
		t.Errorf("duration = %d, want 1800", done.Duration)
	}
	if done.CaloriesEstimate != 210 {
		t.Errorf("calories = %d, want 210", done.CaloriesEstimate)
	}
	if done.Status != models.StatusCompleted || done.EndedAt == nil {
		t.Errorf("status = %q endedAt = %v, want completed with timestamp", done.Status, done.EndedAt)
	}
	if cues.workoutComplete != 1 {
		t.Errorf("workoutComplete cues = %d, want 1", cues.workoutComplete)
	}
	if snap := tr.Snapshot(); snap.Session != nil || snap.ElapsedSeconds != 0 {
		t.Errorf("live state not cleared: %+v", snap)
	}
	if tr.Complete() != nil {
		t.Error("second Complete() returned a session")
	}
}

// TestCancelDiscardsSession verifies cancel resets without returning a
// record.
func TestCancelDiscardsSession(t *testing.T) {
	tr := newTestTracker(nil)
	tr.Start("u1")
	tr.AddExercise("Squat", nil)
	tr.Cancel()
	if snap := tr.Snapshot(); snap.Session != nil {
		t.Errorf("session survives cancel: %+v", snap.Session)
	}
}

// TestCreatePlanKeepsTimerStopped verifies planning mode queues exercises
// without the clock running, and Start later flips the timer in place.
func TestCreatePlanKeepsTimerStopped(t *testing.T) {
	tr := newTestTracker(nil)
	tr.CreatePlan("u1")
	tr.AddExercise("Squat", nil)

	snap := tr.Snapshot()
	if snap.TimerRunning {
		t.Error("planned session has timer running")
	}
	id := snap.Session.ID

	tr.Start("u1")
	snap = tr.Snapshot()
	if !snap.TimerRunning || snap.Session.ID != id {
		t.Errorf("Start should resume the planned session, got running=%v id=%s", snap.TimerRunning, snap.Session.ID)
	}
}

// TestStartFromTemplateReplaces verifies template start unconditionally
// replaces an existing session.
func TestStartFromTemplateReplaces(t *testing.T) {
	tr := newTestTracker(nil)
	tr.Start("u1")
	old := tr.Snapshot().Session.ID

	tpl, _ := templates.ByID("tpl_push_day")
	tr.StartFromTemplate("u1", tpl)

	snap := tr.Snapshot()
	if snap.Session.ID == old {
		t.Error("template start reused the old session")
	}
	if snap.Session.TemplateID != "tpl_push_day" {
		t.Errorf("templateId = %q", snap.Session.TemplateID)
	}
	if len(snap.Session.Exercises) == 0 {
		t.Error("no exercises expanded")
	}
	for _, ex := range snap.Session.Exercises {
		if len(ex.Sets) != ex.PlannedSets {
			t.Errorf("%s: %d sets, want %d", ex.Name, len(ex.Sets), ex.PlannedSets)
		}
		for _, s := range ex.Sets {
			if s.Reps != 0 {
				t.Errorf("%s: pre-filled reps %d", ex.Name, s.Reps)
			}
		}
	}
}

// TestGuidedCursorClamps verifies navigation never leaves the exercise
// list, including after a removal shrinks it.
func TestGuidedCursorClamps(t *testing.T) {
	tr := newTestTracker(nil)
	tr.Start("u1")
	tr.AddExercise("A", nil)
	tr.AddExercise("B", nil)
	tr.AddExercise("C", nil)

	tr.PrevExercise()
	if got := tr.Snapshot().CurrentExercise; got != 0 {
		t.Errorf("cursor after Prev at start = %d, want 0", got)
	}
	tr.GoToExercise(99)
	if got := tr.Snapshot().CurrentExercise; got != 2 {
		t.Errorf("cursor after GoTo(99) = %d, want 2", got)
	}
	last := tr.Snapshot().Session.Exercises[2].ID
	tr.RemoveExercise(last)
	if got := tr.Snapshot().CurrentExercise; got != 1 {
		t.Errorf("cursor after removal = %d, want 1", got)
	}
}

// TestRestoreRehydratesState verifies a snapshot round-trips into a fresh
// tracker.
func TestRestoreRehydratesState(t *testing.T) {
	tr := newTestTracker(nil)
	tr.Start("u1")
	tr.AddExercise("Squat", &Plan{Sets: 2, Weight: 100})
	tr.elapsedSeconds = 300
	snap := tr.Snapshot()
	snap.ElapsedSeconds = 300

	tr2 := newTestTracker(nil)
	tr2.Restore(snap)
	got := tr2.Snapshot()
	if got.Session == nil || got.Session.ID != snap.Session.ID {
		t.Fatalf("restored session = %+v", got.Session)
	}
	if got.ElapsedSeconds != 300 {
		t.Errorf("elapsed = %d, want 300", got.ElapsedSeconds)
	}
	if len(got.Session.Exercises[0].Sets) != 2 {
		t.Errorf("sets = %d, want 2", len(got.Session.Exercises[0].Sets))
	}
}

// TestSnapshotIsDeepCopy verifies mutating a snapshot cannot touch live
// state.
func TestSnapshotIsDeepCopy(t *testing.T) {
	tr := newTestTracker(nil)
	tr.Start("u1")
	tr.AddExercise("Squat", &Plan{Sets: 1, Weight: 100})

	snap := tr.Snapshot()
	snap.Session.Exercises[0].Sets[0].Weight = 999
	snap.Session.Exercises[0].Name = "changed"

	live := tr.Snapshot()
	if live.Session.Exercises[0].Sets[0].Weight != 100 || live.Session.Exercises[0].Name != "Squat" {
		t.Error("snapshot shares memory with live state")
	}
}

// TestSubscriberSeesMutations verifies the observer fires with a snapshot
// after each change.
func TestSubscriberSeesMutations(t *testing.T) {
	tr := newTestTracker(nil)
	var calls int
	var lastSnap Snapshot
	tr.Subscribe(func(s Snapshot) {
		calls++
		lastSnap = s
	})
	tr.Start("u1")
	tr.AddExercise("Squat", nil)

	if calls != 2 {
		t.Errorf("subscriber calls = %d, want 2", calls)
	}
	if lastSnap.Session == nil || len(lastSnap.Session.Exercises) != 1 {
		t.Errorf("last snapshot = %+v", lastSnap)
	}
}
