// Package workout owns the single active workout session: its structural
// mutations, the elapsed/rest timers, guided navigation, live personal-record
// detection, and completion handoff. All state lives in memory; persistence
// of the finalized record is the caller's concern.
package workout

import (
	"log/slog"
	"sync"
	"time"

	"github.com/claude/kabunga/internal/ironprotocol"
	"github.com/claude/kabunga/internal/models"
	"github.com/claude/kabunga/internal/overload"
	"github.com/google/uuid"
)

// Calorie burn per minute by intensity. Completion always uses the moderate
// rate; the workout content is not classified.
const (
	CaloriesPerMinuteLight    = 4
	CaloriesPerMinuteModerate = 7
	CaloriesPerMinuteIntense  = 10
)

// MinRestSeconds is the floor when shortening an active rest countdown.
const MinRestSeconds = 15

// DefaultRestSeconds applies when neither the exercise nor the config
// specifies a rest duration.
const DefaultRestSeconds = 90

// Notifier receives audible/haptic cues. Implementations must be best-effort
// and non-blocking; a failed cue never affects session state.
type Notifier interface {
	SetComplete()     // short pulse after marking a set done
	CountdownBeep()   // warning at 3, 2, 1 seconds of rest remaining
	RestComplete()    // alarm when the rest countdown hits zero
	WorkoutComplete() // chime on session completion
}

// Config tunes tracker defaults.
type Config struct {
	DefaultRestSeconds int
}

// Snapshot is a read-only copy of the live state handed to subscribers and
// to the persistence cache between restarts.
type Snapshot struct {
	Session         *models.WorkoutSession `json:"session"`
	ElapsedSeconds  int                    `json:"elapsedSeconds"`
	TimerRunning    bool                   `json:"timerRunning"`
	IsResting       bool                   `json:"isResting"`
	RestRemaining   int                    `json:"restRemaining"`
	RestTarget      int                    `json:"restTarget"`
	CurrentExercise int                    `json:"currentExercise"`
}

// Plan carries the optional prescription when adding an exercise by hand or
// from a template.
type Plan struct {
	Sets        int     `json:"sets"`
	Reps        int     `json:"reps"`
	Weight      float64 `json:"weight"`
	RestSeconds int     `json:"restSeconds"`
	Cue         string  `json:"cue"`
	IsWarmup    bool    `json:"isWarmup"`
}

// Tracker is the single-writer owner of the active session. All methods are
// safe for concurrent use; one lock serializes every mutation.
type Tracker struct {
	mu   sync.Mutex
	log  *slog.Logger
	cues Notifier
	cfg  Config

	session        *models.WorkoutSession
	elapsedSeconds int
	timerRunning   bool

	isResting     bool
	restRemaining int
	restTarget    int

	currentExercise int

	historyBest map[string]float64 // normalized exercise name -> best historical weight*reps
	sessionBest map[string]float64 // best score seen so far in this session

	subscribers []func(Snapshot)

	now   func() time.Time
	newID func() string
}

// New creates a Tracker with no active session.
func New(cfg Config, cues Notifier, log *slog.Logger) *Tracker {
	if cfg.DefaultRestSeconds <= 0 {
		cfg.DefaultRestSeconds = DefaultRestSeconds
	}
	if cues == nil {
		cues = NopNotifier{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Tracker{
		cfg:         cfg,
		cues:        cues,
		log:         log,
		historyBest: make(map[string]float64),
		sessionBest: make(map[string]float64),
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

// Subscribe registers a callback invoked with a fresh snapshot after every
// mutation. Callbacks run outside the tracker lock.
func (t *Tracker) Subscribe(fn func(Snapshot)) {
	t.mu.Lock()
	t.subscribers = append(t.subscribers, fn)
	t.mu.Unlock()
}

// Snapshot returns a deep copy of the live state.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

func (t *Tracker) snapshotLocked() Snapshot {
	snap := Snapshot{
		ElapsedSeconds:  t.elapsedSeconds,
		TimerRunning:    t.timerRunning,
		IsResting:       t.isResting,
		RestRemaining:   t.restRemaining,
		RestTarget:      t.restTarget,
		CurrentExercise: t.currentExercise,
	}
	if t.session != nil {
		snap.Session = copySession(t.session)
	}
	return snap
}

func copySession(s *models.WorkoutSession) *models.WorkoutSession {
	out := *s
	out.Exercises = make([]models.Exercise, len(s.Exercises))
	for i, ex := range s.Exercises {
		ce := ex
		ce.Sets = append([]models.ExerciseSet(nil), ex.Sets...)
		out.Exercises[i] = ce
	}
	out.MediaURLs = append([]string(nil), s.MediaURLs...)
	if s.EndedAt != nil {
		ended := *s.EndedAt
		out.EndedAt = &ended
	}
	return &out
}

// notify publishes the snapshot to subscribers. Must be called without the
// lock held.
func (t *Tracker) notify(snap Snapshot) {
	t.mu.Lock()
	subs := append([]func(Snapshot){}, t.subscribers...)
	t.mu.Unlock()
	for _, fn := range subs {
		fn(snap)
	}
}

// mutate runs fn under the lock; when fn reports a change it stamps
// UpdatedAt and publishes a snapshot.
func (t *Tracker) mutate(fn func() bool) {
	t.apply(fn, true)
}

// tickMutate is mutate without the UpdatedAt stamp. Clock ticks are not
// edits to the session record, but they still publish snapshots so the
// persisted live state stays current between restarts.
func (t *Tracker) tickMutate(fn func() bool) {
	t.apply(fn, false)
}

func (t *Tracker) apply(fn func() bool, stamp bool) {
	t.mu.Lock()
	changed := fn()
	if changed && stamp && t.session != nil {
		t.session.UpdatedAt = t.now()
	}
	var snap Snapshot
	if changed {
		snap = t.snapshotLocked()
	}
	t.mu.Unlock()
	if changed {
		t.notify(snap)
	}
}

func (t *Tracker) newSession(userID string) *models.WorkoutSession {
	now := t.now()
	return &models.WorkoutSession{
		ID:        t.newID(),
		UserID:    userID,
		StartedAt: now,
		Duration:  0,
		Exercises: []models.Exercise{},
		MediaURLs: []string{},
		Status:    models.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CreatePlan creates an empty active session with the timer stopped, for
// queueing exercises before training. No-op when a session already exists.
func (t *Tracker) CreatePlan(userID string) {
	t.mutate(func() bool {
		if t.session != nil {
			return false
		}
		t.session = t.newSession(userID)
		t.resetTimersLocked()
		return true
	})
}

// Start begins the workout: if a planned session exists its timer starts in
// place, otherwise a fresh running session is created.
func (t *Tracker) Start(userID string) {
	t.mutate(func() bool {
		if t.session == nil {
			t.session = t.newSession(userID)
			t.resetTimersLocked()
		}
		t.timerRunning = true
		return true
	})
}

// StartFromTemplate expands the template into a running session, replacing
// any existing session unconditionally. Confirming the replacement is the
// caller's concern.
func (t *Tracker) StartFromTemplate(userID string, tpl models.WorkoutTemplate) {
	t.mutate(func() bool {
		s := t.newSession(userID)
		s.TemplateID = tpl.ID
		s.Exercises = ExpandTemplate(tpl, t.newID)
		t.session = s
		t.resetTimersLocked()
		t.timerRunning = true
		t.log.Info("session started from template", "template", tpl.ID, "exercises", len(s.Exercises))
		return true
	})
}

// SetTimerRunning pauses or resumes the elapsed timer. Rest is unaffected.
func (t *Tracker) SetTimerRunning(running bool) {
	t.mutate(func() bool {
		if t.session == nil {
			return false
		}
		t.timerRunning = running
		return true
	})
}

// AddExercise appends an exercise, pre-seeding planned.Sets sets (default 1)
// at the planned weight with zero reps.
func (t *Tracker) AddExercise(name string, plan *Plan) {
	t.mutate(func() bool {
		if t.session == nil {
			return false
		}
		ex := models.Exercise{
			ID:   t.newID(),
			Name: name,
		}
		n := 1
		if plan != nil {
			n = plan.Sets
			if n <= 0 {
				n = 1
			}
			ex.PlannedSets = plan.Sets
			ex.PlannedReps = plan.Reps
			ex.PlannedWeight = plan.Weight
			ex.RestSeconds = plan.RestSeconds
			ex.Cue = plan.Cue
			ex.IsWarmup = plan.IsWarmup
		}
		for i := 0; i < n; i++ {
			ex.Sets = append(ex.Sets, models.ExerciseSet{
				ID:       t.newID(),
				Weight:   ex.PlannedWeight,
				IsWarmup: ex.IsWarmup,
			})
		}
		t.session.Exercises = append(t.session.Exercises, ex)
		return true
	})
}

// RemoveExercise removes by identity and clamps the guided cursor to the
// last valid index.
func (t *Tracker) RemoveExercise(exerciseID string) {
	t.mutate(func() bool {
		if t.session == nil {
			return false
		}
		exs := t.session.Exercises
		for i := range exs {
			if exs[i].ID == exerciseID {
				t.session.Exercises = append(exs[:i], exs[i+1:]...)
				t.clampCursorLocked()
				return true
			}
		}
		return false
	})
}

// UpdateExerciseNotes replaces the free-text notes on an exercise.
func (t *Tracker) UpdateExerciseNotes(exerciseID, notes string) {
	t.mutate(func() bool {
		if t.session == nil {
			return false
		}
		ex := t.session.FindExercise(exerciseID)
		if ex == nil {
			return false
		}
		ex.Notes = notes
		return true
	})
}

// AddSet appends a set. The new set copies the previous set's weight and
// reps (falling back to the planned weight, then zero) — one rule for every
// call site.
func (t *Tracker) AddSet(exerciseID string) {
	t.mutate(func() bool {
		if t.session == nil {
			return false
		}
		ex := t.session.FindExercise(exerciseID)
		if ex == nil {
			return false
		}
		set := models.ExerciseSet{ID: t.newID(), Weight: ex.PlannedWeight}
		if n := len(ex.Sets); n > 0 {
			last := ex.Sets[n-1]
			set.Weight = last.Weight
			set.Reps = last.Reps
			set.IsWarmup = last.IsWarmup
		}
		ex.Sets = append(ex.Sets, set)
		return true
	})
}

// RemoveSet removes by identity. Remaining sets keep their identities; only
// displayed numbering shifts.
func (t *Tracker) RemoveSet(exerciseID, setID string) {
	t.mutate(func() bool {
		if t.session == nil {
			return false
		}
		ex := t.session.FindExercise(exerciseID)
		if ex == nil {
			return false
		}
		for i := range ex.Sets {
			if ex.Sets[i].ID == setID {
				ex.Sets = append(ex.Sets[:i], ex.Sets[i+1:]...)
				return true
			}
		}
		return false
	})
}

// UpdateSet merges the non-nil patch fields into a set.
func (t *Tracker) UpdateSet(exerciseID, setID string, patch models.SetPatch) {
	t.mutate(func() bool {
		set := t.findSetLocked(exerciseID, setID)
		if set == nil {
			return false
		}
		patch.Apply(set)
		return true
	})
}

// ToggleSetComplete flips completion. CompletedAt is stamped on the
// false-to-true transition and cleared on the way back.
func (t *Tracker) ToggleSetComplete(exerciseID, setID string) {
	var completed bool
	t.mutate(func() bool {
		set := t.findSetLocked(exerciseID, setID)
		if set == nil {
			return false
		}
		set.Completed = !set.Completed
		if set.Completed {
			now := t.now()
			set.CompletedAt = &now
			completed = true
		} else {
			set.CompletedAt = nil
		}
		return true
	})
	if completed {
		t.cues.SetComplete()
	}
}

// CompleteSet marks a set done (idempotent), fires the completion cue,
// auto-starts the rest countdown with the exercise's rest override, and
// performs live personal-record detection for guided Iron sessions.
// It reports whether the set is a new personal record.
func (t *Tracker) CompleteSet(exerciseID, setID string) (personalRecord bool) {
	var fired bool
	t.mutate(func() bool {
		if t.session == nil {
			return false
		}
		ex := t.session.FindExercise(exerciseID)
		if ex == nil {
			return false
		}
		var set *models.ExerciseSet
		for i := range ex.Sets {
			if ex.Sets[i].ID == setID {
				set = &ex.Sets[i]
				break
			}
		}
		if set == nil {
			return false
		}
		if !set.Completed {
			set.Completed = true
			now := t.now()
			set.CompletedAt = &now
		}
		fired = true

		rest := ex.RestSeconds
		if rest <= 0 {
			rest = t.cfg.DefaultRestSeconds
		}
		t.startRestLocked(rest)

		if ironprotocol.IsIronTemplateID(t.session.TemplateID) {
			key := overload.NormalizeName(ex.Name)
			score := overload.SetScore(set.Weight, set.Reps)
			best := t.historyBest[key]
			if sb := t.sessionBest[key]; sb > best {
				best = sb
			}
			if score > best && score > 0 {
				set.PersonalBest = true
				t.sessionBest[key] = score
				personalRecord = true
				t.log.Info("personal record", "exercise", ex.Name, "score", score)
			}
		}
		return true
	})
	if fired {
		t.cues.SetComplete()
	}
	return personalRecord
}

// AddMediaURL appends an uploaded media URL to the session.
func (t *Tracker) AddMediaURL(url string) {
	t.mutate(func() bool {
		if t.session == nil {
			return false
		}
		t.session.MediaURLs = append(t.session.MediaURLs, url)
		return true
	})
}

// SetHistoryBests primes the per-exercise historical best scores used for
// live PR detection. Keys must already be normalized.
func (t *Tracker) SetHistoryBests(bests map[string]float64) {
	t.mu.Lock()
	t.historyBest = make(map[string]float64, len(bests))
	for k, v := range bests {
		t.historyBest[k] = v
	}
	t.mu.Unlock()
}

// Complete finalizes the active session: duration comes from the
// accumulated tick counter (pauses excluded, not wall clock), calories from
// the moderate per-minute rate, status becomes completed. Live state resets
// and the finalized record is returned for the caller to persist. Returns
// nil when no session is active.
func (t *Tracker) Complete() *models.WorkoutSession {
	var done *models.WorkoutSession
	t.mutate(func() bool {
		if t.session == nil {
			return false
		}
		now := t.now()
		s := t.session
		s.EndedAt = &now
		s.Duration = t.elapsedSeconds
		s.CaloriesEstimate = int(float64(s.Duration)/60*CaloriesPerMinuteModerate + 0.5)
		s.Status = models.StatusCompleted
		s.UpdatedAt = now
		done = s
		t.session = nil
		t.resetTimersLocked()
		return true
	})
	if done != nil {
		t.cues.WorkoutComplete()
		t.log.Info("session completed", "id", done.ID, "duration", done.Duration, "calories", done.CaloriesEstimate)
	}
	return done
}

// Cancel discards the session and resets all live state. Nothing is
// persisted.
func (t *Tracker) Cancel() {
	t.mutate(func() bool {
		if t.session == nil {
			return false
		}
		t.log.Info("session cancelled", "id", t.session.ID)
		t.session = nil
		t.resetTimersLocked()
		return true
	})
}

// Restore rehydrates live state from a persisted snapshot, replacing
// whatever is in memory. Used once at startup.
func (t *Tracker) Restore(snap Snapshot) {
	t.mutate(func() bool {
		if snap.Session == nil {
			return false
		}
		t.session = copySession(snap.Session)
		t.elapsedSeconds = snap.ElapsedSeconds
		t.timerRunning = snap.TimerRunning
		t.isResting = snap.IsResting
		t.restRemaining = snap.RestRemaining
		t.restTarget = snap.RestTarget
		t.currentExercise = snap.CurrentExercise
		t.clampCursorLocked()
		return true
	})
}

// GoToExercise moves the guided cursor, clamped to the exercise list.
func (t *Tracker) GoToExercise(index int) {
	t.mutate(func() bool {
		if t.session == nil {
			return false
		}
		t.currentExercise = index
		t.clampCursorLocked()
		return true
	})
}

// NextExercise advances the guided cursor.
func (t *Tracker) NextExercise() {
	t.mutate(func() bool {
		if t.session == nil {
			return false
		}
		t.currentExercise++
		t.clampCursorLocked()
		return true
	})
}

// PrevExercise steps the guided cursor back.
func (t *Tracker) PrevExercise() {
	t.mutate(func() bool {
		if t.session == nil {
			return false
		}
		t.currentExercise--
		t.clampCursorLocked()
		return true
	})
}

func (t *Tracker) clampCursorLocked() {
	max := 0
	if t.session != nil && len(t.session.Exercises) > 0 {
		max = len(t.session.Exercises) - 1
	}
	if t.currentExercise > max {
		t.currentExercise = max
	}
	if t.currentExercise < 0 {
		t.currentExercise = 0
	}
}

func (t *Tracker) findSetLocked(exerciseID, setID string) *models.ExerciseSet {
	if t.session == nil {
		return nil
	}
	ex := t.session.FindExercise(exerciseID)
	if ex == nil {
		return nil
	}
	for i := range ex.Sets {
		if ex.Sets[i].ID == setID {
			return &ex.Sets[i]
		}
	}
	return nil
}

func (t *Tracker) resetTimersLocked() {
	t.elapsedSeconds = 0
	t.timerRunning = false
	t.isResting = false
	t.restRemaining = 0
	t.restTarget = 0
	t.currentExercise = 0
	t.sessionBest = make(map[string]float64)
}

// NopNotifier discards all cues. Used in tests and headless deployments.
type NopNotifier struct{}

func (NopNotifier) SetComplete()     {}
func (NopNotifier) CountdownBeep()   {}
func (NopNotifier) RestComplete()    {}
func (NopNotifier) WorkoutComplete() {}
