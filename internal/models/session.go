package models

import "time"

// SessionStatus is the lifecycle state of a workout session. Only an active
// session is mutable; completed and cancelled are terminal.
type SessionStatus string

const (
	StatusActive    SessionStatus = "active"
	StatusCompleted SessionStatus = "completed"
	StatusCancelled SessionStatus = "cancelled"
)

// ExerciseSet is one set attempt within an exercise.
type ExerciseSet struct {
	ID           string     `json:"id"`
	Reps         int        `json:"reps"`
	Weight       float64    `json:"weight"` // unit-less; kg/lb is a display preference
	Completed    bool       `json:"completed"`
	RPE          int        `json:"rpe,omitempty"` // perceived exertion 1-10
	RestTaken    int        `json:"restTaken,omitempty"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
	IsWarmup     bool       `json:"isWarmup,omitempty"`
	PersonalBest bool       `json:"personalBest,omitempty"`
}

// SetPatch is a partial update to an ExerciseSet. Nil fields are left
// untouched, so merge semantics stay explicit instead of a loose map merge.
type SetPatch struct {
	Reps      *int
	Weight    *float64
	RPE       *int
	RestTaken *int
	IsWarmup  *bool
}

// Apply merges the non-nil patch fields into the set.
func (p SetPatch) Apply(s *ExerciseSet) {
	if p.Reps != nil {
		s.Reps = *p.Reps
	}
	if p.Weight != nil {
		s.Weight = *p.Weight
	}
	if p.RPE != nil {
		s.RPE = *p.RPE
	}
	if p.RestTaken != nil {
		s.RestTaken = *p.RestTaken
	}
	if p.IsWarmup != nil {
		s.IsWarmup = *p.IsWarmup
	}
}

// Exercise is one movement within a session. The planning fields carry the
// template prescription when the session was started from a template.
type Exercise struct {
	ID    string        `json:"id"`
	Name  string        `json:"name"` // free text; normalization is query-time only
	Sets  []ExerciseSet `json:"sets"`
	Notes string        `json:"notes,omitempty"`

	PlannedSets   int    `json:"plannedSets,omitempty"`
	PlannedReps   int    `json:"plannedReps,omitempty"`
	PlannedWeight float64 `json:"plannedWeight,omitempty"`
	RestSeconds   int    `json:"restSeconds,omitempty"` // per-exercise rest override
	Cue           string `json:"cue,omitempty"`         // coaching cue text
	IsWarmup      bool   `json:"isWarmup,omitempty"`
}

// CompletedSets counts sets marked done.
func (e *Exercise) CompletedSets() int {
	n := 0
	for _, s := range e.Sets {
		if s.Completed {
			n++
		}
	}
	return n
}

// WorkoutSession is one workout attempt, from start to completion or
// cancellation. Exercise order defines guided navigation order.
type WorkoutSession struct {
	ID               string        `json:"id"`
	UserID           string        `json:"userId"`
	TemplateID       string        `json:"templateId,omitempty"`
	StartedAt        time.Time     `json:"startedAt"`
	EndedAt          *time.Time    `json:"endedAt"`
	Duration         int           `json:"duration"` // seconds, set at completion
	Exercises        []Exercise    `json:"exercises"`
	MediaURLs        []string      `json:"mediaUrls"`
	CaloriesEstimate int           `json:"caloriesEstimate"`
	Notes            string        `json:"notes,omitempty"`
	Status           SessionStatus `json:"status"`
	CreatedAt        time.Time     `json:"createdAt"`
	UpdatedAt        time.Time     `json:"updatedAt"`
}

// FindExercise returns the exercise with the given ID, or nil.
func (w *WorkoutSession) FindExercise(id string) *Exercise {
	for i := range w.Exercises {
		if w.Exercises[i].ID == id {
			return &w.Exercises[i]
		}
	}
	return nil
}

// TotalSets counts sets across all exercises.
func (w *WorkoutSession) TotalSets() int {
	n := 0
	for i := range w.Exercises {
		n += len(w.Exercises[i].Sets)
	}
	return n
}
