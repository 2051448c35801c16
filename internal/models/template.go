package models

import "time"

// ProgressionRule selects how next-session targets are suggested.
type ProgressionRule string

const (
	ProgressionLinear      ProgressionRule = "linear"
	ProgressionDouble      ProgressionRule = "double"
	ProgressionMaintenance ProgressionRule = "maintenance"
)

// TemplateExercise is one prescribed movement inside a template phase.
type TemplateExercise struct {
	Name        string  `json:"name" yaml:"name"`
	Sets        int     `json:"sets" yaml:"sets"`
	Reps        int     `json:"reps" yaml:"reps"`
	Weight      float64 `json:"weight" yaml:"weight"`
	RestSeconds int     `json:"restSeconds" yaml:"rest_seconds"`
	IsWarmup    bool    `json:"isWarmup" yaml:"is_warmup"`
	Cue         string  `json:"cue" yaml:"cue"`
}

// WorkoutPhase groups template exercises ("Warmup", "Main Lifts", ...).
// Duration is only set for timed non-exercise phases like stretching.
type WorkoutPhase struct {
	Name      string             `json:"name" yaml:"name"`
	Duration  int                `json:"duration,omitempty" yaml:"duration"`
	Exercises []TemplateExercise `json:"exercises" yaml:"exercises"`
}

// WorkoutTemplate is an immutable-at-use-time workout prescription.
// Built-in templates carry UserID "SYSTEM".
type WorkoutTemplate struct {
	ID              string          `json:"id" yaml:"id"`
	UserID          string          `json:"userId" yaml:"user_id"`
	Title           string          `json:"title" yaml:"title"`
	Category        string          `json:"category" yaml:"category"`
	GoalFocus       string          `json:"goalFocus" yaml:"goal_focus"`
	Phases          []WorkoutPhase  `json:"phases" yaml:"phases"`
	ProgressionRule ProgressionRule `json:"progressionRule" yaml:"progression_rule"`
	CreatedAt       time.Time       `json:"createdAt" yaml:"-"`
	UpdatedAt       time.Time       `json:"updatedAt" yaml:"-"`
}

// SystemUserID marks built-in templates.
const SystemUserID = "SYSTEM"
