// Package ironprotocol implements the prescribed-percentage template family:
// one-rep-max based weight scaling and the fixed weekly schedule.
package ironprotocol

import (
	"math"
	"strings"
	"time"

	"github.com/claude/kabunga/internal/models"
)

// MaxKey names one of the five reference lifts.
type MaxKey string

const (
	BenchPress    MaxKey = "benchPress"
	BackSquat     MaxKey = "backSquat"
	OverheadPress MaxKey = "overheadPress"
	BentOverRow   MaxKey = "bentOverRow"
	RomanianDL    MaxKey = "romanianDL"
)

// DefaultMaxes are the reference maxes the built-in Iron templates were
// written against. Scaling is relative to these.
var DefaultMaxes = map[MaxKey]float64{
	BenchPress:    80,
	BackSquat:     140,
	OverheadPress: 40,
	BentOverRow:   140,
	RomanianDL:    120,
}

// templateMaxKey maps each Iron template to the reference lift that scales it.
var templateMaxKey = map[string]MaxKey{
	"tpl_iron_push1": BenchPress,
	"tpl_iron_pull1": BentOverRow,
	"tpl_iron_legs1": BackSquat,
	"tpl_iron_push2": OverheadPress,
	"tpl_iron_pull2": BentOverRow,
	"tpl_iron_legs2": RomanianDL,
}

// IsIronTemplateID reports whether a template belongs to the Iron family.
func IsIronTemplateID(templateID string) bool {
	return strings.HasPrefix(templateID, "tpl_iron_")
}

// maxFor returns the user's max for the given key, falling back to the
// reference default when unset.
func maxFor(m models.OneRepMaxes, key MaxKey) float64 {
	var v float64
	switch key {
	case BenchPress:
		v = m.BenchPress
	case BackSquat:
		v = m.BackSquat
	case OverheadPress:
		v = m.OverheadPress
	case BentOverRow:
		v = m.BentOverRow
	case RomanianDL:
		v = m.RomanianDL
	}
	if v <= 0 {
		return DefaultMaxes[key]
	}
	return v
}

// NormalizeMaxes fills unset maxes with the reference defaults.
func NormalizeMaxes(userID string, m models.OneRepMaxes) models.OneRepMaxes {
	out := models.OneRepMaxes{
		UserID:        userID,
		BenchPress:    maxFor(m, BenchPress),
		BackSquat:     maxFor(m, BackSquat),
		OverheadPress: maxFor(m, OverheadPress),
		BentOverRow:   maxFor(m, BentOverRow),
		RomanianDL:    maxFor(m, RomanianDL),
		UpdatedAt:     m.UpdatedAt,
	}
	if out.UpdatedAt.IsZero() {
		out.UpdatedAt = time.Now()
	}
	return out
}

// ScaleTemplate returns a copy of the template with every non-zero prescribed
// weight multiplied by userMax/referenceMax, rounded to the nearest whole
// unit and floored at zero. Non-Iron templates pass through unchanged.
// Bodyweight movements (weight 0) are never scaled.
func ScaleTemplate(tpl models.WorkoutTemplate, maxes models.OneRepMaxes) models.WorkoutTemplate {
	key, ok := templateMaxKey[tpl.ID]
	if !ok {
		return tpl
	}
	defaultMax := DefaultMaxes[key]
	ratio := 1.0
	if defaultMax > 0 {
		ratio = maxFor(maxes, key) / defaultMax
	}

	out := tpl
	out.Phases = make([]models.WorkoutPhase, len(tpl.Phases))
	for i, phase := range tpl.Phases {
		scaled := phase
		scaled.Exercises = make([]models.TemplateExercise, len(phase.Exercises))
		for j, ex := range phase.Exercises {
			if ex.Weight > 0 {
				ex.Weight = math.Max(0, math.Round(ex.Weight*ratio))
			}
			scaled.Exercises[j] = ex
		}
		out.Phases[i] = scaled
	}
	out.UpdatedAt = time.Now()
	return out
}

// SessionType classifies a schedule day.
type SessionType string

const (
	SessionPrimary   SessionType = "primary"
	SessionSecondary SessionType = "secondary"
	SessionRest      SessionType = "rest"
)

// ScheduleDay is one entry of the fixed weekly schedule.
type ScheduleDay struct {
	Weekday     time.Weekday `json:"weekday"`
	ShortLabel  string       `json:"shortLabel"`
	SessionType SessionType  `json:"sessionType"`
	Title       string       `json:"title"`
	PrimaryLift string       `json:"primaryLift"`
	TemplateID  string       `json:"templateId,omitempty"` // empty on rest days
}

// WeeklySchedule is the fixed 7-day rotation. Sunday is the rest day.
var WeeklySchedule = []ScheduleDay{
	{Weekday: time.Monday, ShortLabel: "Mon", SessionType: SessionPrimary, Title: "Push 1 (Bench)", PrimaryLift: "Flat Bench Press", TemplateID: "tpl_iron_push1"},
	{Weekday: time.Tuesday, ShortLabel: "Tue", SessionType: SessionSecondary, Title: "Pull 1 (Rows)", PrimaryLift: "Bent-Over BB Rows", TemplateID: "tpl_iron_pull1"},
	{Weekday: time.Wednesday, ShortLabel: "Wed", SessionType: SessionPrimary, Title: "Legs 1 (Squats)", PrimaryLift: "Back Squat", TemplateID: "tpl_iron_legs1"},
	{Weekday: time.Thursday, ShortLabel: "Thu", SessionType: SessionSecondary, Title: "Push 2 (OHP)", PrimaryLift: "Overhead BB Press", TemplateID: "tpl_iron_push2"},
	{Weekday: time.Friday, ShortLabel: "Fri", SessionType: SessionPrimary, Title: "Pull 2 (Pull-Ups)", PrimaryLift: "Wide-Grip Pull-Ups", TemplateID: "tpl_iron_pull2"},
	{Weekday: time.Saturday, ShortLabel: "Sat", SessionType: SessionSecondary, Title: "Legs 2 (RDL)", PrimaryLift: "Romanian Deadlift", TemplateID: "tpl_iron_legs2"},
	{Weekday: time.Sunday, ShortLabel: "Sun", SessionType: SessionRest, Title: "Rest Day", PrimaryLift: "-"},
}

// ScheduleFor returns the schedule entry for the given date.
func ScheduleFor(date time.Time) ScheduleDay {
	wd := date.Weekday()
	for _, day := range WeeklySchedule {
		if day.Weekday == wd {
			return day
		}
	}
	return WeeklySchedule[len(WeeklySchedule)-1]
}

// IsTrainingDay reports whether the schedule prescribes a session that day.
func IsTrainingDay(date time.Time) bool {
	return date.Weekday() != time.Sunday
}

// PhaseType classifies a template phase for display.
type PhaseType string

const (
	PhaseWarmup      PhaseType = "warmup"
	PhaseWorking     PhaseType = "working"
	PhaseHeavy       PhaseType = "heavy"
	PhaseBackoff     PhaseType = "backoff"
	PhaseAccessories PhaseType = "accessories"
)

// ClassifyPhase derives the phase type from a phase name.
func ClassifyPhase(phaseName string, isWarmup bool) PhaseType {
	key := strings.ToLower(phaseName)
	switch {
	case isWarmup || strings.Contains(key, "warm"):
		return PhaseWarmup
	case strings.Contains(key, "heavy"):
		return PhaseHeavy
	case strings.Contains(key, "back-off") || strings.Contains(key, "back off"):
		return PhaseBackoff
	case strings.Contains(key, "work"):
		return PhaseWorking
	default:
		return PhaseAccessories
	}
}
