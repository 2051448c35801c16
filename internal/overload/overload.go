// Package overload computes next-session load suggestions and best-set
// selection from prior exercise history. Everything here is pure: no clock,
// no store, no timers.
package overload

import (
	"fmt"
	"strings"

	"github.com/claude/kabunga/internal/models"
)

// DefaultIncrement is the smallest weight step suggested when progressing.
const DefaultIncrement = 2.5

// Suggestion is a recommended next-session target with a human-readable
// justification.
type Suggestion struct {
	Weight float64 `json:"weight"`
	Reps   int     `json:"reps"`
	Reason string  `json:"reason"`
}

// NormalizeName canonicalizes an exercise name for history lookups and PR
// comparisons: lowercase, trimmed, internal whitespace collapsed. Display
// always uses the stored name, never the normalized one.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// SuggestNext returns the next-session target for an exercise given its
// history (most-recent-first), the planned rep target, and the progression
// rule. Returns nil when there is no usable history.
//
// Warmup sets are not filtered out of the history; the heaviest set of the
// most recent session drives the working weight either way.
func SuggestNext(sessions []models.HistorySession, plannedReps int, rule models.ProgressionRule, increment float64) *Suggestion {
	if len(sessions) == 0 {
		return nil
	}
	last := sessions[0]
	if len(last.Sets) == 0 {
		return nil
	}
	if increment <= 0 {
		increment = DefaultIncrement
	}

	lastWeight := 0.0
	for _, s := range last.Sets {
		if s.Weight > lastWeight {
			lastWeight = s.Weight
		}
	}
	lastReps := last.Sets[len(last.Sets)-1].Reps
	if lastReps == 0 {
		lastReps = plannedReps
	}

	rpeSum, rpeCount := 0, 0
	for _, s := range last.Sets {
		if s.RPE > 0 {
			rpeSum += s.RPE
			rpeCount++
		}
	}
	avgRPE := 0.0
	if rpeCount > 0 {
		avgRPE = float64(rpeSum) / float64(rpeCount)
	}

	switch rule {
	case models.ProgressionMaintenance:
		return &Suggestion{Weight: lastWeight, Reps: lastReps, Reason: "Maintaining current level"}

	case models.ProgressionDouble:
		// Climb reps until plannedReps+2, then bump weight and reset.
		if lastReps >= plannedReps+2 {
			return &Suggestion{
				Weight: lastWeight + increment,
				Reps:   plannedReps,
				Reason: fmt.Sprintf("Hit %d reps, increase weight", lastReps),
			}
		}
		return &Suggestion{
			Weight: lastWeight,
			Reps:   lastReps + 1,
			Reason: fmt.Sprintf("Building reps: %d to %d", lastReps, lastReps+1),
		}

	default: // linear
		allRepsHit := true
		for _, s := range last.Sets {
			if s.Reps < plannedReps {
				allRepsHit = false
				break
			}
		}
		effortOK := avgRPE == 0 || avgRPE <= 8

		if allRepsHit && effortOK {
			return &Suggestion{
				Weight: lastWeight + increment,
				Reps:   plannedReps,
				Reason: fmt.Sprintf("All reps hit at %g, try %g", lastWeight, lastWeight+increment),
			}
		}
		if !allRepsHit {
			return &Suggestion{
				Weight: lastWeight,
				Reps:   plannedReps,
				Reason: fmt.Sprintf("Missed reps last time, stay at %g", lastWeight),
			}
		}
		return &Suggestion{
			Weight: lastWeight,
			Reps:   plannedReps,
			Reason: fmt.Sprintf("RPE was high (%.0f), stay at %g", avgRPE, lastWeight),
		}
	}
}

// BestSet picks the set maximizing weight*reps; ties go to the higher weight.
func BestSet(sets []models.HistorySet) models.HistorySet {
	best := models.HistorySet{}
	for _, s := range sets {
		bestScore := best.Weight * float64(best.Reps)
		score := s.Weight * float64(s.Reps)
		if score > bestScore || (score == bestScore && s.Weight > best.Weight) {
			best = models.HistorySet{Reps: s.Reps, Weight: s.Weight}
		}
	}
	return best
}

// HistoricalBestScore returns the maximum weight*reps across all sets of
// all sessions in the history. Zero when there is no history.
func HistoricalBestScore(h *models.ExerciseHistory) float64 {
	if h == nil {
		return 0
	}
	best := 0.0
	for _, sess := range h.Sessions {
		for _, s := range sess.Sets {
			if score := s.Weight * float64(s.Reps); score > best {
				best = score
			}
		}
	}
	return best
}

// SetScore is the PR comparison metric for a live set.
func SetScore(weight float64, reps int) float64 {
	return weight * float64(reps)
}
