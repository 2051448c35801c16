package workout

import (
	"github.com/claude/kabunga/internal/ironprotocol"
	"github.com/claude/kabunga/internal/models"
)

// ExpandTemplate flattens a template's phases into session exercises in
// declaration order. Every exercise gets exactly its prescribed number of
// sets, seeded at the prescribed weight with zero reps; reps are recorded as
// performed, not assumed. Warmup sets are marked so record detection and
// history can tell them apart.
func ExpandTemplate(tpl models.WorkoutTemplate, newID func() string) []models.Exercise {
	var out []models.Exercise
	for _, phase := range tpl.Phases {
		for _, te := range phase.Exercises {
			warmup := ironprotocol.ClassifyPhase(phase.Name, te.IsWarmup) == ironprotocol.PhaseWarmup
			ex := models.Exercise{
				ID:            newID(),
				Name:          te.Name,
				PlannedSets:   te.Sets,
				PlannedReps:   te.Reps,
				PlannedWeight: te.Weight,
				RestSeconds:   te.RestSeconds,
				Cue:           te.Cue,
				IsWarmup:      warmup,
			}
			for i := 0; i < te.Sets; i++ {
				ex.Sets = append(ex.Sets, models.ExerciseSet{
					ID:       newID(),
					Weight:   te.Weight,
					IsWarmup: warmup,
				})
			}
			out = append(out, ex)
		}
	}
	return out
}
