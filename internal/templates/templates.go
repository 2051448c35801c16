// Package templates holds the built-in workout template catalog. Templates
// are defined in YAML and embedded into the binary; user-authored templates
// share the same shape but live in storage.
package templates

import (
	_ "embed"
	"fmt"
	"time"

	"github.com/claude/kabunga/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed data/builtin.yaml
var builtinYAML []byte

var (
	builtin []models.WorkoutTemplate
	byID    map[string]models.WorkoutTemplate
)

func init() {
	var err error
	builtin, err = parseCatalog(builtinYAML)
	if err != nil {
		panic(fmt.Sprintf("templates: invalid built-in catalog: %v", err))
	}
	byID = make(map[string]models.WorkoutTemplate, len(builtin))
	for _, t := range builtin {
		byID[t.ID] = t
	}
}

func parseCatalog(data []byte) ([]models.WorkoutTemplate, error) {
	var doc struct {
		Templates []models.WorkoutTemplate `yaml:"templates"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing template catalog: %w", err)
	}
	now := time.Now()
	seen := make(map[string]bool)
	for i := range doc.Templates {
		t := &doc.Templates[i]
		if t.ID == "" {
			return nil, fmt.Errorf("template %d: missing id", i)
		}
		if seen[t.ID] {
			return nil, fmt.Errorf("duplicate template id %q", t.ID)
		}
		seen[t.ID] = true
		if t.UserID == "" {
			t.UserID = models.SystemUserID
		}
		if t.ProgressionRule == "" {
			t.ProgressionRule = models.ProgressionLinear
		}
		for _, phase := range t.Phases {
			for _, ex := range phase.Exercises {
				if ex.Name == "" || ex.Sets <= 0 {
					return nil, fmt.Errorf("template %q: phase %q has an invalid exercise", t.ID, phase.Name)
				}
			}
		}
		t.CreatedAt = now
		t.UpdatedAt = now
	}
	return doc.Templates, nil
}

// BuiltIn returns the built-in catalog in declaration order.
func BuiltIn() []models.WorkoutTemplate {
	out := make([]models.WorkoutTemplate, len(builtin))
	copy(out, builtin)
	return out
}

// ByID looks up a built-in template.
func ByID(id string) (models.WorkoutTemplate, bool) {
	t, ok := byID[id]
	return t, ok
}

// CommonExercises is the quick-add list shown when building a session by hand.
var CommonExercises = []string{
	"Bench Press", "Squat", "Deadlift", "Overhead Press",
	"Barbell Row", "Pull-ups", "Push-ups", "Dips",
	"Lat Pulldown", "Cable Row", "Leg Press", "Leg Curl",
	"Leg Extension", "Calf Raises", "Bicep Curls", "Tricep Pushdown",
	"Lateral Raises", "Face Pulls", "Plank", "Lunges",
	"Romanian Deadlift", "Hip Thrust", "Chest Fly", "Incline Press",
}
