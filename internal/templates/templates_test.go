package templates

import (
	"testing"

	"github.com/claude/kabunga/internal/models"
)

// TestBuiltInCatalogLoads verifies the embedded catalog parses and contains
// the Push/Pull/Legs trio plus the six Iron Protocol templates.
func TestBuiltInCatalogLoads(t *testing.T) {
	all := BuiltIn()
	if len(all) != 9 {
		t.Fatalf("len(BuiltIn()) = %d, want 9", len(all))
	}
	wantIDs := []string{
		"tpl_push_day", "tpl_pull_day", "tpl_leg_day",
		"tpl_iron_push1", "tpl_iron_pull1", "tpl_iron_legs1",
		"tpl_iron_push2", "tpl_iron_pull2", "tpl_iron_legs2",
	}
	for _, id := range wantIDs {
		tpl, ok := ByID(id)
		if !ok {
			t.Errorf("ByID(%q): not found", id)
			continue
		}
		if tpl.UserID != models.SystemUserID {
			t.Errorf("%s: userId = %q, want SYSTEM", id, tpl.UserID)
		}
		if len(tpl.Phases) == 0 {
			t.Errorf("%s: no phases", id)
		}
	}
}

// TestByIDUnknown verifies unknown IDs report not-found.
func TestByIDUnknown(t *testing.T) {
	if _, ok := ByID("tpl_nope"); ok {
		t.Error("ByID(tpl_nope) = found, want not found")
	}
}

// TestParseCatalogRejectsDuplicates verifies duplicate IDs fail validation.
func TestParseCatalogRejectsDuplicates(t *testing.T) {
	data := []byte(`
templates:
  - id: tpl_a
    title: A
    phases:
      - name: Main
        exercises:
          - { name: Squat, sets: 3, reps: 5, weight: 100 }
  - id: tpl_a
    title: A again
    phases: []
`)
	if _, err := parseCatalog(data); err == nil {
		t.Error("expected duplicate-id error")
	}
}

// TestParseCatalogRejectsInvalidExercise verifies a zero-set exercise fails
// validation.
func TestParseCatalogRejectsInvalidExercise(t *testing.T) {
	data := []byte(`
templates:
  - id: tpl_b
    title: B
    phases:
      - name: Main
        exercises:
          - { name: Squat, sets: 0, reps: 5, weight: 100 }
`)
	if _, err := parseCatalog(data); err == nil {
		t.Error("expected invalid-exercise error")
	}
}

// TestParseCatalogDefaults verifies user and progression defaults are applied.
func TestParseCatalogDefaults(t *testing.T) {
	data := []byte(`
templates:
  - id: tpl_c
    title: C
    phases:
      - name: Main
        exercises:
          - { name: Squat, sets: 3, reps: 5, weight: 100 }
`)
	got, err := parseCatalog(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[0].UserID != models.SystemUserID {
		t.Errorf("userId = %q, want SYSTEM", got[0].UserID)
	}
	if got[0].ProgressionRule != models.ProgressionLinear {
		t.Errorf("progressionRule = %q, want linear", got[0].ProgressionRule)
	}
}
