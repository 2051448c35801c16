package offline

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/claude/kabunga/internal/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// TestDrainFIFO verifies ops replay oldest-first and are removed only after
// a successful apply.
func TestDrainFIFO(t *testing.T) {
	s := openTestStore(t)
	for _, name := range []string{"first", "second", "third"} {
		if err := s.Enqueue(OpSaveWorkout, map[string]string{"id": name}); err != nil {
			t.Fatalf("Enqueue: %v", err)
		}
	}

	var seen []string
	done, err := s.Drain(func(op QueuedOp) error {
		var v map[string]string
		json.Unmarshal(op.Payload, &v)
		seen = append(seen, v["id"])
		return nil
	})
	if err != nil {
		t.Fatalf("Drain: %v", err)
	}
	if done != 3 {
		t.Errorf("replayed = %d, want 3", done)
	}
	if len(seen) != 3 || seen[0] != "first" || seen[2] != "third" {
		t.Errorf("order = %v", seen)
	}

	pending, _ := s.Pending()
	if len(pending) != 0 {
		t.Errorf("queue not empty after drain: %d ops", len(pending))
	}
}

// TestDrainStopsOnFailure verifies a failed op stays queued with a bumped
// retry counter and blocks later ops.
func TestDrainStopsOnFailure(t *testing.T) {
	s := openTestStore(t)
	s.Enqueue(OpSaveWorkout, map[string]string{"id": "a"})
	s.Enqueue(OpSaveMaxes, map[string]string{"id": "b"})

	calls := 0
	done, err := s.Drain(func(op QueuedOp) error {
		calls++
		return errors.New("store unavailable")
	})
	if err == nil {
		t.Fatal("Drain: want error")
	}
	if done != 0 || calls != 1 {
		t.Errorf("done = %d calls = %d, want 0 and 1", done, calls)
	}

	pending, _ := s.Pending()
	if len(pending) != 2 {
		t.Fatalf("pending = %d, want both ops kept", len(pending))
	}
	if pending[0].Retries != 1 {
		t.Errorf("retries = %d, want 1", pending[0].Retries)
	}
	if pending[1].Retries != 0 {
		t.Errorf("second op retries = %d, want untouched", pending[1].Retries)
	}
}

// TestSnapshotRoundTrip verifies save, load and clear of the live state.
func TestSnapshotRoundTrip(t *testing.T) {
	s := openTestStore(t)

	type snap struct {
		Session *models.WorkoutSession `json:"session"`
		Elapsed int                    `json:"elapsedSeconds"`
	}
	in := snap{
		Session: &models.WorkoutSession{ID: "w1", UserID: "u1", Status: models.StatusActive},
		Elapsed: 412,
	}
	if err := s.SaveSnapshot(in); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}

	var out snap
	ok, err := s.LoadSnapshot(&out)
	if err != nil || !ok {
		t.Fatalf("LoadSnapshot: ok=%v err=%v", ok, err)
	}
	if out.Session == nil || out.Session.ID != "w1" || out.Elapsed != 412 {
		t.Errorf("loaded = %+v", out)
	}

	if err := s.ClearSnapshot(); err != nil {
		t.Fatalf("ClearSnapshot: %v", err)
	}
	ok, err = s.LoadSnapshot(&out)
	if err != nil || ok {
		t.Errorf("after clear: ok=%v err=%v, want absent", ok, err)
	}
}

// TestLoadSnapshotEmpty verifies a fresh store reports no snapshot.
func TestLoadSnapshotEmpty(t *testing.T) {
	s := openTestStore(t)
	var out struct{}
	ok, err := s.LoadSnapshot(&out)
	if err != nil || ok {
		t.Errorf("ok=%v err=%v, want absent without error", ok, err)
	}
}
