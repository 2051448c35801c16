package storage

import (
	"testing"
	"time"

	"github.com/claude/kabunga/internal/models"
)

// TestCacheHitAndExpiry verifies entries are served within the TTL and
// expire after it.
func TestCacheHitAndExpiry(t *testing.T) {
	now := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	c := newWorkoutCache()
	c.now = func() time.Time { return now }

	c.put("u1", 10, []models.WorkoutSession{{ID: "w1"}})

	got, ok := c.get("u1", 10)
	if !ok || len(got) != 1 || got[0].ID != "w1" {
		t.Fatalf("cache miss within TTL: ok=%v got=%+v", ok, got)
	}

	now = now.Add(61 * time.Second)
	if _, ok := c.get("u1", 10); ok {
		t.Error("entry served after TTL")
	}
}

// TestCacheKeyedByLimit verifies different limits are distinct entries.
func TestCacheKeyedByLimit(t *testing.T) {
	c := newWorkoutCache()
	c.put("u1", 10, []models.WorkoutSession{{ID: "w1"}})

	if _, ok := c.get("u1", 20); ok {
		t.Error("limit 20 served limit 10's entry")
	}
}

// TestCacheInvalidateUser verifies a save drops every limit for that user
// and only that user.
func TestCacheInvalidateUser(t *testing.T) {
	c := newWorkoutCache()
	c.put("u1", 10, nil)
	c.put("u1", 20, nil)
	c.put("u2", 10, []models.WorkoutSession{{ID: "other"}})

	c.invalidateUser("u1")

	if _, ok := c.get("u1", 10); ok {
		t.Error("u1 limit 10 survived invalidation")
	}
	if _, ok := c.get("u1", 20); ok {
		t.Error("u1 limit 20 survived invalidation")
	}
	if _, ok := c.get("u2", 10); !ok {
		t.Error("u2 entry lost to u1 invalidation")
	}
}
