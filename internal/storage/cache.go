package storage

import (
	"sync"
	"time"

	"github.com/claude/kabunga/internal/models"
)

// cacheTTL bounds how stale a completed-workouts read may be. History is
// append-only between saves, so a short TTL plus save-time invalidation
// keeps reads consistent enough for dashboards.
const cacheTTL = 60 * time.Second

type cacheKey struct {
	userID string
	limit  int
}

type cacheEntry struct {
	sessions []models.WorkoutSession
	storedAt time.Time
}

// workoutCache memoizes completed-workout queries per (user, limit).
type workoutCache struct {
	mu      sync.Mutex
	entries map[cacheKey]cacheEntry
	ttl     time.Duration
	now     func() time.Time
}

func newWorkoutCache() *workoutCache {
	return &workoutCache{
		entries: make(map[cacheKey]cacheEntry),
		ttl:     cacheTTL,
		now:     time.Now,
	}
}

func (c *workoutCache) get(userID string, limit int) ([]models.WorkoutSession, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[cacheKey{userID, limit}]
	if !ok || c.now().Sub(e.storedAt) > c.ttl {
		return nil, false
	}
	return e.sessions, true
}

func (c *workoutCache) put(userID string, limit int, sessions []models.WorkoutSession) {
	c.mu.Lock()
	c.entries[cacheKey{userID, limit}] = cacheEntry{sessions: sessions, storedAt: c.now()}
	c.mu.Unlock()
}

// invalidateUser drops every cached limit for the user. Called on save so a
// follow-up read sees the new session immediately.
func (c *workoutCache) invalidateUser(userID string) {
	c.mu.Lock()
	for k := range c.entries {
		if k.userID == userID {
			delete(c.entries, k)
		}
	}
	c.mu.Unlock()
}
