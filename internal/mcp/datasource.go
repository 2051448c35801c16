package mcp

import (
	"context"

	"github.com/claude/kabunga/internal/models"
	"github.com/claude/kabunga/internal/storage"
)

// DataSource abstracts the data layer for MCP tools. Both *storage.DB
// (local) and HTTPClient (remote via REST API) satisfy this interface.
type DataSource interface {
	CompletedWorkouts(ctx context.Context, userID string, limit int) ([]models.WorkoutSession, error)
	ListChallenges(ctx context.Context, userID string) ([]models.Challenge, error)
	ListTemplates(ctx context.Context, userID string) ([]models.WorkoutTemplate, error)
	GetMaxes(ctx context.Context, userID string) (*models.OneRepMaxes, error)
}

// Compile-time check: *storage.DB satisfies DataSource.
var _ DataSource = (*storage.DB)(nil)
