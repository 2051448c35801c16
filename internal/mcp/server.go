// Package mcp exposes the training data to language-model assistants over
// the Model Context Protocol: live session state, per-exercise history,
// load suggestions and the weekly schedule.
package mcp

import (
	"context"
	"log/slog"

	"github.com/claude/kabunga/internal/workout"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

type contextKey int

const userIDKey contextKey = iota

// UserIDFromContext extracts the user ID injected by the transport layer.
func UserIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(userIDKey).(string); ok && id != "" {
		return id
	}
	return "local"
}

// WithUserID returns a context with the given user ID.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// New creates an MCP server with all tools and resources registered. The
// tracker may be nil for read-only deployments that only see history.
func New(ds DataSource, tracker *workout.Tracker, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("Kabunga", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("Kabunga strength training server. Query the live workout session, exercise history, progression suggestions, training stats and the weekly schedule. All data is scoped to the authenticated user."),
	)

	h := &handlers{ds: ds, tracker: tracker, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolGetActiveSession, Handler: h.getActiveSession},
		server.ServerTool{Tool: toolGetExerciseHistory, Handler: h.getExerciseHistory},
		server.ServerTool{Tool: toolSuggestNextLoad, Handler: h.suggestNextLoad},
		server.ServerTool{Tool: toolGetDashboardStats, Handler: h.getDashboardStats},
		server.ServerTool{Tool: toolGetWorkouts, Handler: h.getWorkouts},
		server.ServerTool{Tool: toolListTemplates, Handler: h.listTemplates},
		server.ServerTool{Tool: toolGetWeeklySchedule, Handler: h.getWeeklySchedule},
		server.ServerTool{Tool: toolGetOneRepMaxes, Handler: h.getOneRepMaxes},
		server.ServerTool{Tool: toolGetChallenges, Handler: h.getChallenges},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resActiveSession, Handler: h.activeSessionResource},
		server.ServerResource{Resource: resRecentWorkouts, Handler: h.recentWorkoutsResource},
		server.ServerResource{Resource: resSchedule, Handler: h.scheduleResource},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds      DataSource
	tracker *workout.Tracker
	log     *slog.Logger
}

// --- Resource definitions ---

var resActiveSession = mcp.NewResource(
	"kabunga://active_session",
	"Active Session",
	mcp.WithResourceDescription("The live workout session with timers, guided position and per-set completion state"),
	mcp.WithMIMEType("application/json"),
)

var resRecentWorkouts = mcp.NewResource(
	"kabunga://recent_workouts",
	"Recent Workouts",
	mcp.WithResourceDescription("The 10 most recent completed workouts"),
	mcp.WithMIMEType("application/json"),
)

var resSchedule = mcp.NewResource(
	"kabunga://schedule",
	"Weekly Schedule",
	mcp.WithResourceDescription("The Iron Protocol weekly training schedule with today's session highlighted"),
	mcp.WithMIMEType("application/json"),
)
