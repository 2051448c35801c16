package mcp

import (
	"context"
	"time"

	"github.com/claude/kabunga/internal/history"
	"github.com/claude/kabunga/internal/ironprotocol"
	"github.com/claude/kabunga/internal/models"
	"github.com/claude/kabunga/internal/overload"
	"github.com/claude/kabunga/internal/templates"
	"github.com/mark3labs/mcp-go/mcp"
)

// --- Tool definitions ---

var toolGetActiveSession = mcp.NewTool("get_active_session",
	mcp.WithDescription("Get the live workout session: exercises, per-set completion, elapsed time, rest countdown and guided position. Returns an empty session field when nothing is active."),
)

var toolGetExerciseHistory = mcp.NewTool("get_exercise_history",
	mcp.WithDescription("Per-session history for one exercise: date, recorded sets and the best set (highest weight x reps). Name matching is case and whitespace insensitive."),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exercise name (e.g. 'Bench Press')")),
	mcp.WithNumber("limit", mcp.Description("Maximum sessions to return. Defaults to 10.")),
)

var toolSuggestNextLoad = mcp.NewTool("suggest_next_load",
	mcp.WithDescription("Progressive overload suggestion for an exercise: next weight and reps with a reason, based on the most recent session and the progression rule."),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exercise name")),
	mcp.WithNumber("reps", mcp.Description("Planned reps per set. Defaults to 8.")),
	mcp.WithString("rule", mcp.Description("Progression rule. Defaults to linear."), mcp.Enum("linear", "double", "maintenance")),
)

var toolGetDashboardStats = mcp.NewTool("get_dashboard_stats",
	mcp.WithDescription("Lifetime training totals, current streak, and this week's and month's workout counts."),
)

var toolGetWorkouts = mcp.NewTool("get_workouts",
	mcp.WithDescription("Recent completed workouts newest-first, including exercises, sets, duration and calorie estimates."),
	mcp.WithNumber("limit", mcp.Description("Maximum workouts to return. Defaults to 20.")),
)

var toolListTemplates = mcp.NewTool("list_templates",
	mcp.WithDescription("All workout templates: the built-in catalog (Push/Pull/Legs and the six Iron Protocol days) plus the user's own."),
)

var toolGetWeeklySchedule = mcp.NewTool("get_weekly_schedule",
	mcp.WithDescription("The Iron Protocol weekly schedule (Monday through Saturday training, Sunday rest) and today's session."),
)

var toolGetOneRepMaxes = mcp.NewTool("get_one_rep_maxes",
	mcp.WithDescription("The user's one-rep maxes for the five reference lifts, with unset lifts reading as the program defaults."),
)

var toolGetChallenges = mcp.NewTool("get_challenges",
	mcp.WithDescription("The user's consistency challenges with progress recomputed from workout history."),
)

// --- Tool handlers ---

func (h *handlers) getActiveSession(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if h.tracker == nil {
		return mcp.NewToolResultError("live session not available on this deployment"), nil
	}
	result, err := mcp.NewToolResultJSON(h.tracker.Snapshot())
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getExerciseHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("exercise")
	if err != nil {
		return mcp.NewToolResultError("exercise parameter is required"), nil
	}
	limit := req.GetInt("limit", 10)
	uid := UserIDFromContext(ctx)

	sessions, err := h.ds.CompletedWorkouts(ctx, uid, 0)
	if err != nil {
		h.log.Error("mcp get_exercise_history", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(history.ForExercise(sessions, name, limit))
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) suggestNextLoad(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("exercise")
	if err != nil {
		return mcp.NewToolResultError("exercise parameter is required"), nil
	}
	plannedReps := req.GetInt("reps", 8)
	rule := models.ProgressionRule(req.GetString("rule", string(models.ProgressionLinear)))
	uid := UserIDFromContext(ctx)

	sessions, err := h.ds.CompletedWorkouts(ctx, uid, 0)
	if err != nil {
		h.log.Error("mcp suggest_next_load", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	hist := history.ForExercise(sessions, name, 0)
	suggestion := overload.SuggestNext(hist.Sessions, plannedReps, rule, 0)
	if suggestion == nil {
		return mcp.NewToolResultError("no history for exercise"), nil
	}

	result, err := mcp.NewToolResultJSON(suggestion)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getDashboardStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid := UserIDFromContext(ctx)
	sessions, err := h.ds.CompletedWorkouts(ctx, uid, 0)
	if err != nil {
		h.log.Error("mcp get_dashboard_stats", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(history.Dashboard(sessions, time.Now()))
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getWorkouts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := req.GetInt("limit", 20)
	uid := UserIDFromContext(ctx)

	sessions, err := h.ds.CompletedWorkouts(ctx, uid, limit)
	if err != nil {
		h.log.Error("mcp get_workouts", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(sessions)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) listTemplates(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid := UserIDFromContext(ctx)
	own, err := h.ds.ListTemplates(ctx, uid)
	if err != nil {
		h.log.Error("mcp list_templates", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"builtin": templates.BuiltIn(),
		"custom":  own,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getWeeklySchedule(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(map[string]any{
		"week":  ironprotocol.WeeklySchedule,
		"today": ironprotocol.ScheduleFor(time.Now()),
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getOneRepMaxes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid := UserIDFromContext(ctx)
	stored, err := h.ds.GetMaxes(ctx, uid)
	if err != nil {
		h.log.Error("mcp get_one_rep_maxes", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	var maxes models.OneRepMaxes
	if stored != nil {
		maxes = *stored
	}

	result, err := mcp.NewToolResultJSON(ironprotocol.NormalizeMaxes(uid, maxes))
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getChallenges(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid := UserIDFromContext(ctx)
	challenges, err := h.ds.ListChallenges(ctx, uid)
	if err != nil {
		h.log.Error("mcp get_challenges", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	sessions, err := h.ds.CompletedWorkouts(ctx, uid, 0)
	if err != nil {
		h.log.Error("mcp get_challenges history", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	for i := range challenges {
		challenges[i] = history.ChallengeProgress(challenges[i], sessions)
	}

	result, err := mcp.NewToolResultJSON(challenges)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
