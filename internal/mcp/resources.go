package mcp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/claude/kabunga/internal/ironprotocol"
	"github.com/mark3labs/mcp-go/mcp"
)

func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (h *handlers) activeSessionResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	if h.tracker == nil {
		return jsonResource(req.Params.URI, map[string]any{"session": nil})
	}
	return jsonResource(req.Params.URI, h.tracker.Snapshot())
}

func (h *handlers) recentWorkoutsResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uid := UserIDFromContext(ctx)
	workouts, err := h.ds.CompletedWorkouts(ctx, uid, 10)
	if err != nil {
		return nil, err
	}
	return jsonResource(req.Params.URI, workouts)
}

func (h *handlers) scheduleResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return jsonResource(req.Params.URI, map[string]any{
		"week":  ironprotocol.WeeklySchedule,
		"today": ironprotocol.ScheduleFor(time.Now()),
	})
}
