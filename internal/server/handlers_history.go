package server

import (
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/claude/kabunga/internal/history"
	"github.com/claude/kabunga/internal/ironprotocol"
	"github.com/claude/kabunga/internal/models"
	"github.com/claude/kabunga/internal/overload"
	"github.com/claude/kabunga/internal/templates"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleQueryWorkouts(w http.ResponseWriter, r *http.Request) {
	uid := userIDFromContext(r)
	limit := parseLimit(r, 50)

	workouts, err := s.db.CompletedWorkouts(r.Context(), uid, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if workouts == nil {
		workouts = []models.WorkoutSession{}
	}
	writeJSON(w, http.StatusOK, workouts)
}

func (s *Server) handleGetWorkout(w http.ResponseWriter, r *http.Request) {
	uid := userIDFromContext(r)
	workout, err := s.db.GetWorkout(r.Context(), chi.URLParam(r, "id"), uid)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if workout == nil {
		writeError(w, http.StatusNotFound, "workout not found")
		return
	}
	writeJSON(w, http.StatusOK, workout)
}

func (s *Server) handleExerciseHistory(w http.ResponseWriter, r *http.Request) {
	uid := userIDFromContext(r)
	name, err := url.PathUnescape(chi.URLParam(r, "exercise"))
	if err != nil || name == "" {
		writeError(w, http.StatusBadRequest, "exercise name required")
		return
	}
	limit := parseLimit(r, 10)

	sessions, err := s.db.CompletedWorkouts(r.Context(), uid, 0)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, history.ForExercise(sessions, name, limit))
}

func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	uid := userIDFromContext(r)
	q := r.URL.Query()
	name := q.Get("exercise")
	if name == "" {
		writeError(w, http.StatusBadRequest, "exercise parameter required")
		return
	}
	plannedReps := 8
	if v := q.Get("reps"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			plannedReps = parsed
		}
	}
	rule := models.ProgressionRule(q.Get("rule"))
	if rule == "" {
		rule = models.ProgressionLinear
	}

	sessions, err := s.db.CompletedWorkouts(r.Context(), uid, 0)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h := history.ForExercise(sessions, name, 0)
	suggestion := overload.SuggestNext(h.Sessions, plannedReps, rule, s.increment)
	if suggestion == nil {
		writeError(w, http.StatusNotFound, "no history for exercise")
		return
	}
	writeJSON(w, http.StatusOK, suggestion)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	uid := userIDFromContext(r)
	sessions, err := s.db.CompletedWorkouts(r.Context(), uid, 0)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, history.Dashboard(sessions, time.Now()))
}

func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"week":  ironprotocol.WeeklySchedule,
		"today": ironprotocol.ScheduleFor(time.Now()),
	})
}

func (s *Server) handleCommonExercises(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, templates.CommonExercises)
}
