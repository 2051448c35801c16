package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/claude/kabunga/internal/history"
	"github.com/claude/kabunga/internal/ironprotocol"
	"github.com/claude/kabunga/internal/models"
	"github.com/claude/kabunga/internal/templates"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	uid := userIDFromContext(r)
	own, err := s.db.ListTemplates(r.Context(), uid)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"builtin": templates.BuiltIn(),
		"custom":  own,
	})
}

func (s *Server) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	uid := userIDFromContext(r)
	tpl, err := s.resolveTemplate(r, uid, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, tpl)
}

func (s *Server) handleSaveTemplate(w http.ResponseWriter, r *http.Request) {
	uid := userIDFromContext(r)
	var tpl models.WorkoutTemplate
	if err := json.NewDecoder(r.Body).Decode(&tpl); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if tpl.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	now := time.Now()
	if tpl.ID == "" {
		tpl.ID = "tpl_" + uuid.NewString()
		tpl.CreatedAt = now
	}
	tpl.UserID = uid
	tpl.UpdatedAt = now
	if tpl.ProgressionRule == "" {
		tpl.ProgressionRule = models.ProgressionLinear
	}
	if err := s.db.SaveTemplate(r.Context(), tpl); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, tpl)
}

func (s *Server) handleDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	uid := userIDFromContext(r)
	if err := s.db.DeleteTemplate(r.Context(), chi.URLParam(r, "id"), uid); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetMaxes(w http.ResponseWriter, r *http.Request) {
	uid := userIDFromContext(r)
	stored, err := s.db.GetMaxes(r.Context(), uid)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	var maxes models.OneRepMaxes
	if stored != nil {
		maxes = *stored
	}
	// Unset lifts read as the reference defaults so the client can always
	// show a complete picture.
	writeJSON(w, http.StatusOK, ironprotocol.NormalizeMaxes(uid, maxes))
}

func (s *Server) handleUpdateMaxes(w http.ResponseWriter, r *http.Request) {
	uid := userIDFromContext(r)
	var patch models.OneRepMaxPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	maxes, err := s.db.UpdateMaxes(r.Context(), uid, patch)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, maxes)
}

func (s *Server) handleListChallenges(w http.ResponseWriter, r *http.Request) {
	uid := userIDFromContext(r)
	challenges, err := s.db.ListChallenges(r.Context(), uid)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// Progress is recomputed from history on read; the stored count is a
	// cache for clients that cannot.
	sessions, err := s.db.CompletedWorkouts(r.Context(), uid, 0)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	for i := range challenges {
		challenges[i] = history.ChallengeProgress(challenges[i], sessions)
	}
	if challenges == nil {
		challenges = []models.Challenge{}
	}
	writeJSON(w, http.StatusOK, challenges)
}

func (s *Server) handleCreateChallenge(w http.ResponseWriter, r *http.Request) {
	uid := userIDFromContext(r)
	var ch models.Challenge
	if err := json.NewDecoder(r.Body).Decode(&ch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if ch.Title == "" || ch.TargetCount <= 0 {
		writeError(w, http.StatusBadRequest, "title and targetCount are required")
		return
	}
	if !ch.EndDate.After(ch.StartDate) {
		writeError(w, http.StatusBadRequest, "endDate must be after startDate")
		return
	}
	ch.ID = uuid.NewString()
	ch.UserID = uid
	ch.CreatedAt = time.Now()
	ch.CurrentCount = 0
	ch.Completed = false

	if err := s.db.SaveChallenge(r.Context(), ch); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, ch)
}

func (s *Server) handleDeleteChallenge(w http.ResponseWriter, r *http.Request) {
	uid := userIDFromContext(r)
	if err := s.db.DeleteChallenge(r.Context(), chi.URLParam(r, "id"), uid); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListMeals(w http.ResponseWriter, r *http.Request) {
	uid := userIDFromContext(r)
	date := r.URL.Query().Get("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	meals, err := s.db.MealsForDate(r.Context(), uid, date)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if meals == nil {
		meals = []models.Meal{}
	}
	writeJSON(w, http.StatusOK, meals)
}

func (s *Server) handleAddMeal(w http.ResponseWriter, r *http.Request) {
	uid := userIDFromContext(r)
	var meal models.Meal
	if err := json.NewDecoder(r.Body).Decode(&meal); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if meal.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	meal.ID = uuid.NewString()
	meal.UserID = uid
	if meal.Date == "" {
		meal.Date = time.Now().Format("2006-01-02")
	}
	meal.CreatedAt = time.Now()

	if err := s.db.AddMeal(r.Context(), meal); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, meal)
}

func (s *Server) handleDeleteMeal(w http.ResponseWriter, r *http.Request) {
	uid := userIDFromContext(r)
	if err := s.db.DeleteMeal(r.Context(), chi.URLParam(r, "id"), uid); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetDailyLog(w http.ResponseWriter, r *http.Request) {
	uid := userIDFromContext(r)
	date := chi.URLParam(r, "date")
	log, err := s.db.GetDailyLog(r.Context(), uid, date)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if log == nil {
		log = &models.DailyLog{UserID: uid, Date: date}
	}
	writeJSON(w, http.StatusOK, log)
}

func (s *Server) handlePatchDailyLog(w http.ResponseWriter, r *http.Request) {
	uid := userIDFromContext(r)
	var patch models.DailyLogPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	log, err := s.db.UpsertDailyLog(r.Context(), uid, chi.URLParam(r, "date"), patch)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, log)
}
