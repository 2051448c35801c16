package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/claude/kabunga/internal/history"
	"github.com/claude/kabunga/internal/ironprotocol"
	"github.com/claude/kabunga/internal/media"
	"github.com/claude/kabunga/internal/models"
	"github.com/claude/kabunga/internal/offline"
	"github.com/claude/kabunga/internal/templates"
	"github.com/claude/kabunga/internal/workout"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.tracker.Snapshot())
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	uid := userIDFromContext(r)
	var body struct {
		TemplateID string `json:"templateId"`
		Plan       bool   `json:"plan"`
	}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
			return
		}
	}

	switch {
	case body.TemplateID != "":
		tpl, err := s.resolveTemplate(r, uid, body.TemplateID)
		if err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		// Iron templates scale to the user's maxes before expansion.
		if ironprotocol.IsIronTemplateID(tpl.ID) {
			stored, err := s.db.GetMaxes(r.Context(), uid)
			if err != nil {
				s.log.Error("loading maxes", "error", err)
			}
			var maxes models.OneRepMaxes
			if stored != nil {
				maxes = *stored
			}
			tpl = ironprotocol.ScaleTemplate(tpl, maxes)
		}
		s.primeRecords(r, uid)
		s.tracker.StartFromTemplate(uid, tpl)
	case body.Plan:
		s.tracker.CreatePlan(uid)
	default:
		s.primeRecords(r, uid)
		s.tracker.Start(uid)
	}

	writeJSON(w, http.StatusOK, s.tracker.Snapshot())
}

// resolveTemplate looks up a template first in the built-in catalog, then
// in the user's own.
func (s *Server) resolveTemplate(r *http.Request, uid, id string) (models.WorkoutTemplate, error) {
	if tpl, ok := templates.ByID(id); ok {
		return tpl, nil
	}
	tpl, err := s.db.GetTemplate(r.Context(), id, uid)
	if err != nil {
		return models.WorkoutTemplate{}, err
	}
	if tpl == nil {
		return models.WorkoutTemplate{}, errors.New("template not found")
	}
	return *tpl, nil
}

// primeRecords loads historical best scores so live record detection has a
// baseline. A failed read just means no records fire this session.
func (s *Server) primeRecords(r *http.Request, uid string) {
	sessions, err := s.db.CompletedWorkouts(r.Context(), uid, 0)
	if err != nil {
		s.log.Error("priming record baselines", "error", err)
		return
	}
	s.tracker.SetHistoryBests(history.BestScores(sessions))
}

func (s *Server) handleCompleteSession(w http.ResponseWriter, r *http.Request) {
	done := s.tracker.Complete()
	if done == nil {
		writeError(w, http.StatusConflict, "no active session")
		return
	}

	queued := false
	if err := s.db.SaveWorkout(r.Context(), *done); err != nil {
		// The session is finalized either way; park it locally for replay.
		s.log.Error("saving workout, queueing for replay", "id", done.ID, "error", err)
		if s.local != nil {
			if qerr := s.local.Enqueue(offline.OpSaveWorkout, done); qerr != nil {
				writeError(w, http.StatusInternalServerError, "saving workout: "+err.Error())
				return
			}
			queued = true
		} else {
			writeError(w, http.StatusInternalServerError, "saving workout: "+err.Error())
			return
		}
	}
	if s.local != nil {
		if err := s.local.ClearSnapshot(); err != nil {
			s.log.Error("clearing session snapshot", "error", err)
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"workout": done,
		"summary": workout.SummaryText(done),
		"queued":  queued,
	})
}

func (s *Server) handleCancelSession(w http.ResponseWriter, r *http.Request) {
	s.tracker.Cancel()
	if s.local != nil {
		if err := s.local.ClearSnapshot(); err != nil {
			s.log.Error("clearing session snapshot", "error", err)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleTimer(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Running bool `json:"running"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	s.tracker.SetTimerRunning(body.Running)
	writeJSON(w, http.StatusOK, s.tracker.Snapshot())
}

func (s *Server) handleRestStart(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Seconds int `json:"seconds"`
	}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
			return
		}
	}
	s.tracker.StartRest(body.Seconds)
	writeJSON(w, http.StatusOK, s.tracker.Snapshot())
}

func (s *Server) handleRestStop(w http.ResponseWriter, r *http.Request) {
	s.tracker.StopRest()
	writeJSON(w, http.StatusOK, s.tracker.Snapshot())
}

func (s *Server) handleRestAdjust(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Delta int `json:"delta"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	s.tracker.AdjustRest(body.Delta)
	writeJSON(w, http.StatusOK, s.tracker.Snapshot())
}

func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Direction string `json:"direction"` // "next", "prev", or empty with Index
		Index     *int   `json:"index"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	switch {
	case body.Index != nil:
		s.tracker.GoToExercise(*body.Index)
	case body.Direction == "next":
		s.tracker.NextExercise()
	case body.Direction == "prev":
		s.tracker.PrevExercise()
	default:
		writeError(w, http.StatusBadRequest, "direction or index required")
		return
	}
	writeJSON(w, http.StatusOK, s.tracker.Snapshot())
}

func (s *Server) handleAddExercise(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string        `json:"name"`
		Plan *workout.Plan `json:"plan"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if body.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	s.tracker.AddExercise(body.Name, body.Plan)
	writeJSON(w, http.StatusOK, s.tracker.Snapshot())
}

func (s *Server) handleRemoveExercise(w http.ResponseWriter, r *http.Request) {
	s.tracker.RemoveExercise(chi.URLParam(r, "exerciseID"))
	writeJSON(w, http.StatusOK, s.tracker.Snapshot())
}

func (s *Server) handleUpdateExercise(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Notes *string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if body.Notes != nil {
		s.tracker.UpdateExerciseNotes(chi.URLParam(r, "exerciseID"), *body.Notes)
	}
	writeJSON(w, http.StatusOK, s.tracker.Snapshot())
}

func (s *Server) handleAddSet(w http.ResponseWriter, r *http.Request) {
	s.tracker.AddSet(chi.URLParam(r, "exerciseID"))
	writeJSON(w, http.StatusOK, s.tracker.Snapshot())
}

func (s *Server) handleUpdateSet(w http.ResponseWriter, r *http.Request) {
	var patch models.SetPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	s.tracker.UpdateSet(chi.URLParam(r, "exerciseID"), chi.URLParam(r, "setID"), patch)
	writeJSON(w, http.StatusOK, s.tracker.Snapshot())
}

func (s *Server) handleRemoveSet(w http.ResponseWriter, r *http.Request) {
	s.tracker.RemoveSet(chi.URLParam(r, "exerciseID"), chi.URLParam(r, "setID"))
	writeJSON(w, http.StatusOK, s.tracker.Snapshot())
}

func (s *Server) handleCompleteSet(w http.ResponseWriter, r *http.Request) {
	pr := s.tracker.CompleteSet(chi.URLParam(r, "exerciseID"), chi.URLParam(r, "setID"))
	writeJSON(w, http.StatusOK, map[string]any{
		"personalRecord": pr,
		"state":          s.tracker.Snapshot(),
	})
}

func (s *Server) handleToggleSet(w http.ResponseWriter, r *http.Request) {
	s.tracker.ToggleSetComplete(chi.URLParam(r, "exerciseID"), chi.URLParam(r, "setID"))
	writeJSON(w, http.StatusOK, s.tracker.Snapshot())
}

func (s *Server) handleUploadMedia(w http.ResponseWriter, r *http.Request) {
	if s.media == nil || !s.media.Configured() {
		writeError(w, http.StatusServiceUnavailable, "media uploads not configured")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file part required")
		return
	}
	defer file.Close()

	url, err := s.media.Upload(r.Context(), header.Filename, file)
	if err != nil {
		status := http.StatusBadGateway
		switch {
		case errors.Is(err, media.ErrBucketMissing):
			status = http.StatusNotFound
		case errors.Is(err, media.ErrAccessDenied):
			status = http.StatusForbidden
		}
		writeError(w, status, err.Error())
		return
	}

	s.tracker.AddMediaURL(url)
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}
