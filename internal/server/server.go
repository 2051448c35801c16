// Package server exposes the tracker and the training history over HTTP.
// Reads are open (a tailnet or reverse proxy guards access); mutations
// require the API key.
package server

import (
	"context"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/claude/kabunga/internal/media"
	"github.com/claude/kabunga/internal/models"
	"github.com/claude/kabunga/internal/offline"
	"github.com/claude/kabunga/internal/workout"
	"github.com/go-chi/chi/v5"
)

// Store is the persistence surface the handlers need. *storage.DB satisfies
// it; tests swap in a fake.
type Store interface {
	SaveWorkout(ctx context.Context, s models.WorkoutSession) error
	CompletedWorkouts(ctx context.Context, userID string, limit int) ([]models.WorkoutSession, error)
	GetWorkout(ctx context.Context, id, userID string) (*models.WorkoutSession, error)

	GetMaxes(ctx context.Context, userID string) (*models.OneRepMaxes, error)
	UpdateMaxes(ctx context.Context, userID string, patch models.OneRepMaxPatch) (models.OneRepMaxes, error)

	ListChallenges(ctx context.Context, userID string) ([]models.Challenge, error)
	SaveChallenge(ctx context.Context, c models.Challenge) error
	DeleteChallenge(ctx context.Context, id, userID string) error

	AddMeal(ctx context.Context, m models.Meal) error
	MealsForDate(ctx context.Context, userID, date string) ([]models.Meal, error)
	DeleteMeal(ctx context.Context, id, userID string) error

	GetDailyLog(ctx context.Context, userID, date string) (*models.DailyLog, error)
	UpsertDailyLog(ctx context.Context, userID, date string, patch models.DailyLogPatch) (models.DailyLog, error)

	ListTemplates(ctx context.Context, userID string) ([]models.WorkoutTemplate, error)
	GetTemplate(ctx context.Context, id, userID string) (*models.WorkoutTemplate, error)
	SaveTemplate(ctx context.Context, t models.WorkoutTemplate) error
	DeleteTemplate(ctx context.Context, id, userID string) error
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	db        Store
	tracker   *workout.Tracker
	media     *media.Client
	local     *offline.Store
	log       *slog.Logger
	apiKey    string
	increment float64
	router    chi.Router
}

// Options carries the server's dependencies.
type Options struct {
	Store     Store
	Tracker   *workout.Tracker
	Media     *media.Client
	Local     *offline.Store
	APIKey    string
	Increment float64
	Log       *slog.Logger
	// Identity stamps requests with a user. Nil selects the dev identity.
	Identity func(http.Handler) http.Handler
}

// New creates a new Server with all routes configured.
func New(opts Options) *Server {
	if opts.Log == nil {
		opts.Log = slog.Default()
	}
	if opts.Identity == nil {
		opts.Identity = DevIdentity
	}
	s := &Server{
		db:        opts.Store,
		tracker:   opts.Tracker,
		media:     opts.Media,
		local:     opts.Local,
		log:       opts.Log,
		apiKey:    opts.APIKey,
		increment: opts.Increment,
		router:    chi.NewRouter(),
	}
	s.routes(opts.Identity)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes(identity func(http.Handler) http.Handler) {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)
	s.router.Use(identity)

	// Live session (API key required for every mutation)
	s.router.Route("/api/v1/session", func(r chi.Router) {
		r.Get("/", s.handleGetSession)

		r.Group(func(r chi.Router) {
			r.Use(APIKeyAuth(s.apiKey))
			r.Post("/", s.handleStartSession)
			r.Post("/complete", s.handleCompleteSession)
			r.Post("/cancel", s.handleCancelSession)
			r.Post("/timer", s.handleTimer)
			r.Post("/rest/start", s.handleRestStart)
			r.Post("/rest/stop", s.handleRestStop)
			r.Post("/rest/adjust", s.handleRestAdjust)
			r.Post("/navigate", s.handleNavigate)
			r.Post("/media", s.handleUploadMedia)
			r.Post("/exercises", s.handleAddExercise)
			r.Delete("/exercises/{exerciseID}", s.handleRemoveExercise)
			r.Patch("/exercises/{exerciseID}", s.handleUpdateExercise)
			r.Post("/exercises/{exerciseID}/sets", s.handleAddSet)
			r.Patch("/exercises/{exerciseID}/sets/{setID}", s.handleUpdateSet)
			r.Delete("/exercises/{exerciseID}/sets/{setID}", s.handleRemoveSet)
			r.Post("/exercises/{exerciseID}/sets/{setID}/complete", s.handleCompleteSet)
			r.Post("/exercises/{exerciseID}/sets/{setID}/toggle", s.handleToggleSet)
		})
	})

	// History and derived reads (no auth, the tailnet handles access)
	s.router.Get("/api/v1/workouts", s.handleQueryWorkouts)
	s.router.Get("/api/v1/workouts/{id}", s.handleGetWorkout)
	s.router.Get("/api/v1/history/{exercise}", s.handleExerciseHistory)
	s.router.Get("/api/v1/suggest", s.handleSuggest)
	s.router.Get("/api/v1/stats", s.handleStats)
	s.router.Get("/api/v1/schedule", s.handleSchedule)
	s.router.Get("/api/v1/exercises", s.handleCommonExercises)
	s.router.Get("/api/v1/me", s.handleMe)

	// Templates, profile, nutrition
	s.router.Get("/api/v1/templates", s.handleListTemplates)
	s.router.Get("/api/v1/templates/{id}", s.handleGetTemplate)
	s.router.Get("/api/v1/maxes", s.handleGetMaxes)
	s.router.Get("/api/v1/challenges", s.handleListChallenges)
	s.router.Get("/api/v1/meals", s.handleListMeals)
	s.router.Get("/api/v1/dailylog/{date}", s.handleGetDailyLog)

	s.router.Group(func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Post("/api/v1/templates", s.handleSaveTemplate)
		r.Delete("/api/v1/templates/{id}", s.handleDeleteTemplate)
		r.Put("/api/v1/maxes", s.handleUpdateMaxes)
		r.Post("/api/v1/challenges", s.handleCreateChallenge)
		r.Delete("/api/v1/challenges/{id}", s.handleDeleteChallenge)
		r.Post("/api/v1/meals", s.handleAddMeal)
		r.Delete("/api/v1/meals/{id}", s.handleDeleteMeal)
		r.Patch("/api/v1/dailylog/{date}", s.handlePatchDailyLog)
	})
}

// MountMCP mounts the assistant protocol endpoint. The handler sees the
// request after the identity middleware has stamped it.
func (s *Server) MountMCP(h http.Handler) {
	s.router.Mount("/mcp", h)
}

// SetFrontend mounts the embedded SPA filesystem.
// Unmatched routes serve index.html for client-side routing.
func (s *Server) SetFrontend(webFS fs.FS) {
	fileServer := http.FileServerFS(webFS)

	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		// Try to serve the exact file first
		f, err := webFS.Open(r.URL.Path[1:]) // strip leading /
		if err == nil {
			f.Close()
			fileServer.ServeHTTP(w, r)
			return
		}
		// Fallback to index.html for SPA routing
		r.URL.Path = "/"
		fileServer.ServeHTTP(w, r)
	})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, userInfoFromContext(r))
}
