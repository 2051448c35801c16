package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/claude/kabunga/internal/config"
	"github.com/claude/kabunga/internal/cues"
	"github.com/claude/kabunga/internal/mcp"
	"github.com/claude/kabunga/internal/media"
	"github.com/claude/kabunga/internal/models"
	"github.com/claude/kabunga/internal/offline"
	"github.com/claude/kabunga/internal/server"
	"github.com/claude/kabunga/internal/storage"
	"github.com/claude/kabunga/internal/workout"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"tailscale.com/tsnet"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// drainInterval is how often the offline queue is replayed into Postgres.
const drainInterval = 30 * time.Second

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	migrateOnly := flag.Bool("migrate-only", false, "run migrations and exit")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	log.Info("Kabunga starting", "version", Version)

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Run migrations
	dsn := cfg.Database.DSN()
	if err := storage.RunMigrations(dsn, "migrations"); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}
	log.Info("migrations applied")

	if *migrateOnly {
		log.Info("migrate-only: exiting")
		return
	}

	// Connect database
	ctx := context.Background()
	db, err := storage.New(ctx, dsn)
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	log.Info("database connected")

	// Local durability layer: offline queue + session snapshot
	local, err := offline.Open(cfg.State.Dir)
	if err != nil {
		log.Error("failed to open local state", "dir", cfg.State.Dir, "error", err)
		os.Exit(1)
	}
	defer local.Close()

	// Sound cues
	var notifier workout.Notifier
	if cfg.Audio.Enabled {
		beeper, err := cues.NewBeeper(log)
		if err != nil {
			log.Warn("audio unavailable, cues disabled", "error", err)
		} else {
			defer beeper.Close()
			notifier = beeper
		}
	}

	// Live session tracker
	tracker := workout.New(workout.Config{DefaultRestSeconds: cfg.Workout.DefaultRestSeconds}, notifier, log)

	// Resume a session interrupted by a restart
	var snap workout.Snapshot
	if ok, err := local.LoadSnapshot(&snap); err != nil {
		log.Warn("session snapshot unreadable", "error", err)
	} else if ok {
		tracker.Restore(snap)
		log.Info("resumed live session from snapshot")
	}

	// Persist every mutation so the next restart can resume
	tracker.Subscribe(func(snap workout.Snapshot) {
		if err := local.SaveSnapshot(snap); err != nil {
			log.Warn("snapshot save failed", "error", err)
		}
	})

	// Drive the workout and rest timers
	go func() {
		tick := time.NewTicker(time.Second)
		defer tick.Stop()
		for range tick.C {
			tracker.Tick()
		}
	}()

	// Replay queued mutations that missed Postgres
	go func() {
		drain := func() {
			n, err := local.Drain(func(op offline.QueuedOp) error {
				return replayOp(ctx, db, op)
			})
			if err != nil {
				log.Warn("offline replay stopped", "replayed", n, "error", err)
				return
			}
			if n > 0 {
				log.Info("offline queue replayed", "ops", n)
			}
		}
		drain()
		tick := time.NewTicker(drainInterval)
		defer tick.Stop()
		for range tick.C {
			drain()
		}
	}()

	// Start server — tsnet or plain HTTP
	var listener net.Listener
	var identity func(http.Handler) http.Handler
	var tsServer *tsnet.Server

	if cfg.Tailscale.Enabled {
		tsServer = &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

		lc, err := tsServer.LocalClient()
		if err != nil {
			log.Error("tsnet local client failed", "error", err)
			os.Exit(1)
		}
		identity = server.TailscaleIdentity(lc)

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			os.Exit(1)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			os.Exit(1)
		}
		log.Info("server starting", "addr", addr, "mode", "dev (no tailscale)")
	}

	srv := server.New(server.Options{
		Store:     db,
		Tracker:   tracker,
		Media:     media.NewClient(cfg.Media.URL, cfg.Media.Bucket, cfg.Media.Token),
		Local:     local,
		APIKey:    cfg.Auth.APIKey,
		Increment: cfg.Workout.WeightIncrement,
		Log:       log,
		Identity:  identity,
	})

	// Assistant endpoint, sharing the identity stamped by the router
	mcpSrv := mcp.New(db, tracker, Version, log)
	srv.MountMCP(mcpserver.NewStreamableHTTPServer(mcpSrv,
		mcpserver.WithHTTPContextFunc(func(ctx context.Context, r *http.Request) context.Context {
			return mcp.WithUserID(ctx, server.RequestUserID(r))
		}),
	))

	httpSrv := &http.Server{Handler: srv}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	log.Info("server stopped")
}

// replayOp applies one queued mutation to the primary store.
func replayOp(ctx context.Context, db *storage.DB, op offline.QueuedOp) error {
	switch op.Type {
	case offline.OpSaveWorkout:
		var s models.WorkoutSession
		if err := json.Unmarshal(op.Payload, &s); err != nil {
			return fmt.Errorf("decoding queued workout: %w", err)
		}
		return db.SaveWorkout(ctx, s)

	case offline.OpSaveChallenge:
		var c models.Challenge
		if err := json.Unmarshal(op.Payload, &c); err != nil {
			return fmt.Errorf("decoding queued challenge: %w", err)
		}
		return db.SaveChallenge(ctx, c)

	case offline.OpSaveMaxes:
		var m models.OneRepMaxes
		if err := json.Unmarshal(op.Payload, &m); err != nil {
			return fmt.Errorf("decoding queued maxes: %w", err)
		}
		_, err := db.UpdateMaxes(ctx, m.UserID, models.OneRepMaxPatch{
			BenchPress:    &m.BenchPress,
			BackSquat:     &m.BackSquat,
			OverheadPress: &m.OverheadPress,
			BentOverRow:   &m.BentOverRow,
			RomanianDL:    &m.RomanianDL,
		})
		return err

	case offline.OpSaveDailyLog:
		var l models.DailyLog
		if err := json.Unmarshal(op.Payload, &l); err != nil {
			return fmt.Errorf("decoding queued daily log: %w", err)
		}
		_, err := db.UpsertDailyLog(ctx, l.UserID, l.Date, models.DailyLogPatch{
			Trained:    &l.Trained,
			ProteinHit: &l.ProteinHit,
			SleptWell:  &l.SleptWell,
			Notes:      &l.Notes,
		})
		return err

	default:
		return fmt.Errorf("unknown queued op type %q", op.Type)
	}
}
