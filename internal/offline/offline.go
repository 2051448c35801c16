// Package offline gives the tracker a local durability layer: a FIFO queue
// of mutations that could not reach the primary store, and a snapshot of the
// live session so a restart resumes mid-workout. Both live in one SQLite
// file next to the binary.
package offline

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// snapshotSchemaVersion guards rehydration across incompatible snapshot
// layouts. A mismatch discards the snapshot instead of guessing.
const snapshotSchemaVersion = 1

// Op types queued for replay.
const (
	OpSaveWorkout   = "save_workout"
	OpSaveMaxes     = "save_maxes"
	OpSaveDailyLog  = "save_daily_log"
	OpSaveChallenge = "save_challenge"
)

// QueuedOp is one pending mutation. Payload is the JSON-encoded entity.
type QueuedOp struct {
	ID       int64
	Type     string
	Payload  []byte
	QueuedAt time.Time
	Retries  int
}

// Store is the local SQLite state database.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the state database at dir/local.db.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating state dir %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dir, "local.db"))
	if err != nil {
		return nil, fmt.Errorf("opening local db: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS pending_ops (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			type      TEXT NOT NULL,
			payload   BLOB NOT NULL,
			queued_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			retries   INTEGER NOT NULL DEFAULT 0
		);
		CREATE TABLE IF NOT EXISTS session_snapshot (
			id             INTEGER PRIMARY KEY CHECK (id = 1),
			schema_version INTEGER NOT NULL,
			data           BLOB NOT NULL,
			saved_at       TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating local tables: %w", err)
	}

	return &Store{db: db}, nil
}

// Enqueue appends a mutation for later replay.
func (s *Store) Enqueue(opType string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding %s payload: %w", opType, err)
	}
	_, err = s.db.Exec(
		`INSERT INTO pending_ops (type, payload) VALUES (?, ?)`,
		opType, data,
	)
	return err
}

// Pending returns queued ops oldest-first.
func (s *Store) Pending() ([]QueuedOp, error) {
	rows, err := s.db.Query(
		`SELECT id, type, payload, queued_at, retries FROM pending_ops ORDER BY id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ops []QueuedOp
	for rows.Next() {
		var op QueuedOp
		if err := rows.Scan(&op.ID, &op.Type, &op.Payload, &op.QueuedAt, &op.Retries); err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return ops, rows.Err()
}

// Drain replays pending ops in order through apply. An op is removed only
// after apply succeeds; on the first failure its retry counter is bumped
// and the drain stops so order is preserved. Returns the number replayed.
func (s *Store) Drain(apply func(op QueuedOp) error) (int, error) {
	ops, err := s.Pending()
	if err != nil {
		return 0, err
	}
	done := 0
	for _, op := range ops {
		if err := apply(op); err != nil {
			s.db.Exec(`UPDATE pending_ops SET retries = retries + 1 WHERE id = ?`, op.ID)
			return done, fmt.Errorf("replaying op %d (%s): %w", op.ID, op.Type, err)
		}
		if _, err := s.db.Exec(`DELETE FROM pending_ops WHERE id = ?`, op.ID); err != nil {
			return done, err
		}
		done++
	}
	return done, nil
}

// SaveSnapshot persists the live tracker state, replacing any prior one.
func (s *Store) SaveSnapshot(snap any) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO session_snapshot (id, schema_version, data, saved_at)
		 VALUES (1, ?, ?, CURRENT_TIMESTAMP)`,
		snapshotSchemaVersion, data,
	)
	return err
}

// LoadSnapshot decodes the persisted state into out. Returns false when
// there is no snapshot or its schema version does not match.
func (s *Store) LoadSnapshot(out any) (bool, error) {
	var version int
	var data []byte
	err := s.db.QueryRow(
		`SELECT schema_version, data FROM session_snapshot WHERE id = 1`,
	).Scan(&version, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if version != snapshotSchemaVersion {
		return false, nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("decoding snapshot: %w", err)
	}
	return true, nil
}

// ClearSnapshot removes the persisted state, typically after completion or
// cancellation.
func (s *Store) ClearSnapshot() error {
	_, err := s.db.Exec(`DELETE FROM session_snapshot WHERE id = 1`)
	return err
}

// Close closes the state database.
func (s *Store) Close() error {
	return s.db.Close()
}
