package history

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"git.home.luguber.info/inful/mdxcheck/internal/foundation/errors"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens (and creates) the history database.
// Use ":memory:" for an in-memory database.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
			return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to create history directory").
				WithContext("path", dbPath).
				Build()
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryStorage, "could not open history database").
			WithContext("path", dbPath).
			Build()
	}
	// One connection keeps ":memory:" databases shared and serialises writers.
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, errors.WrapError(err, errors.CategoryStorage, "failed to initialize history schema").
			WithContext("path", dbPath).
			Build()
	}
	return store, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		started_at INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		path TEXT NOT NULL,
		files INTEGER NOT NULL,
		errors INTEGER NOT NULL,
		warnings INTEGER NOT NULL,
		outcome TEXT NOT NULL,
		codes TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Record stores a finished run.
func (s *SQLiteStore) Record(ctx context.Context, run Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if run.ID == "" {
		run.ID = NewRunID()
	}

	var codesJSON []byte
	if len(run.Codes) > 0 {
		var err error
		codesJSON, err = json.Marshal(run.Codes)
		if err != nil {
			return errors.WrapError(err, errors.CategoryInternal, "failed to marshal issue codes").Build()
		}
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, duration_ms, path, files, errors, warnings, outcome, codes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.StartedAt.UnixMilli(), run.Duration.Milliseconds(), run.Path,
		run.Files, run.Errors, run.Warnings, run.Outcome, string(codesJSON),
	)
	if err != nil {
		return errors.WrapError(err, errors.CategoryStorage, "failed to record run").
			WithContext("run_id", run.ID).
			Build()
	}
	return nil
}

const selectRuns = `SELECT id, started_at, duration_ms, path, files, errors, warnings, outcome, codes FROM runs`

// Recent returns up to limit runs, newest first.
func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, selectRuns+" ORDER BY seq DESC LIMIT ?", limit)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryStorage, "failed to query runs").Build()
	}
	defer func() { _ = rows.Close() }()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WrapError(err, errors.CategoryStorage, "failed to iterate runs").Build()
	}
	return runs, nil
}

// Get returns a single run by ID.
func (s *SQLiteStore) Get(ctx context.Context, id string) (Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, err := scanRun(s.db.QueryRowContext(ctx, selectRuns+" WHERE id = ?", id))
	if stderrors.Is(err, sql.ErrNoRows) {
		return Run{}, errors.NewError(errors.CategoryNotFound, "run not found").
			WithContext("run_id", id).
			Build()
	}
	return run, err
}

// Prune deletes all but the newest keep runs.
func (s *SQLiteStore) Prune(ctx context.Context, keep int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if keep <= 0 {
		return 0, nil
	}
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM runs WHERE seq NOT IN (SELECT seq FROM runs ORDER BY seq DESC LIMIT ?)`, keep)
	if err != nil {
		return 0, errors.WrapError(err, errors.CategoryStorage, "failed to prune runs").Build()
	}
	return res.RowsAffected()
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var (
		run        Run
		startedMS  int64
		durationMS int64
		codesJSON  sql.NullString
	)
	err := row.Scan(&run.ID, &startedMS, &durationMS, &run.Path, &run.Files,
		&run.Errors, &run.Warnings, &run.Outcome, &codesJSON)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, errors.WrapError(err, errors.CategoryStorage, "failed to scan run").Build()
	}

	run.StartedAt = time.UnixMilli(startedMS)
	run.Duration = time.Duration(durationMS) * time.Millisecond
	if codesJSON.Valid && codesJSON.String != "" {
		if err := json.Unmarshal([]byte(codesJSON.String), &run.Codes); err != nil {
			return Run{}, errors.WrapError(err, errors.CategoryStorage, "failed to decode issue codes").
				WithContext("run_id", run.ID).
				Build()
		}
	}
	return run, nil
}
