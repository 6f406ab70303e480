package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	// Registers the "sqlite" driver (pure Go).
	_ "modernc.org/sqlite"

	"github.com/KatrinTsesko/birthday-bot/internal/domain"
)

// SQLiteRepo implements Repo using an embedded SQLite database.
type SQLiteRepo struct{ db *sql.DB }

// OpenSQLite opens (or creates) the SQLite database at the given path,
// applies PRAGMAs, runs SQL migrations, and returns a repository.
func OpenSQLite(ctx context.Context, path string) (*SQLiteRepo, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// SQLite is a single-writer engine.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := applyPragmas(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	return &SQLiteRepo{db: db}, nil
}

func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the underlying database resources.
func (r *SQLiteRepo) Close() error {
	return r.db.Close()
}

// RecordRun appends a run and fills in its ID and CreatedAt.
func (r *SQLiteRepo) RecordRun(ctx context.Context, run *domain.DispatchRun) error {
	if run == nil {
		return errors.New("nil run")
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO dispatch_runs (day, destination, is_test, entries, status, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.Day, run.Destination, boolToInt(run.Test), run.Entries,
		string(run.Status), toNullString(run.Error), run.CreatedAt.UTC().UnixMilli(),
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	run.ID = id
	return nil
}

// LastRun returns the most recent run or ErrNotFound.
func (r *SQLiteRepo) LastRun(ctx context.Context) (*domain.DispatchRun, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, day, destination, is_test, entries, status, error, created_at
		FROM dispatch_runs
		ORDER BY id DESC
		LIMIT 1`)

	var (
		run       domain.DispatchRun
		testInt   int
		status    string
		errText   sql.NullString
		createdAt int64
	)
	err := row.Scan(&run.ID, &run.Day, &run.Destination, &testInt, &run.Entries, &status, &errText, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	run.Test = testInt != 0
	run.Status = domain.RunStatus(status)
	run.Error = fromNullString(errText)
	run.CreatedAt = time.UnixMilli(createdAt).UTC()
	return &run, nil
}

// HasLiveSend reports whether a non-test run already sent a message on day.
func (r *SQLiteRepo) HasLiveSend(ctx context.Context, day string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM dispatch_runs
		WHERE day = ? AND is_test = 0 AND status = ?`,
		day, string(domain.RunSent),
	).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
