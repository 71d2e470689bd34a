// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/typebadge/typebadge/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for fetch snapshots.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS snapshots (
			id INTEGER PRIMARY KEY,
			fetched_at TEXT NOT NULL,
			username TEXT NOT NULL,
			best_wpm INTEGER NOT NULL,
			avg_acc REAL NOT NULL,
			runs INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_fetched_at ON snapshots(fetched_at);`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_username ON snapshots(username);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertSnapshot stores one fetch summary.
func (s *Store) InsertSnapshot(ctx context.Context, snap model.Snapshot) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO snapshots (fetched_at, username, best_wpm, avg_acc, runs)
		 VALUES (?, ?, ?, ?, ?)`,
		snap.FetchedAt.Format(time.RFC3339Nano),
		snap.Username,
		snap.BestWPM,
		snap.AvgAcc,
		snap.Runs,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListSnapshots returns snapshots ordered by fetch time ascending, filtered
// by username when set and limited to the last N when cfg.Last > 0.
func (s *Store) ListSnapshots(ctx context.Context, cfg model.HistoryConfig) ([]model.Snapshot, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Username != "" {
		clauses = append(clauses, "username = ?")
		args = append(args, cfg.Username)
	}
	query := fmt.Sprintf(`SELECT id, fetched_at, username, best_wpm, avg_acc, runs
		FROM snapshots
		WHERE %s
		ORDER BY fetched_at ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var snaps []model.Snapshot
	for rows.Next() {
		var snap model.Snapshot
		var fetchedAt string
		if err := rows.Scan(&snap.ID, &fetchedAt, &snap.Username, &snap.BestWPM, &snap.AvgAcc, &snap.Runs); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, fetchedAt)
		if err != nil {
			return nil, err
		}
		snap.FetchedAt = parsed
		snaps = append(snaps, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if cfg.Last > 0 && len(snaps) > cfg.Last {
		snaps = snaps[len(snaps)-cfg.Last:]
	}
	return snaps, nil
}
