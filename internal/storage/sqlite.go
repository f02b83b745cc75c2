// Package storage provides SQLite-based persistence for finished runs.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/keyfall/internal/core"
)

// Store manages the SQLite database connection for run history.
type Store struct {
	db *sql.DB
}

// RunEntry is one finished run.
type RunEntry struct {
	ID        int64
	Player    string
	Score     int
	Stage     int
	StageName string
	Letters   int
	BestCombo int
	Duration  time.Duration
	Seed      int64
	CreatedAt time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			player TEXT NOT NULL DEFAULT '',
			score INTEGER NOT NULL,
			stage INTEGER NOT NULL DEFAULT 0,
			stage_name TEXT NOT NULL DEFAULT '',
			letters INTEGER NOT NULL DEFAULT 0,
			best_combo INTEGER NOT NULL DEFAULT 0,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			seed INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_top ON runs(score DESC);
		CREATE INDEX IF NOT EXISTS idx_runs_player ON runs(player);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveRun records a finished run for player.
// Returns the ID of the inserted record.
func (s *Store) SaveRun(player string, run core.RunSummary) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO runs (player, score, stage, stage_name, letters, best_combo, duration_ms, seed)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		player, run.Score, run.Stage, run.StageName, run.Letters, run.BestCombo,
		run.Duration.Milliseconds(), run.Seed,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

const runColumns = `id, player, score, stage, stage_name, letters, best_combo, duration_ms, seed, created_at`

// TopRuns retrieves the N best runs ordered by score descending.
// Ties go to the earlier run.
func (s *Store) TopRuns(limit int) ([]RunEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.queryRuns(
		`SELECT `+runColumns+` FROM runs ORDER BY score DESC, id ASC LIMIT ?`,
		limit,
	)
}

// RecentRuns retrieves the N most recent runs.
func (s *Store) RecentRuns(limit int) ([]RunEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryRuns(
		`SELECT `+runColumns+` FROM runs ORDER BY id DESC LIMIT ?`,
		limit,
	)
}

// PlayerRuns retrieves the best runs of one player.
func (s *Store) PlayerRuns(player string, limit int) ([]RunEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.queryRuns(
		`SELECT `+runColumns+` FROM runs WHERE player = ? ORDER BY score DESC, id ASC LIMIT ?`,
		player, limit,
	)
}

func (s *Store) queryRuns(query string, args ...any) ([]RunEntry, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var entries []RunEntry
	for rows.Next() {
		var e RunEntry
		var durationMs int64
		var createdAt any
		if err := rows.Scan(
			&e.ID, &e.Player, &e.Score, &e.Stage, &e.StageName,
			&e.Letters, &e.BestCombo, &durationMs, &e.Seed, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.Duration = time.Duration(durationMs) * time.Millisecond
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// parseTime handles both time.Time and string datetime values.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// HighScore returns the highest score on record.
// Returns 0 if no runs exist.
func (s *Store) HighScore() (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow("SELECT MAX(score) FROM runs").Scan(&score)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}

	return int(score.Int64), nil
}

// ClearRuns deletes the run history.
func (s *Store) ClearRuns() error {
	if _, err := s.db.Exec("DELETE FROM runs"); err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}
