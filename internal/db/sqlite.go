package db

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the history database at path
// and applies migrations.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		script TEXT NOT NULL,
		width INTEGER NOT NULL,
		height INTEGER NOT NULL,
		multithreaded INTEGER NOT NULL,
		build_seconds REAL NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE TABLE IF NOT EXISTS frames (
		run_id INTEGER NOT NULL REFERENCES runs(id),
		idx INTEGER NOT NULL,
		seconds REAL NOT NULL,
		PRIMARY KEY (run_id, idx)
	);
	`
	_, err := s.db.Exec(query)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveRun persists one run and its frame timings in a transaction.
func (s *SQLiteStore) SaveRun(run StoredRun) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	createdAt := run.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	res, err := tx.Exec(
		`INSERT INTO runs (script, width, height, multithreaded, build_seconds, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		run.Script, run.Width, run.Height, run.Multithreaded, run.BuildSeconds, createdAt)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for i, seconds := range run.Frames {
		if _, err := tx.Exec(
			`INSERT INTO frames (run_id, idx, seconds) VALUES (?, ?, ?)`,
			id, i, seconds); err != nil {
			return 0, err
		}
	}

	return id, tx.Commit()
}

// ListRuns retrieves the most recent runs with their frame timings.
func (s *SQLiteStore) ListRuns(limit int) ([]StoredRun, error) {
	rows, err := s.db.Query(
		`SELECT id, script, width, height, multithreaded, build_seconds, created_at
		 FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []StoredRun
	for rows.Next() {
		var run StoredRun
		if err := rows.Scan(&run.ID, &run.Script, &run.Width, &run.Height,
			&run.Multithreaded, &run.BuildSeconds, &run.CreatedAt); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range runs {
		frames, err := s.loadFrames(runs[i].ID)
		if err != nil {
			return nil, err
		}
		runs[i].Frames = frames
	}
	return runs, nil
}

func (s *SQLiteStore) loadFrames(runID int64) ([]float64, error) {
	rows, err := s.db.Query(
		`SELECT seconds FROM frames WHERE run_id = ? ORDER BY idx`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var frames []float64
	for rows.Next() {
		var seconds float64
		if err := rows.Scan(&seconds); err != nil {
			return nil, err
		}
		frames = append(frames, seconds)
	}
	return frames, rows.Err()
}
