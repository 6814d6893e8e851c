package db

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// PostgresStore implements Store using PostgreSQL, for teams collecting
// benchmark results from multiple machines into one database.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore connects with the given DSN and applies migrations.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &PostgresStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

func (s *PostgresStore) migrate() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id SERIAL PRIMARY KEY,
			script TEXT NOT NULL,
			width INTEGER NOT NULL,
			height INTEGER NOT NULL,
			multithreaded BOOLEAN NOT NULL,
			build_seconds DOUBLE PRECISION NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS frames (
			run_id INTEGER NOT NULL REFERENCES runs(id),
			idx INTEGER NOT NULL,
			seconds DOUBLE PRECISION NOT NULL,
			PRIMARY KEY (run_id, idx)
		);`,
	}
	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// SaveRun persists one run and its frame timings in a transaction.
func (s *PostgresStore) SaveRun(run StoredRun) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	createdAt := run.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	var id int64
	err = tx.QueryRow(
		`INSERT INTO runs (script, width, height, multithreaded, build_seconds, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		run.Script, run.Width, run.Height, run.Multithreaded, run.BuildSeconds, createdAt).Scan(&id)
	if err != nil {
		return 0, err
	}

	for i, seconds := range run.Frames {
		if _, err := tx.Exec(
			`INSERT INTO frames (run_id, idx, seconds) VALUES ($1, $2, $3)`,
			id, i, seconds); err != nil {
			return 0, err
		}
	}

	return id, tx.Commit()
}

// ListRuns retrieves the most recent runs with their frame timings.
func (s *PostgresStore) ListRuns(limit int) ([]StoredRun, error) {
	rows, err := s.db.Query(
		`SELECT id, script, width, height, multithreaded, build_seconds, created_at
		 FROM runs ORDER BY id DESC LIMIT $1`, limit)
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

func (s *PostgresStore) loadFrames(runID int64) ([]float64, error) {
	rows, err := s.db.Query(
		`SELECT seconds FROM frames WHERE run_id = $1 ORDER BY idx`, runID)
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
