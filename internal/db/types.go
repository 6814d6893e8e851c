// Package db persists completed benchmark runs so separate sessions can be
// compared. SQLite is the default backend; Postgres is available for
// shared result collection.
package db

import "time"

// StoredRun is one persisted benchmark run with the configuration it ran
// under.
type StoredRun struct {
	ID            int64     `json:"id"`
	Script        string    `json:"script"`
	Width         int       `json:"width"`
	Height        int       `json:"height"`
	Multithreaded bool      `json:"multithreaded"`
	BuildSeconds  float64   `json:"build_seconds"`
	Frames        []float64 `json:"frames"`
	CreatedAt     time.Time `json:"created_at"`
}

// Store is the persistence interface for benchmark history.
type Store interface {
	// SaveRun persists a run and its frame timings, returning the row id.
	SaveRun(run StoredRun) (int64, error)
	// ListRuns returns up to limit runs, newest first, frames included.
	ListRuns(limit int) ([]StoredRun, error)
	Close() error
}
