package benchmark

// Store is the in-session, ordered collection of run records. Insertion
// order is chronological run order. The store has a single writer (the
// script interpreter) and is never accessed concurrently with a dispatch,
// so no locking is needed.
type Store struct {
	runs []RunRecord
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// Append adds a completed run record. Amortized O(1).
func (s *Store) Append(record RunRecord) {
	s.runs = append(s.runs, record)
}

// Clear drops all records.
func (s *Store) Clear() {
	s.runs = nil
}

// All returns the records in run order. The returned slice is a read view;
// callers must not mutate it.
func (s *Store) All() []RunRecord {
	return s.runs
}

// Len returns the number of recorded runs.
func (s *Store) Len() int {
	return len(s.runs)
}
