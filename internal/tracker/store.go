package tracker

import (
	"context"
	"sync"
	"time"
)

// Store persists Application rows. Implementations must treat job_id as a
// unique key. The Tracker front-end serializes operations per job id, so a
// Store only needs to be safe for concurrent access across different ids.
type Store interface {
	// Get returns the application for jobID, or nil when unknown.
	Get(ctx context.Context, jobID string) (*Application, error)
	// Put inserts or replaces the application keyed by its JobID.
	Put(ctx context.Context, app *Application) error
	// CountByStatus returns current counts per status, used to seed the
	// tracker's running counters at startup.
	CountByStatus(ctx context.Context) (map[Status]int, error)
	// RecordSearch appends one entry to the search history.
	RecordSearch(ctx context.Context, rec SearchRecord) error
	// Close releases any resources held by the store.
	Close()
}

// MemoryStore is the in-process Store used in tests and when no database is
// configured. The pipeline still runs; state simply does not survive the
// process.
type MemoryStore struct {
	mu       sync.RWMutex
	apps     map[string]*Application
	searches []SearchRecord
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{apps: make(map[string]*Application)}
}

// Get returns a deep copy of the stored application, or nil.
func (s *MemoryStore) Get(_ context.Context, jobID string) (*Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	app, ok := s.apps[jobID]
	if !ok {
		return nil, nil
	}
	return app.clone(), nil
}

// Put stores a deep copy keyed by JobID.
func (s *MemoryStore) Put(_ context.Context, app *Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apps[app.JobID] = app.clone()
	return nil
}

// CountByStatus scans the map; acceptable for the in-memory working set.
func (s *MemoryStore) CountByStatus(_ context.Context) (map[Status]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[Status]int)
	for _, app := range s.apps {
		counts[app.Status]++
	}
	return counts, nil
}

// RecordSearch appends to the in-memory history.
func (s *MemoryStore) RecordSearch(_ context.Context, rec SearchRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec.SearchedAt.IsZero() {
		rec.SearchedAt = time.Now().UTC()
	}
	s.searches = append(s.searches, rec)
	return nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() {}
