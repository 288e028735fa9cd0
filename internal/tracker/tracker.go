package tracker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/apply-agent/internal/errs"
	"github.com/jonathan/apply-agent/internal/types"
)

// Tracker is the front-end over a Store. It serializes all mutations for a
// given job id (single-writer-per-key) and maintains running status counters
// so GetApplicationStats never scans the stored set.
type Tracker struct {
	store Store

	mu     sync.Mutex
	locks  map[string]*sync.Mutex
	counts map[Status]int
	total  int
}

// New builds a Tracker over store, seeding the running counters from the
// store's current contents.
func New(ctx context.Context, store Store) (*Tracker, error) {
	counts, err := store.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to seed tracker counters: %w", err)
	}
	total := 0
	for _, c := range counts {
		total += c
	}
	return &Tracker{
		store:  store,
		locks:  make(map[string]*sync.Mutex),
		counts: counts,
		total:  total,
	}, nil
}

// jobLock returns the mutex owning jobID, creating it on first use.
func (t *Tracker) jobLock(jobID string) *sync.Mutex {
	t.mu.Lock()
	defer t.mu.Unlock()
	l, ok := t.locks[jobID]
	if !ok {
		l = &sync.Mutex{}
		t.locks[jobID] = l
	}
	return l
}

// GetOrCreate returns the existing application for jobID, or creates one in
// status discovered. Idempotent: a second call with the same id returns the
// stored row unchanged and never redoes work.
func (t *Tracker) GetOrCreate(ctx context.Context, jobID string, meta JobMetadata) (*Application, error) {
	if jobID == "" {
		return nil, &errs.NotFoundError{JobID: jobID}
	}
	l := t.jobLock(jobID)
	l.Lock()
	defer l.Unlock()

	existing, err := t.store.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	now := time.Now().UTC()
	app := &Application{
		JobID:     jobID,
		JobTitle:  meta.JobTitle,
		Company:   meta.Company,
		Location:  meta.Location,
		URL:       meta.URL,
		Source:    meta.Source,
		Status:    StatusDiscovered,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := t.store.Put(ctx, app); err != nil {
		return nil, err
	}

	t.mu.Lock()
	t.total++
	t.counts[StatusDiscovered]++
	t.mu.Unlock()

	return app.clone(), nil
}

// mutate loads jobID under its lock, applies fn, stamps UpdatedAt, persists,
// and adjusts counters when the status changed.
func (t *Tracker) mutate(ctx context.Context, jobID string, fn func(app *Application) error) error {
	l := t.jobLock(jobID)
	l.Lock()
	defer l.Unlock()

	app, err := t.store.Get(ctx, jobID)
	if err != nil {
		return err
	}
	if app == nil {
		return &errs.NotFoundError{JobID: jobID}
	}

	before := app.Status
	if err := fn(app); err != nil {
		return err
	}
	app.UpdatedAt = time.Now().UTC()

	if err := t.store.Put(ctx, app); err != nil {
		return err
	}

	if app.Status != before {
		t.mu.Lock()
		t.counts[before]--
		t.counts[app.Status]++
		t.mu.Unlock()
	}
	return nil
}

// UpdateStatus advances jobID to the given status, appending a status-update
// interaction. Rejects out-of-order moves with a StateViolationError.
func (t *Tracker) UpdateStatus(ctx context.Context, jobID string, to Status, note string) error {
	return t.mutate(ctx, jobID, func(app *Application) error {
		if err := checkTransition(jobID, app.Status, to); err != nil {
			return err
		}
		app.Status = to
		appendNote(app, note)
		app.Interactions = append(app.Interactions, Interaction{
			ID:        uuid.New(),
			Type:      "status_update",
			Notes:     fmt.Sprintf("status updated to %s", to),
			Timestamp: time.Now().UTC(),
		})
		return nil
	})
}

// RecordScore stores the scoring snapshot and advances detailed -> scored.
func (t *Tracker) RecordScore(ctx context.Context, jobID string, score types.ScoreResult) error {
	return t.mutate(ctx, jobID, func(app *Application) error {
		if err := checkTransition(jobID, app.Status, StatusScored); err != nil {
			return err
		}
		app.Status = StatusScored
		app.MatchScore = score.MatchScore
		app.Skills = append([]types.SkillMatch(nil), score.Skills...)
		if score.Reason != "" {
			appendNote(app, score.Reason)
		}
		return nil
	})
}

// RecordDocuments stores generated document paths and the ATS score,
// advancing eligible -> documents_generated.
func (t *Tracker) RecordDocuments(ctx context.Context, jobID, resumePath, coverLetterPath string, atsScore float64) error {
	return t.mutate(ctx, jobID, func(app *Application) error {
		if err := checkTransition(jobID, app.Status, StatusDocsGenerated); err != nil {
			return err
		}
		app.Status = StatusDocsGenerated
		app.ResumePath = resumePath
		app.CoverLetterPath = coverLetterPath
		app.ATSScore = atsScore
		return nil
	})
}

// RecordSubmission records the submission outcome: true advances to
// submitted, false stages the job for manual review (pending_manual).
func (t *Tracker) RecordSubmission(ctx context.Context, jobID string, submitted bool) error {
	to := StatusSubmitted
	note := "application submitted"
	if !submitted {
		to = StatusPendingManual
		note = "submission declined, staged for manual application"
	}
	return t.mutate(ctx, jobID, func(app *Application) error {
		if err := checkTransition(jobID, app.Status, to); err != nil {
			return err
		}
		app.Status = to
		appendNote(app, note)
		return nil
	})
}

// RecordInteraction appends one interaction to the job's history without
// touching its status.
func (t *Tracker) RecordInteraction(ctx context.Context, jobID string, in Interaction) error {
	return t.mutate(ctx, jobID, func(app *Application) error {
		if in.ID == uuid.Nil {
			in.ID = uuid.New()
		}
		if in.Timestamp.IsZero() {
			in.Timestamp = time.Now().UTC()
		}
		app.Interactions = append(app.Interactions, in)
		return nil
	})
}

// Get returns the application for jobID, or a NotFoundError.
func (t *Tracker) Get(ctx context.Context, jobID string) (*Application, error) {
	app, err := t.store.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, &errs.NotFoundError{JobID: jobID}
	}
	return app, nil
}

// RecordSearch appends one search invocation to the store's history.
func (t *Tracker) RecordSearch(ctx context.Context, rec SearchRecord) error {
	if rec.SearchedAt.IsZero() {
		rec.SearchedAt = time.Now().UTC()
	}
	return t.store.RecordSearch(ctx, rec)
}

// GetApplicationStats returns the running counters. O(1): no store access.
func (t *Tracker) GetApplicationStats() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Stats{
		Total:        t.total,
		Pending:      t.counts[StatusPendingManual],
		Submitted:    t.counts[StatusSubmitted],
		Failed:       t.counts[StatusFailed],
		Error:        t.counts[StatusError],
		ManualReview: t.counts[StatusManualReview],
	}
}

// CountWithStatus returns the running counter for one status.
func (t *Tracker) CountWithStatus(s Status) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.counts[s]
}

func appendNote(app *Application, note string) {
	if note == "" {
		return
	}
	if app.Notes == "" {
		app.Notes = note
		return
	}
	app.Notes = app.Notes + "\n" + note
}
