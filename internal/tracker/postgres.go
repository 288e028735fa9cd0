package tracker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/apply-agent/internal/types"
)

// PostgresStore persists applications in PostgreSQL via a pgx pool.
// Schema (owned by the migration tooling, not this package):
//
//	applications(job_id PK, job_title, company, location, url, source,
//	             status, match_score, ats_score, resume_path,
//	             cover_letter_path, notes, skills JSONB,
//	             created_at, updated_at)
//	application_interactions(id PK, job_id FK, interaction_type, notes,
//	             next_steps, outcome, created_at)
//	search_history(id, keywords, location, source, results_count,
//	             filtered_count, searched_at)
type PostgresStore struct {
	pool *pgxpool.Pool
}

// ConnectPostgres establishes a connection pool and verifies it.
func ConnectPostgres(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// Close closes the connection pool.
func (s *PostgresStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Get returns the application for jobID with its interaction history, or nil
// when unknown.
func (s *PostgresStore) Get(ctx context.Context, jobID string) (*Application, error) {
	var app Application
	var skillsJSON []byte
	err := s.pool.QueryRow(ctx,
		`SELECT job_id, job_title, company, location, url, source, status,
		        match_score, ats_score, resume_path, cover_letter_path, notes,
		        skills, created_at, updated_at
		 FROM applications WHERE job_id = $1`,
		jobID,
	).Scan(&app.JobID, &app.JobTitle, &app.Company, &app.Location, &app.URL,
		&app.Source, &app.Status, &app.MatchScore, &app.ATSScore,
		&app.ResumePath, &app.CoverLetterPath, &app.Notes,
		&skillsJSON, &app.CreatedAt, &app.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get application %s: %w", jobID, err)
	}

	if len(skillsJSON) > 0 {
		if err := json.Unmarshal(skillsJSON, &app.Skills); err != nil {
			return nil, fmt.Errorf("failed to decode skills for %s: %w", jobID, err)
		}
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id, interaction_type, notes, next_steps, outcome, created_at
		 FROM application_interactions WHERE job_id = $1 ORDER BY created_at`,
		jobID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query interactions for %s: %w", jobID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var in Interaction
		if err := rows.Scan(&in.ID, &in.Type, &in.Notes, &in.NextSteps, &in.Outcome, &in.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan interaction: %w", err)
		}
		app.Interactions = append(app.Interactions, in)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read interactions: %w", err)
	}

	return &app, nil
}

// Put upserts the application row and appends any interactions not yet
// stored. The interaction log is append-only: existing rows are never
// touched.
func (s *PostgresStore) Put(ctx context.Context, app *Application) error {
	skillsJSON, err := json.Marshal(app.Skills)
	if err != nil {
		return fmt.Errorf("failed to marshal skills: %w", err)
	}
	if app.Skills == nil {
		skillsJSON, _ = json.Marshal([]types.SkillMatch{})
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO applications (job_id, job_title, company, location, url, source,
		                           status, match_score, ats_score, resume_path,
		                           cover_letter_path, notes, skills, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		 ON CONFLICT (job_id) DO UPDATE SET
		   status = $7, match_score = $8, ats_score = $9, resume_path = $10,
		   cover_letter_path = $11, notes = $12, skills = $13, updated_at = $15`,
		app.JobID, app.JobTitle, app.Company, app.Location, app.URL, app.Source,
		app.Status, app.MatchScore, app.ATSScore, app.ResumePath,
		app.CoverLetterPath, app.Notes, skillsJSON, app.CreatedAt, app.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert application %s: %w", app.JobID, err)
	}

	for _, in := range app.Interactions {
		_, err = s.pool.Exec(ctx,
			`INSERT INTO application_interactions (id, job_id, interaction_type, notes, next_steps, outcome, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 ON CONFLICT (id) DO NOTHING`,
			in.ID, app.JobID, in.Type, in.Notes, in.NextSteps, in.Outcome, in.Timestamp,
		)
		if err != nil {
			return fmt.Errorf("failed to insert interaction for %s: %w", app.JobID, err)
		}
	}

	return nil
}

// CountByStatus aggregates once at startup to seed running counters.
func (s *PostgresStore) CountByStatus(ctx context.Context) (map[Status]int, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT status, COUNT(*) FROM applications GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to count applications: %w", err)
	}
	defer rows.Close()

	counts := make(map[Status]int)
	for rows.Next() {
		var status Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

// RecordSearch appends one search invocation to the history table.
func (s *PostgresStore) RecordSearch(ctx context.Context, rec SearchRecord) error {
	keywordsJSON, err := json.Marshal(rec.Keywords)
	if err != nil {
		return fmt.Errorf("failed to marshal keywords: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO search_history (keywords, location, source, results_count, filtered_count, searched_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		keywordsJSON, rec.Location, rec.Source, rec.ResultsCount, rec.FilteredCount, rec.SearchedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record search: %w", err)
	}
	return nil
}
