package tracker

import (
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/apply-agent/internal/types"
)

// Application is the unit of durable state: at most one row per job id for
// the system's lifetime. Interactions are append-only; status updates happen
// in place and only move forward.
type Application struct {
	JobID           string             `json:"job_id"`
	JobTitle        string             `json:"job_title"`
	Company         string             `json:"company"`
	Location        string             `json:"location,omitempty"`
	URL             string             `json:"url,omitempty"`
	Source          string             `json:"source"`
	Status          Status             `json:"status"`
	MatchScore      float64            `json:"match_score"`
	ATSScore        float64            `json:"ats_score"`
	ResumePath      string             `json:"resume_path,omitempty"`
	CoverLetterPath string             `json:"cover_letter_path,omitempty"`
	Notes           string             `json:"notes,omitempty"`
	Skills          []types.SkillMatch `json:"skills,omitempty"`
	Interactions    []Interaction      `json:"interactions,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// Interaction is one event in an application's history: a status update, an
// email exchange, an interview, an outcome.
type Interaction struct {
	ID        uuid.UUID `json:"id"`
	Type      string    `json:"type"`
	Notes     string    `json:"notes,omitempty"`
	NextSteps string    `json:"next_steps,omitempty"`
	Outcome   string    `json:"outcome,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// JobMetadata carries the listing identity fields into GetOrCreate.
type JobMetadata struct {
	JobTitle string
	Company  string
	Location string
	URL      string
	Source   string
}

// SearchRecord captures one search invocation for the history table.
type SearchRecord struct {
	Keywords      []string  `json:"keywords"`
	Location      string    `json:"location"`
	Source        string    `json:"source"`
	ResultsCount  int       `json:"results_count"`
	FilteredCount int       `json:"filtered_count"`
	SearchedAt    time.Time `json:"searched_at"`
}

// Stats is the aggregate view returned by GetApplicationStats. Counters are
// maintained incrementally; reading them never scans the stored set.
type Stats struct {
	Total        int `json:"total"`
	Pending      int `json:"pending"`
	Submitted    int `json:"submitted"`
	Failed       int `json:"failed"`
	Error        int `json:"error"`
	ManualReview int `json:"manual_review"`
}

// clone returns a deep copy so callers can't mutate tracked state.
func (a *Application) clone() *Application {
	cp := *a
	cp.Skills = append([]types.SkillMatch(nil), a.Skills...)
	cp.Interactions = append([]Interaction(nil), a.Interactions...)
	return &cp
}
