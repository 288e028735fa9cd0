// Package types holds the shared data structures passed between pipeline
// stages: job postings, candidate profiles, and scoring results.
package types

import (
	"fmt"
	"hash/fnv"
	"strings"
)

// JobPosting is a single job listing. Immutable once its details are scraped;
// downstream stages read it but never mutate it.
type JobPosting struct {
	JobID       string `json:"job_id"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty"`
	Source      string `json:"source"`
}

// SourceSample marks deterministic demo listings injected by the caller.
const SourceSample = "sample"

// EnsureJobID fills JobID with a stable derived identifier when the source
// provided no native id. The derivation is deterministic so re-running a
// search yields the same id for the same listing.
func (j *JobPosting) EnsureJobID() {
	if j.JobID != "" {
		return
	}
	j.JobID = DeriveJobID(j.Source, j.Title, j.Company, j.Location)
}

// DeriveJobID produces a stable id from listing identity fields.
func DeriveJobID(source, title, company, location string) string {
	h := fnv.New64a()
	for _, part := range []string{source, title, company, location} {
		_, _ = h.Write([]byte(strings.ToLower(strings.TrimSpace(part))))
		_, _ = h.Write([]byte{0})
	}
	return fmt.Sprintf("%s-%016x", normalizeSourceTag(source), h.Sum64())
}

func normalizeSourceTag(source string) string {
	source = strings.ToLower(strings.TrimSpace(source))
	if source == "" {
		return "job"
	}
	return strings.ReplaceAll(source, " ", "-")
}

// DedupePostings merges listings from multiple sources, keeping the first
// occurrence of each job id. Order is otherwise preserved.
func DedupePostings(postings []JobPosting) []JobPosting {
	seen := make(map[string]bool, len(postings))
	out := make([]JobPosting, 0, len(postings))
	for _, p := range postings {
		p.EnsureJobID()
		if seen[p.JobID] {
			continue
		}
		seen[p.JobID] = true
		out = append(out, p)
	}
	return out
}
