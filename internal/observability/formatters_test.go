package observability

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/apply-agent/internal/tracker"
	"github.com/jonathan/apply-agent/internal/types"
)

func TestPrintPostings(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintPostings([]types.JobPosting{
		{Title: "Backend Engineer", Company: "Acme", Location: "Remote", Source: "linkedin"},
		{Title: "Data Engineer", Company: "Globex", Location: "NYC", Source: "indeed"},
	})
	output := buf.String()

	assert.Contains(t, output, "DISCOVERED POSTINGS")
	assert.Contains(t, output, "Backend Engineer")
	assert.Contains(t, output, "Globex")
}

func TestPrintPostings_Empty(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintPostings(nil)

	assert.Empty(t, buf.String())
}

func TestPrintPostings_TruncatesLongLists(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	postings := make([]types.JobPosting, 8)
	for i := range postings {
		postings[i] = types.JobPosting{Title: "Engineer", Company: "Acme"}
	}
	p.PrintPostings(postings)

	assert.Contains(t, buf.String(), "and 3 more")
}

func TestPrintScore(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintScore(
		types.JobPosting{Title: "Backend Engineer", Company: "Acme"},
		types.ScoreResult{
			MatchScore: 0.75,
			Pass:       true,
			Skills: []types.SkillMatch{
				{Name: "go", Required: true, CandidateHas: true},
				{Name: "kafka", CandidateHas: false},
			},
		},
	)
	output := buf.String()

	assert.Contains(t, output, "SCORE")
	assert.Contains(t, output, "0.75")
	assert.Contains(t, output, "eligible")
	assert.Contains(t, output, "go")
	assert.Contains(t, output, "(required)")
}

func TestPrintScore_Filtered(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintScore(
		types.JobPosting{Title: "Engineer", Company: "Acme"},
		types.ScoreResult{MatchScore: 0.2, Pass: false, Reason: "match_score_below_threshold:0.20"},
	)

	assert.Contains(t, buf.String(), "filtered")
	assert.Contains(t, buf.String(), "match_score_below_threshold")
}

func TestPrintRunSummary(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintRunSummary(tracker.Stats{Total: 10, Submitted: 3, Pending: 2, Failed: 1}, 3)
	output := buf.String()

	assert.Contains(t, output, "RUN SUMMARY")
	assert.Contains(t, output, "Total tracked:       10")
	assert.Contains(t, output, "Submitted this run:  3")
	assert.Contains(t, output, "Pending manual:      2")
}
