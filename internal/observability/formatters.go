// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/apply-agent/internal/tracker"
	"github.com/jonathan/apply-agent/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintPostings outputs a short listing of discovered jobs.
func (p *Printer) PrintPostings(postings []types.JobPosting) {
	if len(postings) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total postings: %d\n\n", len(postings)))

	count := min(len(postings), maxItemsToShow)
	for i := 0; i < count; i++ {
		job := postings[i]
		sb.WriteString(fmt.Sprintf("#%d  %s\n", i+1, job.Title))
		sb.WriteString(fmt.Sprintf("    %s · %s · %s\n", job.Company, job.Location, job.Source))
	}
	if len(postings) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("... and %d more\n", len(postings)-maxItemsToShow))
	}

	p.printBox("DISCOVERED POSTINGS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintScore outputs the scoring verdict for one job.
func (p *Printer) PrintScore(job types.JobPosting, result types.ScoreResult) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Job:      %s @ %s\n", job.Title, job.Company))
	sb.WriteString(fmt.Sprintf("Match:    %.2f\n", result.MatchScore))
	if result.Pass {
		sb.WriteString("Verdict:  eligible\n")
	} else {
		sb.WriteString(fmt.Sprintf("Verdict:  filtered (%s)\n", result.Reason))
	}

	if len(result.Skills) > 0 {
		sb.WriteString("\nSkills:\n")
		count := min(len(result.Skills), maxItemsToShow)
		for i := 0; i < count; i++ {
			s := result.Skills[i]
			marker := " "
			if s.CandidateHas {
				marker = "✓"
			}
			sb.WriteString(fmt.Sprintf("  %s %s", marker, s.Name))
			if s.Required {
				sb.WriteString(" (required)")
			}
			sb.WriteString("\n")
		}
		if len(result.Skills) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(result.Skills)-maxItemsToShow))
		}
	}

	p.printBox("SCORE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRunSummary outputs the end-of-run counters.
func (p *Printer) PrintRunSummary(stats tracker.Stats, submitted int) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total tracked:       %d\n", stats.Total))
	sb.WriteString(fmt.Sprintf("Submitted this run:  %d\n", submitted))
	sb.WriteString(fmt.Sprintf("Submitted overall:   %d\n", stats.Submitted))
	sb.WriteString(fmt.Sprintf("Pending manual:      %d\n", stats.Pending))
	sb.WriteString(fmt.Sprintf("Manual review:       %d\n", stats.ManualReview))
	sb.WriteString(fmt.Sprintf("Failed:              %d\n", stats.Failed))
	sb.WriteString(fmt.Sprintf("Errored:             %d", stats.Error))

	p.printBox("RUN SUMMARY", sb.String())
}
