// Package submit defines the submission collaborator contract. A false
// outcome means "could not submit, stage for manual review"; errors are
// reserved for unrecoverable failures.
package submit

import (
	"context"
	"log"
)

// Submitter attempts to submit one application.
type Submitter interface {
	Apply(ctx context.Context, jobID, resumePath, coverLetterPath string) (bool, error)
}

// ManualSubmitter never submits; every application is staged for manual
// review. This is the production default until a board-specific automation
// backend is wired in.
type ManualSubmitter struct{}

func (ManualSubmitter) Apply(ctx context.Context, jobID, resumePath, coverLetterPath string) (bool, error) {
	log.Printf("[submit] %s staged for manual submission (resume=%s cover_letter=%s)", jobID, resumePath, coverLetterPath)
	return false, nil
}

// LoggingSubmitter reports a fixed outcome, used for demo runs and tests.
type LoggingSubmitter struct {
	Outcome bool
}

func (s LoggingSubmitter) Apply(ctx context.Context, jobID, resumePath, coverLetterPath string) (bool, error) {
	log.Printf("[submit] %s submitted=%t", jobID, s.Outcome)
	return s.Outcome, nil
}
