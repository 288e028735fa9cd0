// Package tracker keeps the durable, dedup-safe record of every job's
// application lifecycle: one Application per job id, an append-only
// interaction log, and aggregate statistics maintained as running counters.
//
// Status graph:
//
//	discovered ──► detailed ──► scored ──► eligible ──► documents_generated ──► submitted
//	                               │            │                │
//	                               │            │                ├──► pending_manual
//	                               ▼            │                └──► failed
//	                          filtered_out      └───────────────────► (stays eligible across runs)
//
// manual_review is enterable from any non-terminal state; error is enterable
// from any non-terminal state after the stage's retries are exhausted. Both
// are terminal along with submitted, filtered_out, and failed.
package tracker

import "github.com/jonathan/apply-agent/internal/errs"

// Status is the lifecycle state of one application.
type Status string

const (
	StatusDiscovered    Status = "discovered"
	StatusDetailed      Status = "detailed"
	StatusScored        Status = "scored"
	StatusFilteredOut   Status = "filtered_out"
	StatusEligible      Status = "eligible"
	StatusDocsGenerated Status = "documents_generated"
	StatusSubmitted     Status = "submitted"
	StatusPendingManual Status = "pending_manual"
	StatusFailed        Status = "failed"
	StatusManualReview  Status = "manual_review"
	StatusError         Status = "error"
)

// forwardTransitions lists the allowed forward moves. manual_review and
// error are handled separately: they are enterable from any non-terminal
// state.
var forwardTransitions = map[Status][]Status{
	StatusDiscovered:    {StatusDetailed},
	StatusDetailed:      {StatusScored},
	StatusScored:        {StatusFilteredOut, StatusEligible},
	StatusEligible:      {StatusDocsGenerated},
	StatusDocsGenerated: {StatusSubmitted, StatusPendingManual, StatusFailed},
}

// terminal states have no outgoing transitions.
var terminal = map[Status]bool{
	StatusFilteredOut:   true,
	StatusSubmitted:     true,
	StatusPendingManual: true,
	StatusFailed:        true,
	StatusManualReview:  true,
	StatusError:         true,
}

// IsTerminal reports whether s allows no further automatic transitions.
func IsTerminal(s Status) bool { return terminal[s] }

// CanTransition reports whether moving from one status to another is allowed
// by the state machine.
func CanTransition(from, to Status) bool {
	if from == to {
		return false
	}
	if terminal[from] {
		return false
	}
	if to == StatusManualReview || to == StatusError {
		return true
	}
	for _, allowed := range forwardTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// checkTransition returns a StateViolationError when the move is not allowed.
func checkTransition(jobID string, from, to Status) error {
	if !CanTransition(from, to) {
		return &errs.StateViolationError{JobID: jobID, From: string(from), To: string(to)}
	}
	return nil
}
