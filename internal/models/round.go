package models

import "time"

// RoundStatus is the outcome of one evaluation round.
type RoundStatus string

const (
	RoundPending RoundStatus = "pending"
	RoundPassed  RoundStatus = "passed"
	RoundFailed  RoundStatus = "failed"
)

// RoundEntry is one line of the per-application round ledger.
type RoundEntry struct {
	RoundNumber      int         `json:"round_number"`
	Status           RoundStatus `json:"status"`
	TestAssignmentID string      `json:"test_assignment_id,omitempty"`
	Feedback         string      `json:"feedback,omitempty"`
	EvaluatedAt      *time.Time  `json:"evaluated_at,omitempty"`
	EvaluatedBy      string      `json:"evaluated_by,omitempty"`
}

// RoundLedger is the ordered round outcome history embedded in an
// application. Entries are patched in place by round number, never removed.
type RoundLedger []RoundEntry

// Find returns the index of the entry with the given round number, or -1.
func (l RoundLedger) Find(roundNumber int) int {
	for i, entry := range l {
		if entry.RoundNumber == roundNumber {
			return i
		}
	}
	return -1
}

// Upsert patches the entry for roundNumber or appends a new one. Existing
// feedback survives a patch that carries none; other fields on the entry are
// preserved untouched.
func (l RoundLedger) Upsert(roundNumber int, status RoundStatus, feedback, evaluatedBy string, at time.Time) RoundLedger {
	updated := make(RoundLedger, len(l))
	copy(updated, l)

	idx := updated.Find(roundNumber)
	if idx >= 0 {
		entry := updated[idx]
		entry.Status = status
		if feedback != "" {
			entry.Feedback = feedback
		}
		entry.EvaluatedAt = &at
		entry.EvaluatedBy = evaluatedBy
		updated[idx] = entry
		return updated
	}

	return append(updated, RoundEntry{
		RoundNumber: roundNumber,
		Status:      status,
		Feedback:    feedback,
		EvaluatedAt: &at,
		EvaluatedBy: evaluatedBy,
	})
}

// AppendPending adds a fresh pending entry for roundNumber unless one
// already exists.
func (l RoundLedger) AppendPending(roundNumber int) RoundLedger {
	if l.Find(roundNumber) >= 0 {
		return l
	}

	updated := make(RoundLedger, len(l), len(l)+1)
	copy(updated, l)
	return append(updated, RoundEntry{RoundNumber: roundNumber, Status: RoundPending})
}

// HighestPending returns the largest round number currently pending, or 0.
func (l RoundLedger) HighestPending() int {
	highest := 0
	for _, entry := range l {
		if entry.Status == RoundPending && entry.RoundNumber > highest {
			highest = entry.RoundNumber
		}
	}
	return highest
}
