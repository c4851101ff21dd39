package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRoundLedgerUpsertPatchesExistingEntry(t *testing.T) {
	at := time.Now()
	ledger := RoundLedger{{RoundNumber: 1, Status: RoundPending, Feedback: "initial"}}

	updated := ledger.Upsert(1, RoundPassed, "", "admin-1", at)

	require.Len(t, updated, 1)
	require.Equal(t, RoundPassed, updated[0].Status)
	require.Equal(t, "initial", updated[0].Feedback, "empty feedback must not clobber existing feedback")
	require.Equal(t, "admin-1", updated[0].EvaluatedBy)
	require.NotNil(t, updated[0].EvaluatedAt)

	// The receiver is left untouched.
	require.Equal(t, RoundPending, ledger[0].Status)
}

func TestRoundLedgerUpsertAppendsNewEntry(t *testing.T) {
	at := time.Now()
	ledger := RoundLedger{{RoundNumber: 1, Status: RoundPassed}}

	updated := ledger.Upsert(2, RoundFailed, "insufficient depth", "admin-1", at)

	require.Len(t, updated, 2)
	require.Equal(t, 2, updated[1].RoundNumber)
	require.Equal(t, RoundFailed, updated[1].Status)
	require.Equal(t, "insufficient depth", updated[1].Feedback)
}

func TestRoundLedgerNeverDuplicatesRoundNumbers(t *testing.T) {
	ledger := RoundLedger{}
	at := time.Now()

	for i := 0; i < 5; i++ {
		ledger = ledger.Upsert(1, RoundPassed, "", "admin-1", at)
		ledger = ledger.AppendPending(2)
	}

	seen := map[int]bool{}
	for _, entry := range ledger {
		require.False(t, seen[entry.RoundNumber], "round %d appears twice", entry.RoundNumber)
		seen[entry.RoundNumber] = true
	}
}

func TestRoundLedgerHighestPending(t *testing.T) {
	ledger := RoundLedger{
		{RoundNumber: 1, Status: RoundPassed},
		{RoundNumber: 2, Status: RoundPending},
	}
	require.Equal(t, 2, ledger.HighestPending())
	require.Equal(t, 0, RoundLedger{}.HighestPending())
}

func TestApplicationAdvanceRoundIsMonotonic(t *testing.T) {
	app := Application{CurrentRound: 2}
	app.AdvanceRound(3)
	require.Equal(t, 3, app.CurrentRound)
	app.AdvanceRound(1)
	require.Equal(t, 3, app.CurrentRound, "current round must never decrease")
}

func TestApplicationMarkSelectedSetsTimestampOnce(t *testing.T) {
	app := Application{Status: StatusQuizCompleted}
	first := time.Now().Add(-time.Hour)
	app.MarkSelected(first)
	require.Equal(t, StatusSelected, app.Status)
	require.Equal(t, first, *app.SelectedAt)

	app.MarkSelected(time.Now())
	require.Equal(t, first, *app.SelectedAt, "selected_at is written exactly once")
}

func TestTerminalStatuses(t *testing.T) {
	for _, status := range []ApplicationStatus{StatusSelected, StatusRejected, StatusRejectedRound1} {
		require.True(t, status.IsTerminal())
	}
	for _, status := range []ApplicationStatus{StatusFormSubmitted, StatusFormApproved, StatusTestAssigned, StatusQuizCompleted} {
		require.False(t, status.IsTerminal())
	}
}
