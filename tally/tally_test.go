// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tally

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/quickly-elect/db"
	"github.com/danielhkuo/quickly-elect/ledger"
	"github.com/danielhkuo/quickly-elect/models"
	"github.com/danielhkuo/quickly-elect/testutil"
	"github.com/danielhkuo/quickly-elect/voteerr"
)

func newEngine(t *testing.T) (*Engine, *sql.DB) {
	t.Helper()
	conn := testutil.SetupTestDB(t)
	return NewEngine(conn, db.SnapshotTxOptions(testutil.DBType())), conn
}

func castVotes(t *testing.T, conn *sql.DB, electionID, candidateID string, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		voterID := fmt.Sprintf("%s-%s-%d", electionID, candidateID, i)
		testutil.CreateTestVoter(t, conn, voterID)
		testutil.InsertTestVote(t, conn, voterID, candidateID, electionID)
	}
}

func TestTallyScenario(t *testing.T) {
	e, conn := newEngine(t)
	partyID := testutil.CreateTestParty(t, conn, "Party A")
	electionID := testutil.CreateTestElection(t, conn, models.StatusOngoing)
	c1 := testutil.AddTestCandidate(t, conn, electionID, partyID, "C1")
	c2 := testutil.AddTestCandidate(t, conn, electionID, partyID, "C2")
	castVotes(t, conn, electionID, c1, 2)
	castVotes(t, conn, electionID, c2, 1)

	result, err := e.Tally(context.Background(), electionID)
	require.NoError(t, err)

	assert.Equal(t, electionID, result.ElectionID)
	assert.Equal(t, int64(3), result.TotalVotes)
	require.Len(t, result.CandidateResults, 2)

	first, second := result.CandidateResults[0], result.CandidateResults[1]
	assert.Equal(t, c1, first.CandidateID)
	assert.Equal(t, int64(2), first.VoteCount)
	assert.InDelta(t, 66.67, first.Percentage, 0.01)
	assert.Equal(t, 1, first.Rank)
	assert.Equal(t, "Party A", first.PartyName)

	assert.Equal(t, c2, second.CandidateID)
	assert.InDelta(t, 33.33, second.Percentage, 0.01)
	assert.Equal(t, 2, second.Rank)

	require.NotNil(t, result.Winner)
	assert.Equal(t, c1, result.Winner.CandidateID)
	assert.False(t, result.WinnerByTieBreak)
}

func TestTallyNoVotes(t *testing.T) {
	e, conn := newEngine(t)
	partyID := testutil.CreateTestParty(t, conn, "Party A")
	electionID := testutil.CreateTestElection(t, conn, models.StatusNotStarted)
	testutil.AddTestCandidateWithID(t, conn, "cand-b", electionID, partyID, "B")
	testutil.AddTestCandidateWithID(t, conn, "cand-a", electionID, partyID, "A")

	result, err := e.Tally(context.Background(), electionID)
	require.NoError(t, err)
	assert.Zero(t, result.TotalVotes)
	for _, r := range result.CandidateResults {
		assert.Zero(t, r.Percentage)
		assert.Zero(t, r.VoteCount)
	}
	require.NotNil(t, result.Winner)
	assert.Equal(t, "cand-a", result.Winner.CandidateID)
	assert.True(t, result.WinnerByTieBreak)
}

func TestTallyEmptyRoster(t *testing.T) {
	e, conn := newEngine(t)
	electionID := testutil.CreateTestElection(t, conn, models.StatusOngoing)

	result, err := e.Tally(context.Background(), electionID)
	require.NoError(t, err)
	assert.NotNil(t, result.CandidateResults)
	assert.Empty(t, result.CandidateResults)
	assert.Nil(t, result.Winner)
	assert.False(t, result.WinnerByTieBreak)
}

func TestTallyTieBreakByLowestCandidateID(t *testing.T) {
	e, conn := newEngine(t)
	partyID := testutil.CreateTestParty(t, conn, "Party A")
	electionID := testutil.CreateTestElection(t, conn, models.StatusCompleted)

	// Inserted out of ID order on purpose.
	testutil.AddTestCandidateWithID(t, conn, "cand-3", electionID, partyID, "Three")
	testutil.AddTestCandidateWithID(t, conn, "cand-1", electionID, partyID, "One")
	testutil.AddTestCandidateWithID(t, conn, "cand-2", electionID, partyID, "Two")
	castVotes(t, conn, electionID, "cand-3", 2)
	castVotes(t, conn, electionID, "cand-2", 2)
	castVotes(t, conn, electionID, "cand-1", 1)

	result, err := e.Tally(context.Background(), electionID)
	require.NoError(t, err)

	var order []string
	for _, r := range result.CandidateResults {
		order = append(order, r.CandidateID)
	}
	assert.Equal(t, []string{"cand-2", "cand-3", "cand-1"}, order)
	assert.Equal(t, "cand-2", result.Winner.CandidateID)
	assert.True(t, result.WinnerByTieBreak)
}

func TestTallyConservationAndPercentages(t *testing.T) {
	e, conn := newEngine(t)
	partyID := testutil.CreateTestParty(t, conn, "Party A")
	electionID := testutil.CreateTestElection(t, conn, models.StatusOngoing)

	votes := []int{7, 3, 0, 5}
	for i, n := range votes {
		id := testutil.AddTestCandidate(t, conn, electionID, partyID, fmt.Sprintf("C%d", i))
		castVotes(t, conn, electionID, id, n)
	}

	result, err := e.Tally(context.Background(), electionID)
	require.NoError(t, err)

	var sum int64
	var pct float64
	for i, r := range result.CandidateResults {
		sum += r.VoteCount
		pct += r.Percentage
		assert.GreaterOrEqual(t, r.Percentage, 0.0)
		assert.LessOrEqual(t, r.Percentage, 100.0)
		if i > 0 {
			assert.GreaterOrEqual(t, result.CandidateResults[i-1].VoteCount, r.VoteCount)
		}
	}
	assert.Equal(t, int64(15), result.TotalVotes)
	assert.Equal(t, result.TotalVotes, sum)
	assert.InDelta(t, 100.0, pct, 1e-9)
}

func TestTallyDeterministic(t *testing.T) {
	e, conn := newEngine(t)
	partyID := testutil.CreateTestParty(t, conn, "Party A")
	electionID := testutil.CreateTestElection(t, conn, models.StatusOngoing)
	for i := 0; i < 5; i++ {
		id := testutil.AddTestCandidate(t, conn, electionID, partyID, fmt.Sprintf("C%d", i))
		castVotes(t, conn, electionID, id, i%2)
	}

	first, err := e.Tally(context.Background(), electionID)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := e.Tally(context.Background(), electionID)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestTallyUnknownElection(t *testing.T) {
	e, _ := newEngine(t)

	_, err := e.Tally(context.Background(), "missing")
	assert.True(t, errors.Is(err, voteerr.ErrUnknownElection))
}

func TestTallyAll(t *testing.T) {
	e, conn := newEngine(t)
	partyID := testutil.CreateTestParty(t, conn, "Party A")

	testutil.CreateTestElectionWithID(t, conn, "elec-b", models.StatusOngoing)
	testutil.CreateTestElectionWithID(t, conn, "elec-a", models.StatusCompleted)
	testutil.AddTestCandidateWithID(t, conn, "b-1", "elec-b", partyID, "B1")
	testutil.AddTestCandidateWithID(t, conn, "a-1", "elec-a", partyID, "A1")
	castVotes(t, conn, "elec-a", "a-1", 3)

	results, err := e.TallyAll(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "elec-a", results[0].ElectionID)
	assert.Equal(t, int64(3), results[0].TotalVotes)
	assert.Equal(t, "elec-b", results[1].ElectionID)
	assert.Zero(t, results[1].TotalVotes)

	single, err := e.Tally(context.Background(), "elec-a")
	require.NoError(t, err)
	assert.Equal(t, single, results[0])
}

func TestTallyAllEmpty(t *testing.T) {
	e, _ := newEngine(t)

	results, err := e.TallyAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestTallyConservesLedgerVotes(t *testing.T) {
	e, conn := newEngine(t)
	ctx := context.Background()

	partyID := testutil.CreateTestParty(t, conn, "Party A")
	e1 := testutil.CreateTestElection(t, conn, models.StatusOngoing)
	e2 := testutil.CreateTestElection(t, conn, models.StatusOngoing)
	home := testutil.AddTestCandidate(t, conn, e1, partyID, "Home")
	away := testutil.AddTestCandidate(t, conn, e2, partyID, "Away")
	testutil.CreateTestVoter(t, conn, "V1")
	testutil.CreateTestVoter(t, conn, "V2")

	l := ledger.New(conn)
	_, err := l.RecordVote(ctx, "V1", away, e1)
	require.Error(t, err)
	_, err = l.RecordVote(ctx, "V2", home, e1)
	require.NoError(t, err)

	votes, err := l.VotesForElection(ctx, e1)
	require.NoError(t, err)

	result, err := e.Tally(ctx, e1)
	require.NoError(t, err)
	assert.Equal(t, int64(len(votes)), result.TotalVotes)

	var sum int64
	for _, r := range result.CandidateResults {
		sum += r.VoteCount
	}
	assert.Equal(t, result.TotalVotes, sum)
}
