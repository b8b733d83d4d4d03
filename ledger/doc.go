// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package ledger stores cast votes.

The ledger is append-only. Its single mutation, RecordVote, is one INSERT
guarded by UNIQUE (voter_id, election_id):

	vote, err := ledger.New(conn).RecordVote(ctx, voterID, candidateID, electionID)
	if errors.Is(err, voteerr.ErrAlreadyVoted) {
		// terminal: do not retry
	}

A constraint violation, whether from a second submission or a racing one on
another connection or instance, is reported as ErrAlreadyVoted. Every other
failure is ErrStorageFailure, which the caller may retry.

Read queries (VotesForElection, VotesForCandidate, VotesForVoter) are single
statements and never observe a partially written row. New accepts any
db.Querier, so the tally engine runs them inside its snapshot transaction.
*/
package ledger
