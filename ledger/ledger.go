// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/danielhkuo/quickly-elect/auth"
	"github.com/danielhkuo/quickly-elect/db"
	"github.com/danielhkuo/quickly-elect/models"
	"github.com/danielhkuo/quickly-elect/voteerr"
)

// Ledger is the append-only store of cast votes.
type Ledger struct {
	q     db.Querier
	now   func() time.Time
	newID func() (string, error)
}

func New(q db.Querier) *Ledger {
	return &Ledger{q: q, now: time.Now, newID: auth.GenerateID}
}

var errElectionClosed = errors.New("election is not open")

// RecordVote inserts one vote. The UNIQUE (voter_id, election_id) constraint
// makes the check and the insert a single atomic step: of any number of
// racing calls for the same pair exactly one commits and the rest get
// ErrAlreadyVoted. The vote ID and cast time are always assigned here.
//
// The insert runs in a transaction that first locks the election row and
// requires it to be ONGOING, so a vote never commits after the election has
// been closed. A candidate from another election is refused by the composite
// foreign key on vote.
func (l *Ledger) RecordVote(ctx context.Context, voterID, candidateID, electionID string) (models.Vote, error) {
	voteID, err := l.newID()
	if err != nil {
		return models.Vote{}, voteerr.Storage("record vote", err)
	}

	vote := models.Vote{
		ID:          voteID,
		VoterID:     voterID,
		CandidateID: candidateID,
		ElectionID:  electionID,
		// Microseconds is what PostgreSQL keeps; truncating here makes the
		// receipt equal to what a later read returns.
		CastAt: l.now().UTC().Truncate(time.Microsecond),
	}

	err = db.WithTx(ctx, l.q, func(q db.Querier) error {
		open, err := db.LockElection(ctx, q, electionID, models.StatusOngoing)
		if err != nil {
			return err
		}
		if !open {
			return errElectionClosed
		}

		_, err = q.ExecContext(ctx, `
			INSERT INTO vote (id, voter_id, candidate_id, election_id, cast_at)
			VALUES ($1, $2, $3, $4, $5)
		`, vote.ID, vote.VoterID, vote.CandidateID, vote.ElectionID, vote.CastAt)
		return err
	})

	switch {
	case err == nil:
		return vote, nil
	case db.IsUniqueViolation(err):
		slog.Info("duplicate vote rejected", "voter_id", voterID, "election_id", electionID)
		return models.Vote{}, voteerr.New(voteerr.KindAlreadyVoted)
	case errors.Is(err, errElectionClosed):
		if rejection := l.explain(ctx, vote); rejection != nil {
			return models.Vote{}, rejection
		}
		return models.Vote{}, voteerr.New(voteerr.KindElectionNotOpen)
	case db.IsForeignKeyViolation(err):
		if rejection := l.explain(ctx, vote); rejection != nil {
			return models.Vote{}, rejection
		}
	}

	slog.Error("failed to insert vote", "error", err, "election_id", electionID)
	return models.Vote{}, voteerr.Storage("record vote", err)
}

// explain names the reference a refused vote broke, checked in admission
// order. It returns nil when every reference is valid.
func (l *Ledger) explain(ctx context.Context, v models.Vote) error {
	var (
		voterExists       bool
		candidateElection sql.NullString
		electionStatus    sql.NullString
	)
	err := l.q.QueryRowContext(ctx, `
		SELECT
			EXISTS(SELECT 1 FROM voter WHERE voter_id = $1),
			(SELECT election_id FROM candidate WHERE id = $2),
			(SELECT status FROM election WHERE id = $3)
	`, v.VoterID, v.CandidateID, v.ElectionID).Scan(&voterExists, &candidateElection, &electionStatus)
	if err != nil {
		return voteerr.Storage("record vote", err)
	}

	switch {
	case !voterExists:
		return voteerr.NotFound(voteerr.EntityVoter)
	case !electionStatus.Valid:
		return voteerr.NotFound(voteerr.EntityElection)
	case !candidateElection.Valid:
		return voteerr.NotFound(voteerr.EntityCandidate)
	case candidateElection.String != v.ElectionID:
		return voteerr.New(voteerr.KindCandidateElectionMismatch)
	case electionStatus.String != models.StatusOngoing:
		return voteerr.New(voteerr.KindElectionNotOpen)
	}
	return nil
}

// Get returns a single vote by ID.
func (l *Ledger) Get(ctx context.Context, voteID string) (models.Vote, error) {
	var v models.Vote
	err := l.q.QueryRowContext(ctx, `
		SELECT id, voter_id, candidate_id, election_id, cast_at
		FROM vote
		WHERE id = $1
	`, voteID).Scan(&v.ID, &v.VoterID, &v.CandidateID, &v.ElectionID, &v.CastAt)

	if errors.Is(err, sql.ErrNoRows) {
		return models.Vote{}, voteerr.NotFound(voteerr.EntityVote)
	}
	if err != nil {
		return models.Vote{}, voteerr.Storage("get vote", err)
	}
	return v, nil
}

// HasVoted reports whether a vote exists for the pair.
func (l *Ledger) HasVoted(ctx context.Context, voterID, electionID string) (bool, error) {
	var exists bool
	err := l.q.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM vote
			WHERE voter_id = $1 AND election_id = $2
		)
	`, voterID, electionID).Scan(&exists)
	if err != nil {
		return false, voteerr.Storage("check vote", err)
	}
	return exists, nil
}

func (l *Ledger) VotesForElection(ctx context.Context, electionID string) ([]models.Vote, error) {
	return l.list(ctx, "votes for election", `
		SELECT id, voter_id, candidate_id, election_id, cast_at
		FROM vote
		WHERE election_id = $1
		ORDER BY cast_at, id
	`, electionID)
}

func (l *Ledger) VotesForCandidate(ctx context.Context, candidateID string) ([]models.Vote, error) {
	return l.list(ctx, "votes for candidate", `
		SELECT id, voter_id, candidate_id, election_id, cast_at
		FROM vote
		WHERE candidate_id = $1
		ORDER BY cast_at, id
	`, candidateID)
}

func (l *Ledger) VotesForVoter(ctx context.Context, voterID string) ([]models.Vote, error) {
	return l.list(ctx, "votes for voter", `
		SELECT id, voter_id, candidate_id, election_id, cast_at
		FROM vote
		WHERE voter_id = $1
		ORDER BY cast_at, id
	`, voterID)
}

// CountForElection returns the number of recorded votes in an election.
func (l *Ledger) CountForElection(ctx context.Context, electionID string) (int64, error) {
	var count int64
	err := l.q.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM vote WHERE election_id = $1
	`, electionID).Scan(&count)
	if err != nil {
		return 0, voteerr.Storage("count votes", err)
	}
	return count, nil
}

// CountsByCandidate returns the number of votes per candidate in an
// election. Candidates without votes are absent from the map.
func (l *Ledger) CountsByCandidate(ctx context.Context, electionID string) (map[string]int64, error) {
	rows, err := l.q.QueryContext(ctx, `
		SELECT candidate_id, COUNT(*)
		FROM vote
		WHERE election_id = $1
		GROUP BY candidate_id
	`, electionID)
	if err != nil {
		return nil, voteerr.Storage("count votes by candidate", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var (
			candidateID string
			n           int64
		)
		if err := rows.Scan(&candidateID, &n); err != nil {
			return nil, voteerr.Storage("count votes by candidate", err)
		}
		counts[candidateID] = n
	}
	if err := rows.Err(); err != nil {
		return nil, voteerr.Storage("count votes by candidate", err)
	}
	return counts, nil
}

func (l *Ledger) list(ctx context.Context, op, query string, arg string) ([]models.Vote, error) {
	rows, err := l.q.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, voteerr.Storage(op, err)
	}
	defer rows.Close()

	votes := []models.Vote{}
	for rows.Next() {
		var v models.Vote
		if err := rows.Scan(&v.ID, &v.VoterID, &v.CandidateID, &v.ElectionID, &v.CastAt); err != nil {
			return nil, voteerr.Storage(op, err)
		}
		votes = append(votes, v)
	}
	if err := rows.Err(); err != nil {
		return nil, voteerr.Storage(op, err)
	}

	return votes, nil
}
