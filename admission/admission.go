// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package admission

import (
	"context"
	"log/slog"
	"sort"

	"github.com/danielhkuo/quickly-elect/catalog"
	"github.com/danielhkuo/quickly-elect/db"
	"github.com/danielhkuo/quickly-elect/eligibility"
	"github.com/danielhkuo/quickly-elect/ledger"
	"github.com/danielhkuo/quickly-elect/models"
	"github.com/danielhkuo/quickly-elect/voteerr"
	"github.com/danielhkuo/quickly-elect/window"
)

// Directory resolves the records a vote refers to. Each lookup returns a
// voteerr NotFound error naming its entity when the record does not exist.
type Directory interface {
	GetVoter(ctx context.Context, voterID string) (models.Voter, error)
	GetElection(ctx context.Context, electionID string) (models.Election, error)
	GetCandidate(ctx context.Context, candidateID string) (models.Candidate, error)
}

type Eligibility interface {
	IsAllowed(ctx context.Context, voterID, electionID string) (bool, error)
}

type Window interface {
	IsOpenForVoting(ctx context.Context, electionID string) (bool, error)
}

type Ledger interface {
	RecordVote(ctx context.Context, voterID, candidateID, electionID string) (models.Vote, error)
	VotesForVoter(ctx context.Context, voterID string) ([]models.Vote, error)
}

// Controller decides whether a cast-vote request is admissible and, if so,
// hands it to the ledger. It holds no state of its own.
type Controller struct {
	dir      Directory
	eligible Eligibility
	window   Window
	ledger   Ledger
}

func NewController(dir Directory, eligible Eligibility, win Window, l Ledger) *Controller {
	return &Controller{dir: dir, eligible: eligible, window: win, ledger: l}
}

// New wires a Controller over a single storage handle.
func New(q db.Querier) *Controller {
	return NewController(catalog.New(q), eligibility.New(q), window.New(q), ledger.New(q))
}

// CastVote admits a vote. The checks run in a fixed order and the first
// failure is returned:
//
//  1. the voter, election and candidate exist (ErrNotFound)
//  2. the candidate belongs to the election (ErrCandidateElectionMismatch)
//  3. the voter is registered for the election (ErrNotEligible)
//  4. the election is ONGOING (ErrElectionNotOpen)
//  5. the ledger accepts the vote (ErrAlreadyVoted or ErrStorageFailure)
//
// Only step 5 writes. Nothing is retried here: ErrStorageFailure is the one
// outcome a caller may resubmit.
func (c *Controller) CastVote(ctx context.Context, voterID, candidateID, electionID string) (models.VoteReceipt, error) {
	if _, err := c.dir.GetVoter(ctx, voterID); err != nil {
		return models.VoteReceipt{}, err
	}
	if _, err := c.dir.GetElection(ctx, electionID); err != nil {
		return models.VoteReceipt{}, err
	}
	candidate, err := c.dir.GetCandidate(ctx, candidateID)
	if err != nil {
		return models.VoteReceipt{}, err
	}

	if candidate.ElectionID != electionID {
		return models.VoteReceipt{}, voteerr.New(voteerr.KindCandidateElectionMismatch)
	}

	allowed, err := c.eligible.IsAllowed(ctx, voterID, electionID)
	if err != nil {
		return models.VoteReceipt{}, err
	}
	if !allowed {
		slog.Info("vote rejected", "reason", voteerr.KindNotEligible, "voter_id", voterID, "election_id", electionID)
		return models.VoteReceipt{}, voteerr.New(voteerr.KindNotEligible)
	}

	open, err := c.window.IsOpenForVoting(ctx, electionID)
	if err != nil {
		return models.VoteReceipt{}, err
	}
	if !open {
		slog.Info("vote rejected", "reason", voteerr.KindElectionNotOpen, "voter_id", voterID, "election_id", electionID)
		return models.VoteReceipt{}, voteerr.New(voteerr.KindElectionNotOpen)
	}

	vote, err := c.ledger.RecordVote(ctx, voterID, candidateID, electionID)
	if err != nil {
		return models.VoteReceipt{}, err
	}

	slog.Info("vote recorded", "vote_id", vote.ID, "election_id", electionID)
	return vote.Receipt(), nil
}

// ParticipatedElections lists the elections the voter has voted in, ordered
// by election ID.
func (c *Controller) ParticipatedElections(ctx context.Context, voterID string) ([]models.ElectionSummary, error) {
	if _, err := c.dir.GetVoter(ctx, voterID); err != nil {
		return nil, err
	}

	votes, err := c.ledger.VotesForVoter(ctx, voterID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(votes))
	ids := make([]string, 0, len(votes))
	for _, v := range votes {
		if !seen[v.ElectionID] {
			seen[v.ElectionID] = true
			ids = append(ids, v.ElectionID)
		}
	}
	sort.Strings(ids)

	summaries := make([]models.ElectionSummary, 0, len(ids))
	for _, id := range ids {
		e, err := c.dir.GetElection(ctx, id)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, e.Summary())
	}
	return summaries, nil
}
