// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package tally computes election results from the vote ledger.
//
// Results are ordered by vote count descending and then by candidate ID
// ascending, so the winner of a tie is the tied candidate with the lowest ID.
// The ordering never depends on map iteration, query plans or time.
package tally

import (
	"context"
	"database/sql"
	"sort"

	"github.com/danielhkuo/quickly-elect/catalog"
	"github.com/danielhkuo/quickly-elect/db"
	"github.com/danielhkuo/quickly-elect/ledger"
	"github.com/danielhkuo/quickly-elect/models"
	"github.com/danielhkuo/quickly-elect/voteerr"
)

// Engine reads every result inside a single read transaction so the election,
// its roster and its votes come from one point in time.
type Engine struct {
	conn   *sql.DB
	txOpts *sql.TxOptions
}

// NewEngine returns an Engine. txOpts should come from db.SnapshotTxOptions.
func NewEngine(conn *sql.DB, txOpts *sql.TxOptions) *Engine {
	return &Engine{conn: conn, txOpts: txOpts}
}

// Tally returns the result of one election.
func (e *Engine) Tally(ctx context.Context, electionID string) (models.ElectionResult, error) {
	var result models.ElectionResult
	err := e.read(ctx, "tally", func(q db.Querier) error {
		var err error
		result, err = tallyElection(ctx, catalog.New(q), ledger.New(q), electionID)
		return err
	})
	return result, err
}

// TallyAll returns the result of every election in election ID order.
func (e *Engine) TallyAll(ctx context.Context) ([]models.ElectionResult, error) {
	var results []models.ElectionResult
	err := e.read(ctx, "tally all", func(q db.Querier) error {
		cat, led := catalog.New(q), ledger.New(q)

		elections, err := cat.ListElections(ctx, "")
		if err != nil {
			return err
		}

		results = make([]models.ElectionResult, 0, len(elections))
		for _, el := range elections {
			r, err := tallyElection(ctx, cat, led, el.ID)
			if err != nil {
				return err
			}
			results = append(results, r)
		}
		return nil
	})
	return results, err
}

func (e *Engine) read(ctx context.Context, op string, fn func(q db.Querier) error) error {
	tx, err := e.conn.BeginTx(ctx, e.txOpts)
	if err != nil {
		return voteerr.Storage(op, err)
	}
	// Read-only: nothing to commit.
	defer tx.Rollback()

	return fn(tx)
}

func tallyElection(ctx context.Context, cat *catalog.Catalog, led *ledger.Ledger, electionID string) (models.ElectionResult, error) {
	election, err := cat.GetElection(ctx, electionID)
	if err != nil {
		return models.ElectionResult{}, err
	}
	roster, err := cat.Roster(ctx, electionID)
	if err != nil {
		return models.ElectionResult{}, err
	}
	counts, err := led.CountsByCandidate(ctx, electionID)
	if err != nil {
		return models.ElectionResult{}, err
	}

	return Compute(election, roster, counts), nil
}

// Compute builds an ElectionResult from a roster and per-candidate counts.
// Counts for candidates outside the roster are ignored, so TotalVotes is
// always the sum of the reported counts.
func Compute(election models.Election, roster []models.Candidate, counts map[string]int64) models.ElectionResult {
	results := make([]models.CandidateResult, 0, len(roster))
	var total int64
	for _, c := range roster {
		n := counts[c.ID]
		total += n
		results = append(results, models.CandidateResult{
			CandidateID:   c.ID,
			CandidateName: c.Name,
			PartyID:       c.PartyID,
			PartyName:     c.PartyName,
			VoteCount:     n,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].VoteCount != results[j].VoteCount {
			return results[i].VoteCount > results[j].VoteCount
		}
		return results[i].CandidateID < results[j].CandidateID
	})

	for i := range results {
		results[i].Rank = i + 1
		if total > 0 {
			results[i].Percentage = float64(results[i].VoteCount) / float64(total) * 100
		}
	}

	er := models.ElectionResult{
		ElectionID:       election.ID,
		Title:            election.Title,
		Status:           election.Status,
		StartDate:        election.StartDate,
		EndDate:          election.EndDate,
		TotalVotes:       total,
		CandidateResults: results,
	}
	if len(results) > 0 {
		winner := results[0]
		er.Winner = &winner
		er.WinnerByTieBreak = len(results) > 1 && results[1].VoteCount == winner.VoteCount
	}
	return er
}
