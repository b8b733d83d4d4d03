// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package window decides whether an election is accepting votes.
//
// The stored status is authoritative. An election whose start and end dates
// enclose the current time is still closed until it is moved to ONGOING,
// either by an administrator or by the scheduler.
package window

import (
	"context"
	"database/sql"
	"errors"

	"github.com/danielhkuo/quickly-elect/db"
	"github.com/danielhkuo/quickly-elect/models"
	"github.com/danielhkuo/quickly-elect/voteerr"
)

type Authority struct {
	q db.Querier
}

func New(q db.Querier) *Authority {
	return &Authority{q: q}
}

// IsOpenForVoting reports whether the election's status is ONGOING.
func (a *Authority) IsOpenForVoting(ctx context.Context, electionID string) (bool, error) {
	var status string
	err := a.q.QueryRowContext(ctx, `
		SELECT status FROM election WHERE id = $1
	`, electionID).Scan(&status)

	if errors.Is(err, sql.ErrNoRows) {
		return false, voteerr.NotFound(voteerr.EntityElection)
	}
	if err != nil {
		return false, voteerr.Storage("check election window", err)
	}
	return status == models.StatusOngoing, nil
}
