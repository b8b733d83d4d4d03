// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package eligibility records which voters may vote in which elections.
package eligibility

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/danielhkuo/quickly-elect/auth"
	"github.com/danielhkuo/quickly-elect/db"
	"github.com/danielhkuo/quickly-elect/models"
	"github.com/danielhkuo/quickly-elect/voteerr"
)

type Registry struct {
	q     db.Querier
	now   func() time.Time
	newID func() (string, error)
}

func New(q db.Querier) *Registry {
	return &Registry{q: q, now: time.Now, newID: auth.GenerateID}
}

// IsAllowed reports whether the voter is registered for the election.
func (r *Registry) IsAllowed(ctx context.Context, voterID, electionID string) (bool, error) {
	var allowed bool
	err := r.q.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM allowed_voter
			WHERE voter_id = $1 AND election_id = $2
		)
	`, voterID, electionID).Scan(&allowed)
	if err != nil {
		return false, voteerr.Storage("check eligibility", err)
	}
	return allowed, nil
}

// Register allows voterID to vote in electionID. A second registration of
// the same pair, concurrent or not, fails with ErrDuplicateRegistration.
func (r *Registry) Register(ctx context.Context, voterID, electionID string) (models.AllowedVoter, error) {
	voterID = strings.TrimSpace(voterID)
	if voterID == "" {
		return models.AllowedVoter{}, voteerr.Invalid("voter_id is required")
	}

	var exists bool
	err := r.q.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM election WHERE id = $1)
	`, electionID).Scan(&exists)
	if err != nil {
		return models.AllowedVoter{}, voteerr.Storage("register voter", err)
	}
	if !exists {
		return models.AllowedVoter{}, voteerr.NotFound(voteerr.EntityElection)
	}

	id, err := r.newID()
	if err != nil {
		return models.AllowedVoter{}, voteerr.Storage("register voter", err)
	}
	av := models.AllowedVoter{
		ID:         id,
		VoterID:    voterID,
		ElectionID: electionID,
		CreatedAt:  r.now().UTC().Truncate(time.Microsecond),
	}

	_, err = r.q.ExecContext(ctx, `
		INSERT INTO allowed_voter (id, voter_id, election_id, created_at)
		VALUES ($1, $2, $3, $4)
	`, av.ID, av.VoterID, av.ElectionID, av.CreatedAt)
	if db.IsUniqueViolation(err) {
		return models.AllowedVoter{}, voteerr.Duplicate(voteerr.EntityAllowedVoter)
	}
	if err != nil {
		slog.Error("failed to register allowed voter", "error", err, "election_id", electionID)
		return models.AllowedVoter{}, voteerr.Storage("register voter", err)
	}

	slog.Info("voter allowed", "voter_id", voterID, "election_id", electionID)
	return av, nil
}

// List returns the registrations of an election ordered by voter ID.
func (r *Registry) List(ctx context.Context, electionID string) ([]models.AllowedVoter, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT id, voter_id, election_id, created_at
		FROM allowed_voter
		WHERE election_id = $1
		ORDER BY voter_id
	`, electionID)
	if err != nil {
		return nil, voteerr.Storage("list allowed voters", err)
	}
	defer rows.Close()

	allowed := []models.AllowedVoter{}
	for rows.Next() {
		var av models.AllowedVoter
		if err := rows.Scan(&av.ID, &av.VoterID, &av.ElectionID, &av.CreatedAt); err != nil {
			return nil, voteerr.Storage("list allowed voters", err)
		}
		allowed = append(allowed, av)
	}
	if err := rows.Err(); err != nil {
		return nil, voteerr.Storage("list allowed voters", err)
	}
	return allowed, nil
}

func (r *Registry) Count(ctx context.Context, electionID string) (int, error) {
	var n int
	err := r.q.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM allowed_voter WHERE election_id = $1
	`, electionID).Scan(&n)
	if err != nil {
		return 0, voteerr.Storage("count allowed voters", err)
	}
	return n, nil
}

// Revoke removes a registration. Once the voter has voted in the election
// the registration is part of the record and cannot be removed.
func (r *Registry) Revoke(ctx context.Context, voterID, electionID string) error {
	var id string
	err := r.q.QueryRowContext(ctx, `
		SELECT id FROM allowed_voter WHERE voter_id = $1 AND election_id = $2
	`, voterID, electionID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return voteerr.NotFound(voteerr.EntityAllowedVoter)
	}
	if err != nil {
		return voteerr.Storage("revoke voter", err)
	}

	// The NOT EXISTS guard keeps the check and the delete in one statement.
	res, err := r.q.ExecContext(ctx, `
		DELETE FROM allowed_voter
		WHERE id = $1
		  AND NOT EXISTS (
			SELECT 1 FROM vote WHERE voter_id = $2 AND election_id = $3
		  )
	`, id, voterID, electionID)
	if err != nil {
		return voteerr.Storage("revoke voter", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return voteerr.Storage("revoke voter", err)
	}
	if n == 0 {
		return voteerr.New(voteerr.KindRegistrationInUse)
	}

	slog.Info("voter revoked", "voter_id", voterID, "election_id", electionID)
	return nil
}
