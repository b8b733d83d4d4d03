// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package catalog

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

// Catalog holds the election metadata the voting core reads: voters,
// parties, elections and candidates.
type Catalog struct {
	q   db.Querier
	now func() time.Time
}

func New(q db.Querier) *Catalog {
	return &Catalog{q: q, now: time.Now}
}

func (c *Catalog) newID(op string) (string, error) {
	id, err := auth.GenerateID()
	if err != nil {
		return "", voteerr.Storage(op, err)
	}
	return id, nil
}

// Voters

func (c *Catalog) CreateVoter(ctx context.Context, voterID, username, role string) (models.Voter, error) {
	voterID = strings.TrimSpace(voterID)
	if voterID == "" {
		return models.Voter{}, voteerr.Invalid("voter_id is required")
	}
	if role == "" {
		role = models.RoleVoter
	}
	if !models.ValidRole(role) {
		return models.Voter{}, voteerr.Invalid("role must be VOTER or ADMIN")
	}

	id, err := c.newID("create voter")
	if err != nil {
		return models.Voter{}, err
	}

	v := models.Voter{
		ID:        id,
		VoterID:   voterID,
		Username:  username,
		Role:      role,
		CreatedAt: c.now().UTC().Truncate(time.Microsecond),
	}

	_, err = c.q.ExecContext(ctx, `
		INSERT INTO voter (id, voter_id, username, role, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, v.ID, v.VoterID, v.Username, v.Role, v.CreatedAt)
	if db.IsUniqueViolation(err) {
		return models.Voter{}, voteerr.Duplicate(voteerr.EntityVoter)
	}
	if err != nil {
		return models.Voter{}, voteerr.Storage("create voter", err)
	}

	slog.Info("voter registered", "voter_id", v.VoterID, "role", v.Role)
	return v, nil
}

// GetVoter resolves a voter by external voter identifier.
func (c *Catalog) GetVoter(ctx context.Context, voterID string) (models.Voter, error) {
	var v models.Voter
	err := c.q.QueryRowContext(ctx, `
		SELECT id, voter_id, username, role, created_at
		FROM voter
		WHERE voter_id = $1
	`, voterID).Scan(&v.ID, &v.VoterID, &v.Username, &v.Role, &v.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return models.Voter{}, voteerr.NotFound(voteerr.EntityVoter)
	}
	if err != nil {
		return models.Voter{}, voteerr.Storage("get voter", err)
	}
	return v, nil
}

// Parties

func (c *Catalog) CreateParty(ctx context.Context, name, description string) (models.Party, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Party{}, voteerr.Invalid("name is required")
	}

	return c.AddParty(ctx, models.Party{Name: name, Description: description})
}

// AddParty inserts p as given, generating an ID only when p.ID is empty.
func (c *Catalog) AddParty(ctx context.Context, p models.Party) (models.Party, error) {
	if p.ID == "" {
		id, err := c.newID("create party")
		if err != nil {
			return models.Party{}, err
		}
		p.ID = id
	}

	_, err := c.q.ExecContext(ctx, `
		INSERT INTO party (id, name, description)
		VALUES ($1, $2, $3)
	`, p.ID, p.Name, p.Description)
	if db.IsUniqueViolation(err) {
		return models.Party{}, voteerr.Duplicate(voteerr.EntityParty)
	}
	if err != nil {
		return models.Party{}, voteerr.Storage("create party", err)
	}

	slog.Info("party created", "party_id", p.ID, "name", p.Name)
	return p, nil
}

func (c *Catalog) GetParty(ctx context.Context, partyID string) (models.Party, error) {
	var p models.Party
	err := c.q.QueryRowContext(ctx, `
		SELECT id, name, description FROM party WHERE id = $1
	`, partyID).Scan(&p.ID, &p.Name, &p.Description)

	if errors.Is(err, sql.ErrNoRows) {
		return models.Party{}, voteerr.NotFound(voteerr.EntityParty)
	}
	if err != nil {
		return models.Party{}, voteerr.Storage("get party", err)
	}
	return p, nil
}

func (c *Catalog) ListParties(ctx context.Context) ([]models.Party, error) {
	rows, err := c.q.QueryContext(ctx, `
		SELECT id, name, description FROM party ORDER BY name, id
	`)
	if err != nil {
		return nil, voteerr.Storage("list parties", err)
	}
	defer rows.Close()

	parties := []models.Party{}
	for rows.Next() {
		var p models.Party
		if err := rows.Scan(&p.ID, &p.Name, &p.Description); err != nil {
			return nil, voteerr.Storage("list parties", err)
		}
		parties = append(parties, p)
	}
	if err := rows.Err(); err != nil {
		return nil, voteerr.Storage("list parties", err)
	}
	return parties, nil
}

// Candidates

func (c *Catalog) CreateCandidate(ctx context.Context, electionID, partyID, name, bio string) (models.Candidate, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Candidate{}, voteerr.Invalid("name is required")
	}

	return c.AddCandidate(ctx, models.Candidate{
		ElectionID: electionID,
		PartyID:    partyID,
		Name:       name,
		Bio:        bio,
	})
}

// AddCandidate inserts cand, generating an ID only when cand.ID is empty.
// The election and the party must already exist.
func (c *Catalog) AddCandidate(ctx context.Context, cand models.Candidate) (models.Candidate, error) {
	if cand.ID == "" {
		id, err := c.newID("create candidate")
		if err != nil {
			return models.Candidate{}, err
		}
		cand.ID = id
	}

	if _, err := c.GetElection(ctx, cand.ElectionID); err != nil {
		return models.Candidate{}, err
	}
	party, err := c.GetParty(ctx, cand.PartyID)
	if err != nil {
		return models.Candidate{}, err
	}

	_, err = c.q.ExecContext(ctx, `
		INSERT INTO candidate (id, election_id, party_id, name, bio)
		VALUES ($1, $2, $3, $4, $5)
	`, cand.ID, cand.ElectionID, cand.PartyID, cand.Name, cand.Bio)
	if db.IsUniqueViolation(err) {
		return models.Candidate{}, voteerr.Duplicate(voteerr.EntityCandidate)
	}
	if err != nil {
		return models.Candidate{}, voteerr.Storage("create candidate", err)
	}

	cand.PartyName = party.Name
	slog.Info("candidate added", "election_id", cand.ElectionID, "candidate_id", cand.ID)
	return cand, nil
}

func (c *Catalog) GetCandidate(ctx context.Context, candidateID string) (models.Candidate, error) {
	var cand models.Candidate
	err := c.q.QueryRowContext(ctx, `
		SELECT c.id, c.election_id, c.party_id, p.name, c.name, c.bio
		FROM candidate c
		JOIN party p ON p.id = c.party_id
		WHERE c.id = $1
	`, candidateID).Scan(&cand.ID, &cand.ElectionID, &cand.PartyID, &cand.PartyName, &cand.Name, &cand.Bio)

	if errors.Is(err, sql.ErrNoRows) {
		return models.Candidate{}, voteerr.NotFound(voteerr.EntityCandidate)
	}
	if err != nil {
		return models.Candidate{}, voteerr.Storage("get candidate", err)
	}
	return cand, nil
}

// Roster returns the candidates of an election ordered by ID.
func (c *Catalog) Roster(ctx context.Context, electionID string) ([]models.Candidate, error) {
	rows, err := c.q.QueryContext(ctx, `
		SELECT c.id, c.election_id, c.party_id, p.name, c.name, c.bio
		FROM candidate c
		JOIN party p ON p.id = c.party_id
		WHERE c.election_id = $1
		ORDER BY c.id
	`, electionID)
	if err != nil {
		return nil, voteerr.Storage("load roster", err)
	}
	defer rows.Close()

	roster := []models.Candidate{}
	for rows.Next() {
		var cand models.Candidate
		if err := rows.Scan(&cand.ID, &cand.ElectionID, &cand.PartyID, &cand.PartyName, &cand.Name, &cand.Bio); err != nil {
			return nil, voteerr.Storage("load roster", err)
		}
		roster = append(roster, cand)
	}
	if err := rows.Err(); err != nil {
		return nil, voteerr.Storage("load roster", err)
	}
	return roster, nil
}
