// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package fixtures loads seed data (parties, voters, elections, candidates
// and allowed voters) from YAML.
//
//	parties:
//	  - name: Blue
//	voters:
//	  - voter_id: V1
//	    username: alice
//	elections:
//	  - id: city-2026
//	    title: City Council
//	    start_date: 2026-05-01T08:00:00Z
//	    end_date: 2026-05-01T20:00:00Z
//	    candidates:
//	      - id: city-2026-abe
//	        name: Abe
//	        party: Blue
//	    allowed_voters: [V1]
//
// Records that already exist are skipped, so a file with explicit IDs can be
// applied on every start.
package fixtures

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/danielhkuo/quickly-elect/models"
	"github.com/danielhkuo/quickly-elect/voteerr"
)

type Fixture struct {
	Parties   []Party    `yaml:"parties"`
	Voters    []Voter    `yaml:"voters"`
	Elections []Election `yaml:"elections"`
}

type Party struct {
	ID          string `yaml:"id,omitempty"`
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
}

type Voter struct {
	VoterID  string `yaml:"voter_id"`
	Username string `yaml:"username"`
	Role     string `yaml:"role,omitempty"`
}

type Election struct {
	ID            string      `yaml:"id,omitempty"`
	Title         string      `yaml:"title"`
	Description   string      `yaml:"description,omitempty"`
	StartDate     time.Time   `yaml:"start_date"`
	EndDate       time.Time   `yaml:"end_date"`
	Status        string      `yaml:"status,omitempty"`
	MaxVoters     *int        `yaml:"max_voters,omitempty"`
	Candidates    []Candidate `yaml:"candidates"`
	AllowedVoters []string    `yaml:"allowed_voters"`
}

// Candidate names its party by party name.
type Candidate struct {
	ID    string `yaml:"id,omitempty"`
	Name  string `yaml:"name"`
	Bio   string `yaml:"bio,omitempty"`
	Party string `yaml:"party"`
}

// Catalog is the subset of catalog.Catalog that Apply writes through.
type Catalog interface {
	AddParty(ctx context.Context, p models.Party) (models.Party, error)
	ListParties(ctx context.Context) ([]models.Party, error)
	CreateVoter(ctx context.Context, voterID, username, role string) (models.Voter, error)
	AddElection(ctx context.Context, e models.Election) (models.Election, error)
	AddCandidate(ctx context.Context, c models.Candidate) (models.Candidate, error)
}

type Registry interface {
	Register(ctx context.Context, voterID, electionID string) (models.AllowedVoter, error)
}

// Summary counts the records Apply created.
type Summary struct {
	Parties       int
	Voters        int
	Elections     int
	Candidates    int
	AllowedVoters int
	Skipped       int
}

func Parse(data []byte) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	return &f, nil
}

func LoadFile(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load fixture %q: %w", path, err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Apply inserts the fixture parents first. Duplicates are counted as skipped;
// any other error stops the run.
func (f *Fixture) Apply(ctx context.Context, cat Catalog, reg Registry) (Summary, error) {
	var sum Summary

	created := func(err error, counter *int) error {
		switch {
		case err == nil:
			*counter++
			return nil
		case errors.Is(err, voteerr.ErrDuplicateRegistration):
			sum.Skipped++
			return nil
		default:
			return err
		}
	}

	for _, p := range f.Parties {
		_, err := cat.AddParty(ctx, models.Party{ID: p.ID, Name: p.Name, Description: p.Description})
		if err := created(err, &sum.Parties); err != nil {
			return sum, fmt.Errorf("party %q: %w", p.Name, err)
		}
	}

	parties, err := cat.ListParties(ctx)
	if err != nil {
		return sum, err
	}
	partyIDs := make(map[string]string, len(parties))
	for _, p := range parties {
		partyIDs[p.Name] = p.ID
	}

	for _, v := range f.Voters {
		_, err := cat.CreateVoter(ctx, v.VoterID, v.Username, v.Role)
		if err := created(err, &sum.Voters); err != nil {
			return sum, fmt.Errorf("voter %q: %w", v.VoterID, err)
		}
	}

	for _, e := range f.Elections {
		if e.ID == "" && (len(e.Candidates) > 0 || len(e.AllowedVoters) > 0) {
			// Without an ID a rerun would create a second election.
			slog.Warn("fixture election has no id", "title", e.Title)
		}

		election, err := cat.AddElection(ctx, models.Election{
			ID:          e.ID,
			Title:       e.Title,
			Description: e.Description,
			StartDate:   e.StartDate,
			EndDate:     e.EndDate,
			Status:      e.Status,
			MaxVoters:   e.MaxVoters,
		})
		if err := created(err, &sum.Elections); err != nil {
			return sum, fmt.Errorf("election %q: %w", e.Title, err)
		}
		electionID := election.ID
		if electionID == "" {
			electionID = e.ID
		}

		for _, c := range e.Candidates {
			partyID, ok := partyIDs[c.Party]
			if !ok {
				return sum, fmt.Errorf("candidate %q: %w", c.Name, voteerr.Invalid("unknown party %q", c.Party))
			}
			_, err := cat.AddCandidate(ctx, models.Candidate{
				ID:         c.ID,
				ElectionID: electionID,
				PartyID:    partyID,
				Name:       c.Name,
				Bio:        c.Bio,
			})
			if err := created(err, &sum.Candidates); err != nil {
				return sum, fmt.Errorf("candidate %q: %w", c.Name, err)
			}
		}

		for _, voterID := range e.AllowedVoters {
			_, err := reg.Register(ctx, voterID, electionID)
			if err := created(err, &sum.AllowedVoters); err != nil {
				return sum, fmt.Errorf("allowed voter %q: %w", voterID, err)
			}
		}
	}

	slog.Info("fixture applied",
		"parties", sum.Parties,
		"voters", sum.Voters,
		"elections", sum.Elections,
		"candidates", sum.Candidates,
		"allowed_voters", sum.AllowedVoters,
		"skipped", sum.Skipped,
	)
	return sum, nil
}
