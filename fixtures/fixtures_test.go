// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package fixtures

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/quickly-elect/catalog"
	"github.com/danielhkuo/quickly-elect/eligibility"
	"github.com/danielhkuo/quickly-elect/models"
	"github.com/danielhkuo/quickly-elect/testutil"
	"github.com/danielhkuo/quickly-elect/voteerr"
)

const sample = `
parties:
  - name: Blue
    description: The blue party
  - id: party-green
    name: Green
voters:
  - voter_id: V1
    username: alice
  - voter_id: V2
    username: bob
  - voter_id: A1
    username: root
    role: ADMIN
elections:
  - id: city-2026
    title: City Council
    start_date: 2026-05-01T08:00:00Z
    end_date: 2026-05-01T20:00:00Z
    status: ONGOING
    max_voters: 1000
    candidates:
      - id: city-2026-abe
        name: Abe
        party: Blue
      - id: city-2026-bea
        name: Bea
        party: Green
    allowed_voters: [V1, V2]
`

func TestParse(t *testing.T) {
	f, err := Parse([]byte(sample))
	require.NoError(t, err)

	require.Len(t, f.Parties, 2)
	assert.Equal(t, "party-green", f.Parties[1].ID)
	require.Len(t, f.Voters, 3)
	assert.Equal(t, models.RoleAdmin, f.Voters[2].Role)

	require.Len(t, f.Elections, 1)
	e := f.Elections[0]
	assert.True(t, e.StartDate.Equal(time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)))
	require.NotNil(t, e.MaxVoters)
	assert.Equal(t, 1000, *e.MaxVoters)
	assert.Equal(t, []string{"V1", "V2"}, e.AllowedVoters)
	assert.Equal(t, "Green", e.Candidates[1].Party)
}

func TestParseInvalid(t *testing.T) {
	_, err := Parse([]byte("parties: [name: : :"))
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	f, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, f.Elections, 1)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestApply(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cat := catalog.New(conn)
	reg := eligibility.New(conn)
	ctx := context.Background()

	f, err := Parse([]byte(sample))
	require.NoError(t, err)

	sum, err := f.Apply(ctx, cat, reg)
	require.NoError(t, err)
	assert.Equal(t, Summary{Parties: 2, Voters: 3, Elections: 1, Candidates: 2, AllowedVoters: 2}, sum)

	e, err := cat.GetElection(ctx, "city-2026")
	require.NoError(t, err)
	assert.Equal(t, models.StatusOngoing, e.Status)

	roster, err := cat.Roster(ctx, "city-2026")
	require.NoError(t, err)
	require.Len(t, roster, 2)
	assert.Equal(t, "Blue", roster[0].PartyName)
	assert.Equal(t, "party-green", roster[1].PartyID)

	allowed, err := reg.IsAllowed(ctx, "V2", "city-2026")
	require.NoError(t, err)
	assert.True(t, allowed)

	// A second run creates nothing.
	again, err := f.Apply(ctx, cat, reg)
	require.NoError(t, err)
	assert.Equal(t, Summary{Skipped: 10}, again)
}

func TestApplyUnknownParty(t *testing.T) {
	conn := testutil.SetupTestDB(t)

	f := &Fixture{Elections: []Election{{
		ID:         "e1",
		Title:      "Orphan",
		StartDate:  time.Now(),
		EndDate:    time.Now().Add(time.Hour),
		Candidates: []Candidate{{Name: "Nobody", Party: "Missing"}},
	}}}

	_, err := f.Apply(context.Background(), catalog.New(conn), eligibility.New(conn))
	assert.True(t, errors.Is(err, voteerr.ErrInvalidInput), "got %v", err)
}
