// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/danielhkuo/quickly-elect/auth"
	"github.com/danielhkuo/quickly-elect/cliparse"
	"github.com/danielhkuo/quickly-elect/db"
	"github.com/danielhkuo/quickly-elect/models"
)

// TestDBEnv names a PostgreSQL database to run against instead of the
// default in-memory SQLite database.
const TestDBEnv = "TEST_DATABASE_URL"

// DBType returns the database type SetupTestDB uses.
func DBType() string {
	if os.Getenv(TestDBEnv) != "" {
		return db.TypePostgres
	}
	return db.TypeSQLite
}

// SetupTestDB creates a fresh test database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	url := os.Getenv(TestDBEnv)
	if url == "" {
		url = ":memory:"
	}

	conn, err := db.Open(ctx, DBType(), url)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// Clean up tables before each test
	if err := db.DropSchema(ctx, conn); err != nil {
		t.Fatalf("Failed to clean database: %v", err)
	}
	if err := db.CreateSchemaContext(ctx, conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	t.Cleanup(func() { conn.Close() })
	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3318,
		DatabaseURL:  ":memory:",
		DatabaseType: db.TypeSQLite,
		AdminKeySalt: "test-admin-salt",
		LogLevel:     "error",
	}
}

func newID(t *testing.T) string {
	t.Helper()
	id, err := auth.GenerateID()
	if err != nil {
		t.Fatalf("Failed to generate ID: %v", err)
	}
	return id
}

// CreateTestVoter registers a voter identity and returns its voter ID
func CreateTestVoter(t *testing.T, conn *sql.DB, voterID string) string {
	t.Helper()

	_, err := conn.Exec(`
		INSERT INTO voter (id, voter_id, username, role, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, newID(t), voterID, "user-"+voterID, models.RoleVoter, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test voter: %v", err)
	}

	return voterID
}

// CreateTestParty inserts a party and returns its ID
func CreateTestParty(t *testing.T, conn *sql.DB, name string) string {
	t.Helper()

	partyID := newID(t)
	_, err := conn.Exec(`
		INSERT INTO party (id, name, description)
		VALUES ($1, $2, '')
	`, partyID, name)
	if err != nil {
		t.Fatalf("Failed to create test party: %v", err)
	}

	return partyID
}

// CreateTestElection inserts an election with the given status and returns
// its ID. The window is one day either side of now.
func CreateTestElection(t *testing.T, conn *sql.DB, status string) string {
	t.Helper()

	electionID := newID(t)
	CreateTestElectionWithID(t, conn, electionID, status)
	return electionID
}

// CreateTestElectionWithID is CreateTestElection with a caller-chosen ID
func CreateTestElectionWithID(t *testing.T, conn *sql.DB, electionID, status string) {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Second)
	_, err := conn.Exec(`
		INSERT INTO election (id, title, description, start_date, end_date, status, created_at, updated_at)
		VALUES ($1, $2, 'A test election', $3, $4, $5, $6, $7)
	`, electionID, "Election "+electionID, now.Add(-24*time.Hour), now.Add(24*time.Hour), status, now, now)
	if err != nil {
		t.Fatalf("Failed to create test election: %v", err)
	}
}

// AddTestCandidate adds a candidate to an election and returns its ID
func AddTestCandidate(t *testing.T, conn *sql.DB, electionID, partyID, name string) string {
	t.Helper()

	candidateID := newID(t)
	AddTestCandidateWithID(t, conn, candidateID, electionID, partyID, name)
	return candidateID
}

// AddTestCandidateWithID is AddTestCandidate with a caller-chosen ID
func AddTestCandidateWithID(t *testing.T, conn *sql.DB, candidateID, electionID, partyID, name string) {
	t.Helper()

	_, err := conn.Exec(`
		INSERT INTO candidate (id, election_id, party_id, name, bio)
		VALUES ($1, $2, $3, $4, '')
	`, candidateID, electionID, partyID, name)
	if err != nil {
		t.Fatalf("Failed to create test candidate: %v", err)
	}
}

// AllowTestVoter registers a voter as eligible for an election
func AllowTestVoter(t *testing.T, conn *sql.DB, voterID, electionID string) {
	t.Helper()

	_, err := conn.Exec(`
		INSERT INTO allowed_voter (id, voter_id, election_id, created_at)
		VALUES ($1, $2, $3, $4)
	`, newID(t), voterID, electionID, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to allow test voter: %v", err)
	}
}

// InsertTestVote writes a vote row directly, bypassing admission
func InsertTestVote(t *testing.T, conn *sql.DB, voterID, candidateID, electionID string) string {
	t.Helper()

	voteID := newID(t)
	_, err := conn.Exec(`
		INSERT INTO vote (id, voter_id, candidate_id, election_id, cast_at)
		VALUES ($1, $2, $3, $4, $5)
	`, voteID, voterID, candidateID, electionID, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to insert test vote: %v", err)
	}

	return voteID
}

// CountVotes returns the number of vote rows for a voter in an election
func CountVotes(t *testing.T, conn *sql.DB, voterID, electionID string) int {
	t.Helper()

	var count int
	err := conn.QueryRow(`
		SELECT COUNT(*) FROM vote WHERE voter_id = $1 AND election_id = $2
	`, voterID, electionID).Scan(&count)
	if err != nil {
		t.Fatalf("Failed to count votes: %v", err)
	}

	return count
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
