// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/quickly-elect/auth"
	"github.com/danielhkuo/quickly-elect/models"
	"github.com/danielhkuo/quickly-elect/testutil"
)

func authorityHeaders(salt string) map[string]string {
	return map[string]string{"X-Admin-Key": auth.GenerateAdminKey(auth.AuthorityScope, salt)}
}

func TestCreateElection(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewElectionHandler(db, cfg)

	start := time.Now().UTC().Add(time.Hour).Truncate(time.Second)
	valid := models.CreateElectionRequest{
		Title:     "Board Election",
		StartDate: start,
		EndDate:   start.Add(24 * time.Hour),
	}

	tests := []struct {
		name           string
		body           interface{}
		headers        map[string]string
		expectedStatus int
	}{
		{"valid", valid, authorityHeaders(cfg.AdminKeySalt), http.StatusCreated},
		{"missing admin key", valid, nil, http.StatusUnauthorized},
		{"election key is not the authority", valid, map[string]string{"X-Admin-Key": auth.GenerateAdminKey("some-election", cfg.AdminKeySalt)}, http.StatusUnauthorized},
		{"missing title", models.CreateElectionRequest{StartDate: start, EndDate: start.Add(time.Hour)}, authorityHeaders(cfg.AdminKeySalt), http.StatusBadRequest},
		{"end before start", models.CreateElectionRequest{Title: "x", StartDate: start, EndDate: start.Add(-time.Hour)}, authorityHeaders(cfg.AdminKeySalt), http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/elections", tt.body, tt.headers)
			w := httptest.NewRecorder()
			handler.CreateElection(w, req)
			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.expectedStatus != http.StatusCreated {
				return
			}
			var resp models.CreateElectionResponse
			testutil.AssertJSON(t, w, &resp)
			if resp.ElectionID == "" {
				t.Fatal("Expected election_id")
			}
			if err := auth.ValidateAdminKey(resp.ElectionID, resp.AdminKey, cfg.AdminKeySalt); err != nil {
				t.Error("Returned admin key does not validate for the election")
			}
		})
	}
}

func TestGetAndListElections(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewElectionHandler(db, testutil.GetTestConfig())

	partyID := testutil.CreateTestParty(t, db, "Party A")
	ongoing := testutil.CreateTestElection(t, db, models.StatusOngoing)
	testutil.CreateTestElection(t, db, models.StatusCompleted)
	testutil.AddTestCandidate(t, db, ongoing, partyID, "C1")

	t.Run("get with roster", func(t *testing.T) {
		req := testutil.MakeRequest("GET", "/elections/"+ongoing, nil, nil)
		req.SetPathValue("id", ongoing)
		w := httptest.NewRecorder()
		handler.GetElection(w, req)

		testutil.AssertStatus(t, w, http.StatusOK)
		var resp models.ElectionWithRoster
		testutil.AssertJSON(t, w, &resp)
		if resp.Election.ID != ongoing || len(resp.Candidates) != 1 || resp.Candidates[0].PartyName != "Party A" {
			t.Errorf("Unexpected election: %+v", resp)
		}
	})

	t.Run("get unknown", func(t *testing.T) {
		req := testutil.MakeRequest("GET", "/elections/missing", nil, nil)
		req.SetPathValue("id", "missing")
		w := httptest.NewRecorder()
		handler.GetElection(w, req)
		testutil.AssertStatus(t, w, http.StatusNotFound)
	})

	listCases := []struct {
		query    string
		status   int
		expected int
	}{
		{"", http.StatusOK, 2},
		{"?status=ONGOING", http.StatusOK, 1},
		{"?status=CANCELLED", http.StatusOK, 0},
		{"?status=PAUSED", http.StatusBadRequest, 0},
	}
	for _, lc := range listCases {
		t.Run("list"+lc.query, func(t *testing.T) {
			req := testutil.MakeRequest("GET", "/elections"+lc.query, nil, nil)
			w := httptest.NewRecorder()
			handler.ListElections(w, req)

			testutil.AssertStatus(t, w, lc.status)
			if lc.status != http.StatusOK {
				return
			}
			var summaries []models.ElectionSummary
			testutil.AssertJSON(t, w, &summaries)
			if len(summaries) != lc.expected {
				t.Errorf("Expected %d elections, got %d", lc.expected, len(summaries))
			}
		})
	}
}

func TestSetStatusAndDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewElectionHandler(db, cfg)

	electionID := testutil.CreateTestElection(t, db, models.StatusNotStarted)
	electionKey := map[string]string{"X-Admin-Key": auth.GenerateAdminKey(electionID, cfg.AdminKeySalt)}

	setStatus := func(status string, headers map[string]string) *httptest.ResponseRecorder {
		req := testutil.MakeRequest("PUT", "/elections/"+electionID+"/status", models.SetStatusRequest{Status: status}, headers)
		req.SetPathValue("id", electionID)
		w := httptest.NewRecorder()
		handler.SetStatus(w, req)
		return w
	}

	testutil.AssertStatus(t, setStatus(models.StatusOngoing, nil), http.StatusUnauthorized)
	testutil.AssertStatus(t, setStatus("PAUSED", electionKey), http.StatusBadRequest)

	w := setStatus(models.StatusOngoing, electionKey)
	testutil.AssertStatus(t, w, http.StatusOK)
	var election models.Election
	testutil.AssertJSON(t, w, &election)
	if election.Status != models.StatusOngoing {
		t.Errorf("Expected ONGOING, got %s", election.Status)
	}

	// The authority key works for any election.
	testutil.AssertStatus(t, setStatus(models.StatusCancelled, authorityHeaders(cfg.AdminKeySalt)), http.StatusOK)

	// Delete is refused once a vote exists.
	partyID := testutil.CreateTestParty(t, db, "Party A")
	candidateID := testutil.AddTestCandidate(t, db, electionID, partyID, "C1")
	testutil.CreateTestVoter(t, db, "V1")
	voteID := testutil.InsertTestVote(t, db, "V1", candidateID, electionID)

	del := func() *httptest.ResponseRecorder {
		req := testutil.MakeRequest("DELETE", "/elections/"+electionID, nil, electionKey)
		req.SetPathValue("id", electionID)
		w := httptest.NewRecorder()
		handler.DeleteElection(w, req)
		return w
	}
	testutil.AssertStatus(t, del(), http.StatusConflict)

	if _, err := db.Exec(`DELETE FROM vote WHERE id = $1`, voteID); err != nil {
		t.Fatalf("Failed to remove test vote: %v", err)
	}
	testutil.AssertStatus(t, del(), http.StatusNoContent)
	testutil.AssertStatus(t, del(), http.StatusNotFound)
}

func TestAddCandidate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewElectionHandler(db, cfg)

	electionID := testutil.CreateTestElection(t, db, models.StatusNotStarted)
	partyID := testutil.CreateTestParty(t, db, "Party A")
	electionKey := map[string]string{"X-Admin-Key": auth.GenerateAdminKey(electionID, cfg.AdminKeySalt)}

	tests := []struct {
		name           string
		body           models.AddCandidateRequest
		headers        map[string]string
		expectedStatus int
	}{
		{"valid", models.AddCandidateRequest{Name: "Abe", PartyID: partyID}, electionKey, http.StatusCreated},
		{"wrong key", models.AddCandidateRequest{Name: "Abe", PartyID: partyID}, map[string]string{"X-Admin-Key": "nope"}, http.StatusUnauthorized},
		{"unknown party", models.AddCandidateRequest{Name: "Abe", PartyID: "missing"}, electionKey, http.StatusNotFound},
		{"missing name", models.AddCandidateRequest{PartyID: partyID}, electionKey, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/elections/"+electionID+"/candidates", tt.body, tt.headers)
			req.SetPathValue("id", electionID)
			w := httptest.NewRecorder()
			handler.AddCandidate(w, req)
			testutil.AssertStatus(t, w, tt.expectedStatus)
		})
	}
}
