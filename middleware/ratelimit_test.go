// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestVoterRateLimiter_PerVoter(t *testing.T) {
	rl := NewVoterRateLimiter(1, 2)
	fixed := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return fixed }

	if !rl.Allow("V1") || !rl.Allow("V1") {
		t.Fatal("Expected burst of 2 to be allowed")
	}
	if rl.Allow("V1") {
		t.Error("Expected third immediate submission to be limited")
	}
	if !rl.Allow("V2") {
		t.Error("Expected a different voter to have its own budget")
	}

	fixed = fixed.Add(time.Second)
	if !rl.Allow("V1") {
		t.Error("Expected the bucket to refill after a second")
	}
}

func TestVoterRateLimiter_SweepsIdleVoters(t *testing.T) {
	rl := NewVoterRateLimiter(1, 1)
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	rl.Allow("V1")
	rl.Allow("V2")
	if rl.Len() != 2 {
		t.Fatalf("Expected 2 tracked voters, got %d", rl.Len())
	}

	now = now.Add(idleTTL + 2*time.Minute)
	rl.Allow("V3")
	if rl.Len() != 1 {
		t.Errorf("Expected idle voters to be swept, %d tracked", rl.Len())
	}
}

func TestVoterRateLimiter_Wrap(t *testing.T) {
	rl := NewVoterRateLimiter(0.001, 1)
	calls := 0
	handler := rl.Wrap(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusCreated)
	})

	send := func(voterID string) int {
		req := httptest.NewRequest("POST", "/elections/e1/votes", nil)
		if voterID != "" {
			req.Header.Set(HeaderVoterID, voterID)
		}
		w := httptest.NewRecorder()
		handler(w, req)
		return w.Code
	}

	if code := send("V1"); code != http.StatusCreated {
		t.Errorf("Expected first submission to pass, got %d", code)
	}
	if code := send("V1"); code != http.StatusTooManyRequests {
		t.Errorf("Expected 429, got %d", code)
	}
	if code := send("V2"); code != http.StatusCreated {
		t.Errorf("Expected another voter to pass, got %d", code)
	}
	if code := send(""); code != http.StatusCreated {
		t.Errorf("Expected anonymous request keyed by IP to pass, got %d", code)
	}
	if calls != 3 {
		t.Errorf("Expected 3 handler calls, got %d", calls)
	}
}
