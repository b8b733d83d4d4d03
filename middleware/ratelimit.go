// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// idleTTL is how long an unused limiter is kept before it is swept.
const idleTTL = 3 * time.Minute

// VoterRateLimiter throttles vote submissions per voter identity. It only
// slows abusive clients down; duplicate votes are still refused by the
// ledger.
type VoterRateLimiter struct {
	mu        sync.Mutex
	limit     rate.Limit
	burst     int
	voters    map[string]*limiterEntry
	lastSweep time.Time
	now       func() time.Time
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewVoterRateLimiter allows rps submissions per second per voter with the
// given burst.
func NewVoterRateLimiter(rps float64, burst int) *VoterRateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &VoterRateLimiter{
		limit:  rate.Limit(rps),
		burst:  burst,
		voters: make(map[string]*limiterEntry),
		now:    time.Now,
	}
}

// Allow reports whether key may proceed now.
func (rl *VoterRateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.lastSweep) > time.Minute {
		for k, e := range rl.voters {
			if now.Sub(e.lastSeen) > idleTTL {
				delete(rl.voters, k)
			}
		}
		rl.lastSweep = now
	}

	e, ok := rl.voters[key]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.voters[key] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1)
}

// Len returns the number of tracked voters.
func (rl *VoterRateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.voters)
}

// Wrap rejects requests over the limit with 429. Requests are keyed by the
// X-Voter-ID header, or by client IP when it is missing.
func (rl *VoterRateLimiter) Wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := strings.TrimSpace(r.Header.Get(HeaderVoterID))
		if key == "" {
			key = "ip:" + GetClientIP(r)
		}

		if !rl.Allow(key) {
			slog.Warn("vote submission rate limited", "key", key)
			w.Header().Set("Retry-After", "1")
			ErrorResponse(w, http.StatusTooManyRequests, "too many vote submissions")
			return
		}

		next(w, r)
	}
}
