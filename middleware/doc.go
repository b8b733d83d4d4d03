// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request start (method, path, remote) and completion (duration_ms).

# CORS Middleware

Enable cross-origin requests for frontend access:

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

Allows methods GET, POST, PUT, DELETE, OPTIONS with headers
Content-Type, Authorization, X-Admin-Key, X-Voter-ID.

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

Parse JSON request bodies:

	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

# Errors

WriteError turns a voteerr rejection into a response whose status follows
the rejection kind (404 not found, 422 candidate mismatch, 403 not eligible,
409 conflicts, 400 invalid input, 503 storage failure). The kind is sent as
the code field. Driver errors are logged and never written to the client.

# Rate Limiting

VoterRateLimiter keeps a token bucket per X-Voter-ID:

	limiter := middleware.NewVoterRateLimiter(cfg.VoteRate, cfg.VoteBurst)
	mux.HandleFunc("POST /elections/{id}/votes", limiter.Wrap(handler))

# Client IP Extraction

Get the original client IP (handles X-Forwarded-For, X-Real-IP):

	ip := middleware.GetClientIP(r)

Used as the rate limit key when a request has no voter identity.
*/
package middleware
