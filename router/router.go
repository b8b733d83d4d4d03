// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/quickly-elect/cliparse"
	"github.com/danielhkuo/quickly-elect/handlers"
	"github.com/danielhkuo/quickly-elect/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	electionHandler := handlers.NewElectionHandler(db, cfg)
	registryHandler := handlers.NewRegistryHandler(db, cfg)
	votingHandler := handlers.NewVotingHandler(db, cfg)
	resultsHandler := handlers.NewResultsHandler(db, cfg)

	castVote := votingHandler.CastVote
	if cfg.VoteRate > 0 {
		castVote = middleware.NewVoterRateLimiter(cfg.VoteRate, cfg.VoteBurst).Wrap(castVote)
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Registry (authority operations)
	mux.HandleFunc("POST /voters", middleware.WithLogging(registryHandler.CreateVoter))
	mux.HandleFunc("POST /parties", middleware.WithLogging(registryHandler.CreateParty))
	mux.HandleFunc("GET /parties", middleware.WithLogging(registryHandler.ListParties))

	// Election management
	mux.HandleFunc("POST /elections", middleware.WithLogging(electionHandler.CreateElection))
	mux.HandleFunc("GET /elections", middleware.WithLogging(electionHandler.ListElections))
	mux.HandleFunc("GET /elections/{id}", middleware.WithLogging(electionHandler.GetElection))
	mux.HandleFunc("PUT /elections/{id}/status", middleware.WithLogging(electionHandler.SetStatus))
	mux.HandleFunc("DELETE /elections/{id}", middleware.WithLogging(electionHandler.DeleteElection))
	mux.HandleFunc("POST /elections/{id}/candidates", middleware.WithLogging(electionHandler.AddCandidate))

	// Eligibility
	mux.HandleFunc("POST /elections/{id}/allowed-voters", middleware.WithLogging(registryHandler.RegisterAllowedVoter))
	mux.HandleFunc("GET /elections/{id}/allowed-voters", middleware.WithLogging(registryHandler.ListAllowedVoters))
	mux.HandleFunc("DELETE /elections/{id}/allowed-voters/{voterId}", middleware.WithLogging(registryHandler.RevokeAllowedVoter))

	// Voting
	mux.HandleFunc("POST /elections/{id}/votes", middleware.WithLogging(castVote))
	mux.HandleFunc("GET /voters/{voterId}/elections", middleware.WithLogging(votingHandler.ParticipatedElections))

	// Results
	mux.HandleFunc("GET /elections/{id}/results", middleware.WithLogging(resultsHandler.GetResults))
	mux.HandleFunc("GET /results", middleware.WithLogging(resultsHandler.GetAllResults))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("quickly-elect API v1"))
	})

	return mux
}
